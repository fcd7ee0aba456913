package domain

import "github.com/google/uuid"

// AcceptanceStatus is the lifecycle state of an activity. It is a pure
// function of (vote count, participant count) and is recomputed on every read.
type AcceptanceStatus string

const (
	// StatusProposed means the activity has fewer votes than the quorum.
	StatusProposed AcceptanceStatus = "proposed"
	// StatusLockedIn means the activity has reached the quorum.
	StatusLockedIn AcceptanceStatus = "locked_in"
)

// RequiredVotes returns the quorum for a trip with the given number of
// participants: ceil(participants / 2). Counts below 1 are treated as 1.
func RequiredVotes(participants int) int {
	participants = max(participants, 1)
	return (participants + 1) / 2
}

// IsLockedIn reports whether the activity's votes meet the quorum for the
// given participant count. A new join can raise the quorum and un-lock an
// activity, so callers must pass the current count.
func IsLockedIn(a Activity, participants int) bool {
	return len(a.Votes) >= RequiredVotes(participants)
}

// Status returns the acceptance state of a for the given participant count.
func Status(a Activity, participants int) AcceptanceStatus {
	if IsLockedIn(a, participants) {
		return StatusLockedIn
	}
	return StatusProposed
}

// Standing is an activity evaluated against its trip's current membership,
// as seen by one viewer.
type Standing struct {
	Activity      Activity
	RequiredVotes int
	Status        AcceptanceStatus
	VotedByViewer bool
}

// Stand evaluates a for a trip with the given participant count. viewer may
// be uuid.Nil for an anonymous reader.
func Stand(a Activity, participants int, viewer uuid.UUID) Standing {
	return Standing{
		Activity:      a,
		RequiredVotes: RequiredVotes(participants),
		Status:        Status(a, participants),
		VotedByViewer: viewer != uuid.Nil && a.HasVoted(viewer),
	}
}

// Package domain contains the core data types for the Planit application and
// the pure projections computed over them (quorum, budget, timeline).
// It is imported by every other internal package (repo, service, handler)
// and never performs I/O.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// TripCodeLength is the fixed length of a trip code.
const TripCodeLength = 6

// Trip is a planned shared journey. It is the top-level aggregate;
// activities belong to a trip.
// Participants always contains CreatedBy and preserves join order.
type Trip struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	Budget       *float64    `json:"budget,omitempty"` // nil when the group set no budget
	CreatedBy    uuid.UUID   `json:"created_by"`
	Participants []uuid.UUID `json:"participants"`
	TripCode     string      `json:"trip_code"`
	CreatedAt    time.Time   `json:"created_at"`
}

// HasParticipant reports whether userID is a member of the trip.
func (t Trip) HasParticipant(userID uuid.UUID) bool {
	return slices.Contains(t.Participants, userID)
}

// ParticipantCount returns the number of members, never less than 1.
// A live trip always contains its owner.
func (t Trip) ParticipantCount() int {
	return max(len(t.Participants), 1)
}

// Covers reports whether date falls within [StartDate, EndDate], inclusive.
// Only the calendar day is compared.
func (t Trip) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(t.StartDate)) && !d.After(DateOnly(t.EndDate))
}

// InvitePath returns the path segment that, joined with the public base URL,
// forms the shareable invite link for a trip code.
func InvitePath(code string) string {
	return "/join/" + code
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// JoinResult is returned by a join. AlreadyJoined is informational: joining a
// trip one already belongs to is a no-op, not an error.
type JoinResult struct {
	Trip          Trip
	AlreadyJoined bool
}

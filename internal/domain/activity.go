package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Category classifies an activity for the budget breakdown.
type Category string

const (
	CategoryAdventure   Category = "Adventure"
	CategoryFood        Category = "Food"
	CategorySightseeing Category = "Sightseeing"
	CategoryOther       Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryAdventure, CategoryFood, CategorySightseeing, CategoryOther}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// TimeLayout is the zero-padded 24-hour layout used for Activity.Time.
// Lexicographic order on strings in this layout equals chronological order.
const TimeLayout = "15:04"

// Activity is a single proposed itinerary item belonging to a trip.
// Votes holds the ids of users who voted for it, in voting order.
type Activity struct {
	ID            uuid.UUID   `json:"id"`
	TripID        uuid.UUID   `json:"trip_id"`
	Title         string      `json:"title"`
	Date          time.Time   `json:"date"`
	Time          string      `json:"time"`
	Category      Category    `json:"category"`
	EstimatedCost float64     `json:"estimated_cost"`
	Notes         string      `json:"notes,omitempty"`
	CreatedBy     uuid.UUID   `json:"created_by"`
	Votes         []uuid.UUID `json:"votes"`
	CreatedAt     time.Time   `json:"created_at"`
}

// HasVoted reports whether userID is in the activity's vote set.
func (a Activity) HasVoted(userID uuid.UUID) bool {
	return slices.Contains(a.Votes, userID)
}

// ToggleVote returns a copy of a with userID removed from Votes if present,
// or appended otherwise. Applying it twice restores the original vote set.
func (a Activity) ToggleVote(userID uuid.UUID) Activity {
	out := a
	if a.HasVoted(userID) {
		out.Votes = slices.DeleteFunc(slices.Clone(a.Votes), func(id uuid.UUID) bool { return id == userID })
		return out
	}
	out.Votes = append(slices.Clone(a.Votes), userID)
	return out
}

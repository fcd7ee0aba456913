package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/events"
	"github.com/pkordes/planit/internal/ident"
	"github.com/pkordes/planit/internal/observability"
	"github.com/pkordes/planit/internal/repo"
)

// ActivityInput is the data needed to propose an activity.
// Time is "HH:MM" on a 24-hour clock; "9:05" is accepted and stored as "09:05".
type ActivityInput struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Date          time.Time       `json:"date" validate:"required"`
	Time          string          `json:"time" validate:"required"`
	Category      domain.Category `json:"category" validate:"required"`
	EstimatedCost float64         `json:"estimated_cost" validate:"gte=0,lte=1000000000"`
	Notes         string          `json:"notes" validate:"max=2000"`
}

// ActivityService implements the activity ledger: proposing activities
// and toggling votes on them. Only trip participants may do either.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
	deps
}

// NewActivityService constructs an ActivityService backed by the provided repos.
func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo, opts ...Option) *ActivityService {
	return &ActivityService{trips: trips, activities: activities, deps: newDeps(opts)}
}

// Add validates and persists a new activity on tripID with no votes.
// Returns domain.ErrNotFound for an unknown trip, domain.ErrPermissionDenied
// if creator is not a participant, and domain.ErrValidation for bad input,
// including a date outside the trip.
func (s *ActivityService) Add(ctx context.Context, tripID, creator uuid.UUID, in ActivityInput) (domain.Activity, error) {
	if creator == uuid.Nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Add: %w", domain.ErrNotAuthenticated)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Add: %w", err)
	}
	if !trip.HasParticipant(creator) {
		return domain.Activity{}, fmt.Errorf("%w: only trip participants can add activities", domain.ErrPermissionDenied)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Notes = strings.TrimSpace(in.Notes)
	clock, err := validateActivity(trip, &in)
	if err != nil {
		return domain.Activity{}, err
	}

	activity, err := s.activities.Create(ctx, domain.Activity{
		ID:            ident.NewID(),
		TripID:        tripID,
		Title:         in.Title,
		Date:          domain.DateOnly(in.Date),
		Time:          clock,
		Category:      in.Category,
		EstimatedCost: in.EstimatedCost,
		Notes:         in.Notes,
		CreatedBy:     creator,
		Votes:         []uuid.UUID{},
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Add: %w", err)
	}

	observability.RecordActivityAdded(string(activity.Category))
	s.publish(ctx, events.Event{Type: events.ActivityAdded, TripID: tripID, ActivityID: activity.ID, UserID: creator})
	return activity, nil
}

// validateActivity enforces the activity rules and returns the normalized time.
//   - Title, date, time and category are required; cost must not be negative.
//   - Time must parse as a 24-hour "HH:MM".
//   - Category must be one of the fixed categories.
//   - Date must fall within the trip, both ends inclusive.
func validateActivity(trip domain.Trip, in *ActivityInput) (string, error) {
	if err := checkInput(*in); err != nil {
		return "", err
	}
	t, err := time.Parse(domain.TimeLayout, strings.TrimSpace(in.Time))
	if err != nil {
		return "", fmt.Errorf("%w: time must be HH:MM on a 24-hour clock", domain.ErrValidation)
	}
	if !in.Category.Valid() {
		return "", fmt.Errorf("%w: category must be one of %v", domain.ErrValidation, domain.Categories)
	}
	if !trip.Covers(in.Date) {
		return "", fmt.Errorf("%w: date must be between %s and %s", domain.ErrValidation,
			trip.StartDate.Format(time.DateOnly), trip.EndDate.Format(time.DateOnly))
	}
	return t.Format(domain.TimeLayout), nil
}

// ListForTrip returns a trip's activities in creation order.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ActivityService) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListForTrip: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListForTrip: %w", err)
	}
	if activities == nil {
		return []domain.Activity{}, nil
	}
	return activities, nil
}

// ToggleVote adds user's vote to the activity, or removes it if already
// present. Returns domain.ErrPermissionDenied if user is not a participant
// of the activity's trip.
func (s *ActivityService) ToggleVote(ctx context.Context, activityID, user uuid.UUID) (domain.Activity, error) {
	if user == uuid.Nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.ToggleVote: %w", domain.ErrNotAuthenticated)
	}
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.ToggleVote: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, activity.TripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.ToggleVote: %w", err)
	}
	if !trip.HasParticipant(user) {
		return domain.Activity{}, fmt.Errorf("%w: only trip participants can vote", domain.ErrPermissionDenied)
	}

	updated, err := s.activities.ToggleVote(ctx, activityID, user)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.ToggleVote: %w", err)
	}

	observability.RecordVoteToggled(updated.HasVoted(user))
	s.publish(ctx, events.Event{Type: events.ActivityVoteToggled, TripID: trip.ID, ActivityID: activityID, UserID: user})
	return updated, nil
}

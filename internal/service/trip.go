package service

import (
	"context"
	"errors"
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

// maxCodeAttempts bounds trip code generation. With 36^6 codes a collision
// is rare; ten in a row means something is wrong with the generator.
const maxCodeAttempts = 10

// errCodeSpaceExhausted is returned when no free trip code was found.
var errCodeSpaceExhausted = errors.New("no unused trip code found")

// TripInput is the data needed to create a trip.
type TripInput struct {
	Name      string    `json:"name" validate:"required,max=200"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	Budget    *float64  `json:"budget" validate:"omitnil,gte=0,lte=1000000000"`
}

// TripService implements the trip registry: creation, lookup by code,
// joining and owner-only deletion.
type TripService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
	newCode    func() (string, error)
	deps
}

// NewTripService constructs a TripService. The activity repo is needed
// because deleting a trip deletes its activities.
func NewTripService(trips repo.TripRepo, activities repo.ActivityRepo, opts ...Option) *TripService {
	return &TripService{
		trips:      trips,
		activities: activities,
		newCode:    ident.NewTripCode,
		deps:       newDeps(opts),
	}
}

// Create validates and persists a new trip owned by owner, who becomes its
// first participant.
// Returns domain.ErrNotAuthenticated if owner is uuid.Nil and
// domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, owner uuid.UUID, in TripInput) (domain.Trip, error) {
	if owner == uuid.Nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrNotAuthenticated)
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := checkInput(in); err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		ID:        ident.NewID(),
		Name:      in.Name,
		StartDate: domain.DateOnly(in.StartDate),
		EndDate:   domain.DateOnly(in.EndDate),
		Budget:    in.Budget,
		CreatedBy: owner,
	}

	for range maxCodeAttempts {
		code, err := s.newCode()
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		taken, err := s.codeTaken(ctx, code)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		if taken {
			continue
		}

		trip.TripCode = code
		created, err := s.trips.Create(ctx, trip)
		if errors.Is(err, domain.ErrConflict) {
			continue // taken between the check and the insert
		}
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}

		observability.RecordTripCreated()
		s.publish(ctx, events.Event{Type: events.TripCreated, TripID: created.ID, UserID: owner})
		return created, nil
	}
	return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", errCodeSpaceExhausted)
}

func (s *TripService) codeTaken(ctx context.Context, code string) (bool, error) {
	_, err := s.trips.GetByCode(ctx, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// FindByCode resolves a trip code, ignoring case and surrounding whitespace.
// Returns domain.ErrValidation for a malformed code and domain.ErrNotFound
// if no live trip holds it.
func (s *TripService) FindByCode(ctx context.Context, code string) (domain.Trip, error) {
	if !ident.ValidCode(code) {
		return domain.Trip{}, fmt.Errorf("%w: trip code must be %d letters or digits", domain.ErrValidation, domain.TripCodeLength)
	}
	trip, err := s.trips.GetByCode(ctx, ident.NormalizeCode(code))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.FindByCode: %w", err)
	}
	return trip, nil
}

// Join adds user to the trip's participants. Joining a trip one already
// belongs to changes nothing and reports AlreadyJoined.
func (s *TripService) Join(ctx context.Context, tripID, user uuid.UUID) (domain.JoinResult, error) {
	if user == uuid.Nil {
		return domain.JoinResult{}, fmt.Errorf("service.TripService.Join: %w", domain.ErrNotAuthenticated)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.JoinResult{}, fmt.Errorf("service.TripService.Join: %w", err)
	}
	if trip.HasParticipant(user) {
		observability.RecordTripJoin(true)
		return domain.JoinResult{Trip: trip, AlreadyJoined: true}, nil
	}

	updated, err := s.trips.AddParticipant(ctx, tripID, user)
	if err != nil {
		return domain.JoinResult{}, fmt.Errorf("service.TripService.Join: %w", err)
	}

	observability.RecordTripJoin(false)
	s.publish(ctx, events.Event{Type: events.TripJoined, TripID: tripID, UserID: user})
	return domain.JoinResult{Trip: updated}, nil
}

// JoinByCode is the invite flow: resolve the code, then join.
func (s *TripService) JoinByCode(ctx context.Context, code string, user uuid.UUID) (domain.JoinResult, error) {
	if user == uuid.Nil {
		return domain.JoinResult{}, fmt.Errorf("service.TripService.JoinByCode: %w", domain.ErrNotAuthenticated)
	}
	trip, err := s.FindByCode(ctx, code)
	if err != nil {
		return domain.JoinResult{}, err
	}
	return s.Join(ctx, trip.ID, user)
}

// Delete removes a trip and then its activities. A failure deleting the
// activities is logged, not returned: the trip is already gone.
// Returns domain.ErrPermissionDenied unless actor owns the trip.
func (s *TripService) Delete(ctx context.Context, tripID, actor uuid.UUID) error {
	if actor == uuid.Nil {
		return fmt.Errorf("service.TripService.Delete: %w", domain.ErrNotAuthenticated)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if trip.CreatedBy != actor {
		return fmt.Errorf("%w: only the trip owner can delete it", domain.ErrPermissionDenied)
	}

	// Trip first. Every activity read resolves its trip, so activities left
	// behind by a failed cascade are unreachable.
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.activities.DeleteByTripID(ctx, tripID); err != nil {
		s.logger.WarnContext(ctx, "delete activities of deleted trip",
			"trip_id", tripID, "error", err)
	}

	observability.RecordTripDeleted()
	s.publish(ctx, events.Event{Type: events.TripDeleted, TripID: tripID, UserID: actor})
	return nil
}

// ListForUser returns the trips user participates in, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListForUser(ctx context.Context, user uuid.UUID) ([]domain.Trip, error) {
	if user == uuid.Nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", domain.ErrNotAuthenticated)
	}
	trips, err := s.trips.ListByParticipant(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

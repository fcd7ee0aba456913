package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/repo"
)

// BudgetReport is the budget view of a trip: the summary plus every
// activity in date and time order.
type BudgetReport struct {
	Summary    domain.BudgetSummary
	Activities []domain.Activity
}

// ItineraryService serves the read-side projections of a trip. Nothing it
// returns is stored; every call recomputes from the current trip and
// activities so quorum changes after a join show up immediately.
type ItineraryService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewItineraryService constructs an ItineraryService backed by the provided repos.
func NewItineraryService(trips repo.TripRepo, activities repo.ActivityRepo) *ItineraryService {
	return &ItineraryService{trips: trips, activities: activities}
}

// load fetches a trip and its activities. Returns domain.ErrNotFound if the
// trip does not exist.
func (s *ItineraryService) load(ctx context.Context, tripID uuid.UUID) (domain.Trip, []domain.Activity, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	return trip, activities, nil
}

// Timeline groups a trip's activities by day, each day ordered by time.
func (s *ItineraryService) Timeline(ctx context.Context, tripID uuid.UUID) ([]domain.TimelineDay, error) {
	_, activities, err := s.load(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Timeline: %w", err)
	}
	return domain.GroupByDate(activities), nil
}

// Budget summarizes spend against the trip budget.
func (s *ItineraryService) Budget(ctx context.Context, tripID uuid.UUID) (BudgetReport, error) {
	trip, activities, err := s.load(ctx, tripID)
	if err != nil {
		return BudgetReport{}, fmt.Errorf("service.ItineraryService.Budget: %w", err)
	}
	return BudgetReport{
		Summary:    domain.SummarizeBudget(activities, trip.Budget),
		Activities: domain.SortChronological(activities),
	}, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/repo"
)

// ExportService assembles the flat itinerary export of a trip.
type ExportService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, activities repo.ActivityRepo) *ExportService {
	return &ExportService{trips: trips, activities: activities}
}

// Export returns one ExportRow per activity of the trip, in date and time
// order, along with the trip itself for naming the download.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) (domain.Trip, []domain.ExportRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return trip, domain.ItineraryRows(trip, activities), nil
}

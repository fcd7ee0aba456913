package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/planit/internal/domain"
)

// TripRepo defines the persistence operations for Trips and their
// participant sets.
// The service layer depends on this interface, not the concrete
// implementations, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a trip together with its owner as first participant.
	// Returns domain.ErrConflict if the trip code is already taken.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByCode matches the trip code case-insensitively.
	// Returns domain.ErrNotFound if no live trip holds the code.
	GetByCode(ctx context.Context, code string) (domain.Trip, error)

	// ListByParticipant returns every trip userID participates in, oldest first.
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// AddParticipant appends userID to the participant set. Adding an existing
	// participant is a no-op. Returns the updated trip, or domain.ErrNotFound
	// if the trip does not exist.
	AddParticipant(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
// Participants live in trip_participants so a join never rewrites the trip row.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripSelect reads trips with their participants aggregated in join order.
// Callers append a WHERE clause; GROUP BY and ORDER BY follow via tripGroup.
const tripSelect = `
	SELECT t.id, t.name, t.start_date, t.end_date, t.budget, t.created_by, t.trip_code, t.created_at,
	       COALESCE(array_agg(p.user_id ORDER BY p.joined_at) FILTER (WHERE p.user_id IS NOT NULL), '{}')
	FROM trips t
	LEFT JOIN trip_participants p ON p.trip_id = t.id`

const tripGroup = `
	GROUP BY t.id
	ORDER BY t.created_at, t.id`

// Create inserts the trip and the owner's participant row in one statement.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH t AS (
			INSERT INTO trips (id, name, start_date, end_date, budget, created_by, trip_code)
			VALUES (@id, @name, @start_date, @end_date, @budget, @created_by, @trip_code)
			RETURNING id, name, start_date, end_date, budget, created_by, trip_code, created_at
		), p AS (
			INSERT INTO trip_participants (trip_id, user_id)
			SELECT id, created_by FROM t
		)
		SELECT id, name, start_date, end_date, budget, created_by, trip_code, created_at,
		       ARRAY[created_by]
		FROM t`

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
		"budget":     trip.Budget, // nil becomes NULL
		"created_by": trip.CreatedBy,
		"trip_code":  strings.ToUpper(trip.TripCode),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := tripSelect + ` WHERE t.id = @id` + tripGroup

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByCode(ctx context.Context, code string) (domain.Trip, error) {
	q := tripSelect + ` WHERE upper(t.trip_code) = upper(@code)` + tripGroup

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByCode: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	q := tripSelect + `
		WHERE t.id IN (SELECT trip_id FROM trip_participants WHERE user_id = @user_id)` + tripGroup

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByParticipant: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByParticipant: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByParticipant: rows: %w", err)
	}
	return trips, nil
}

// AddParticipant is idempotent via ON CONFLICT DO NOTHING.
func (r *pgTripRepo) AddParticipant(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error) {
	const q = `
		INSERT INTO trip_participants (trip_id, user_id)
		VALUES (@trip_id, @user_id)
		ON CONFLICT (trip_id, user_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.AddParticipant: %w", mapPgError(err))
	}
	return r.GetByID(ctx, tripID)
}

// Delete removes a trip; participants and activities go with it via
// ON DELETE CASCADE.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date, nullable budget and participant array conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t            domain.Trip
		id, owner    pgtype.UUID
		start, end   pgtype.Date
		budget       pgtype.Float8
		participants []pgtype.UUID
	)

	err := s.Scan(&id, &t.Name, &start, &end, &budget, &owner, &t.TripCode, &t.CreatedAt, &participants)
	if err != nil {
		return domain.Trip{}, mapPgError(err)
	}

	t.ID = uuid.UUID(id.Bytes)
	t.CreatedBy = uuid.UUID(owner.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	if budget.Valid {
		b := budget.Float64
		t.Budget = &b
	}
	t.Participants = uuids(participants)
	return t, nil
}

package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/planit/internal/domain"
)

// ActivityRepo defines the persistence operations for Activities and their votes.
// Activities are scoped to a trip and only change through ToggleVote.
type ActivityRepo interface {
	// Create inserts a new activity and returns the persisted record.
	// Returns domain.ErrNotFound if the trip does not exist.
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)

	// GetByID returns domain.ErrNotFound if no activity with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)

	// ListByTripID returns all activities of a trip in creation order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)

	// ToggleVote removes userID from the activity's votes if present and adds
	// it otherwise, returning the updated activity.
	// Returns domain.ErrNotFound if the activity does not exist.
	ToggleVote(ctx context.Context, activityID, userID uuid.UUID) (domain.Activity, error)

	// DeleteByTripID removes every activity of a trip. Deleting none is not an error.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) error
}

// pgActivityRepo is the Postgres implementation of ActivityRepo.
// Votes are rows in activity_votes, so toggles on different activities never
// overwrite each other.
type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activitySelect = `
	SELECT a.id, a.trip_id, a.title, a.date, a.time, a.category, a.estimated_cost, a.notes,
	       a.created_by, a.created_at,
	       COALESCE(array_agg(v.user_id ORDER BY v.voted_at) FILTER (WHERE v.user_id IS NOT NULL), '{}')
	FROM activities a
	LEFT JOIN activity_votes v ON v.activity_id = a.id`

const activityGroup = `
	GROUP BY a.id
	ORDER BY a.created_at, a.id`

func (r *pgActivityRepo) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (id, trip_id, title, date, time, category, estimated_cost, notes, created_by)
		VALUES (@id, @trip_id, @title, @date, @time, @category, @estimated_cost, @notes, @created_by)
		RETURNING id, trip_id, title, date, time, category, estimated_cost, notes, created_by, created_at,
		          '{}'::uuid[]`

	args := pgx.NamedArgs{
		"id":             activity.ID,
		"trip_id":        activity.TripID,
		"title":          activity.Title,
		"date":           activity.Date,
		"time":           activity.Time,
		"category":       string(activity.Category),
		"estimated_cost": activity.EstimatedCost,
		"notes":          activity.Notes,
		"created_by":     activity.CreatedBy,
	}

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	q := activitySelect + ` WHERE a.id = @id` + activityGroup

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	q := activitySelect + ` WHERE a.trip_id = @trip_id` + activityGroup

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: rows: %w", err)
	}
	return activities, nil
}

// ToggleVote flips the vote in a single statement: the DELETE runs first and
// the INSERT only fires when it removed nothing.
func (r *pgActivityRepo) ToggleVote(ctx context.Context, activityID, userID uuid.UUID) (domain.Activity, error) {
	const q = `
		WITH removed AS (
			DELETE FROM activity_votes
			WHERE activity_id = @activity_id AND user_id = @user_id
			RETURNING 1
		)
		INSERT INTO activity_votes (activity_id, user_id)
		SELECT @activity_id, @user_id
		WHERE NOT EXISTS (SELECT 1 FROM removed)`

	args := pgx.NamedArgs{"activity_id": activityID, "user_id": userID}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.ToggleVote: %w", mapPgError(err))
	}
	return r.GetByID(ctx, activityID)
}

func (r *pgActivityRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) error {
	const q = `DELETE FROM activities WHERE trip_id = @trip_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.ActivityRepo.DeleteByTripID: %w", err)
	}
	return nil
}

// scanActivity maps a single database row into a domain.Activity.
func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a                   domain.Activity
		id, tripID, creator pgtype.UUID
		date                pgtype.Date
		category            string
		votes               []pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &a.Title, &date, &a.Time, &category, &a.EstimatedCost, &a.Notes,
		&creator, &a.CreatedAt, &votes)
	if err != nil {
		return domain.Activity{}, mapPgError(err)
	}

	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(tripID.Bytes)
	a.CreatedBy = uuid.UUID(creator.Bytes)
	a.Date = date.Time
	a.Category = domain.Category(category)
	a.Votes = uuids(votes)
	return a, nil
}

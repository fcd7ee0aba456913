package repo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/store"
)

// Repos bundles one implementation of every repository so cmd/api can pick a
// backend in one place.
type Repos struct {
	Users      UserRepo
	Trips      TripRepo
	Activities ActivityRepo
}

// NewPostgresRepos returns the Postgres implementations sharing one db.
func NewPostgresRepos(db db) Repos {
	return Repos{
		Users:      NewUserRepo(db),
		Trips:      NewTripRepo(db),
		Activities: NewActivityRepo(db),
	}
}

// NewCollectionRepos returns implementations that read and rewrite whole
// collections in s. Every read-modify-write holds one mutex shared by all
// three repos, so writes inside this process never interleave. Two processes
// sharing the same store still race, and the last full write wins.
func NewCollectionRepos(s store.Store) Repos {
	c := &collections{store: s, now: func() time.Time { return time.Now().UTC() }}
	return Repos{
		Users:      &collectionUserRepo{c},
		Trips:      &collectionTripRepo{c},
		Activities: &collectionActivityRepo{c},
	}
}

type collections struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
}

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

type collectionUserRepo struct{ *collections }

func (r *collectionUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := store.Load[domain.User](ctx, r.store, store.Users)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	user.Email = strings.ToLower(user.Email)
	for _, u := range users {
		if u.Email == user.Email || u.ID == user.ID {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", domain.ErrConflict)
		}
	}
	user.CreatedAt = r.now()

	if err := store.Save(ctx, r.store, store.Users, append(users, user)); err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return user, nil
}

func (r *collectionUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.find(ctx, "GetByID", func(u domain.User) bool { return u.ID == id })
}

func (r *collectionUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.find(ctx, "GetByEmail", func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *collectionUserRepo) find(ctx context.Context, op string, match func(domain.User) bool) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := store.Load[domain.User](ctx, r.store, store.Users)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.%s: %w", op, err)
	}
	i := slices.IndexFunc(users, match)
	if i < 0 {
		return domain.User{}, fmt.Errorf("repo.UserRepo.%s: %w", op, domain.ErrNotFound)
	}
	return users[i], nil
}

// ---------------------------------------------------------------------------
// trips
// ---------------------------------------------------------------------------

type collectionTripRepo struct{ *collections }

func (r *collectionTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := store.Load[domain.Trip](ctx, r.store, store.Trips)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	trip.TripCode = strings.ToUpper(trip.TripCode)
	for _, t := range trips {
		if t.ID == trip.ID || strings.EqualFold(t.TripCode, trip.TripCode) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", domain.ErrConflict)
		}
	}
	trip.Participants = []uuid.UUID{trip.CreatedBy}
	trip.CreatedAt = r.now()

	if err := store.Save(ctx, r.store, store.Trips, append(trips, trip)); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return trip, nil
}

func (r *collectionTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return r.find(ctx, "GetByID", func(t domain.Trip) bool { return t.ID == id })
}

func (r *collectionTripRepo) GetByCode(ctx context.Context, code string) (domain.Trip, error) {
	return r.find(ctx, "GetByCode", func(t domain.Trip) bool { return strings.EqualFold(t.TripCode, code) })
}

func (r *collectionTripRepo) find(ctx context.Context, op string, match func(domain.Trip) bool) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := store.Load[domain.Trip](ctx, r.store, store.Trips)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	i := slices.IndexFunc(trips, match)
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.%s: %w", op, domain.ErrNotFound)
	}
	return trips[i], nil
}

func (r *collectionTripRepo) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := store.Load[domain.Trip](ctx, r.store, store.Trips)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByParticipant: %w", err)
	}
	out := []domain.Trip{}
	for _, t := range trips {
		if t.HasParticipant(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *collectionTripRepo) AddParticipant(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := store.Load[domain.Trip](ctx, r.store, store.Trips)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.AddParticipant: %w", err)
	}
	i := slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == tripID })
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.AddParticipant: %w", domain.ErrNotFound)
	}
	if trips[i].HasParticipant(userID) {
		return trips[i], nil
	}
	trips[i].Participants = append(slices.Clone(trips[i].Participants), userID)

	if err := store.Save(ctx, r.store, store.Trips, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.AddParticipant: %w", err)
	}
	return trips[i], nil
}

func (r *collectionTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := store.Load[domain.Trip](ctx, r.store, store.Trips)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	kept := slices.DeleteFunc(trips, func(t domain.Trip) bool { return t.ID == id })
	if len(kept) == len(trips) {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	if err := store.Save(ctx, r.store, store.Trips, kept); err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// activities
// ---------------------------------------------------------------------------

type collectionActivityRepo struct{ *collections }

func (r *collectionActivityRepo) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := store.Load[domain.Trip](ctx, r.store, store.Trips)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	if !slices.ContainsFunc(trips, func(t domain.Trip) bool { return t.ID == activity.TripID }) {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", domain.ErrNotFound)
	}

	activities, err := store.Load[domain.Activity](ctx, r.store, store.Activities)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	if slices.ContainsFunc(activities, func(a domain.Activity) bool { return a.ID == activity.ID }) {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", domain.ErrConflict)
	}
	activity.Votes = []uuid.UUID{}
	activity.CreatedAt = r.now()

	if err := store.Save(ctx, r.store, store.Activities, append(activities, activity)); err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	return activity, nil
}

func (r *collectionActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activities, err := store.Load[domain.Activity](ctx, r.store, store.Activities)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	i := slices.IndexFunc(activities, func(a domain.Activity) bool { return a.ID == id })
	if i < 0 {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", domain.ErrNotFound)
	}
	return activities[i], nil
}

func (r *collectionActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activities, err := store.Load[domain.Activity](ctx, r.store, store.Activities)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripID: %w", err)
	}
	out := []domain.Activity{}
	for _, a := range activities {
		if a.TripID == tripID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *collectionActivityRepo) ToggleVote(ctx context.Context, activityID, userID uuid.UUID) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activities, err := store.Load[domain.Activity](ctx, r.store, store.Activities)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.ToggleVote: %w", err)
	}
	i := slices.IndexFunc(activities, func(a domain.Activity) bool { return a.ID == activityID })
	if i < 0 {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.ToggleVote: %w", domain.ErrNotFound)
	}
	activities[i] = activities[i].ToggleVote(userID)

	if err := store.Save(ctx, r.store, store.Activities, activities); err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.ToggleVote: %w", err)
	}
	return activities[i], nil
}

func (r *collectionActivityRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activities, err := store.Load[domain.Activity](ctx, r.store, store.Activities)
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.DeleteByTripID: %w", err)
	}
	kept := slices.DeleteFunc(activities, func(a domain.Activity) bool { return a.TripID == tripID })
	if err := store.Save(ctx, r.store, store.Activities, kept); err != nil {
		return fmt.Errorf("repo.ActivityRepo.DeleteByTripID: %w", err)
	}
	return nil
}

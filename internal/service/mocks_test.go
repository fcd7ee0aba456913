package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/events"
	"github.com/pkordes/planit/internal/repo"
	"github.com/pkordes/planit/internal/service"
	"github.com/pkordes/planit/internal/store"
)

// ---- mock repos ------------------------------------------------------------

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create            func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getByCode         func(ctx context.Context, code string) (domain.Trip, error)
	listByParticipant func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	addParticipant    func(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error)
	delete            func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetByCode(ctx context.Context, code string) (domain.Trip, error) {
	return m.getByCode(ctx, code)
}
func (m *mockTripRepo) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listByParticipant(ctx, userID)
}
func (m *mockTripRepo) AddParticipant(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error) {
	return m.addParticipant(ctx, tripID, userID)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockActivityRepo is a hand-written test double for repo.ActivityRepo.
type mockActivityRepo struct {
	create         func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	listByTripID   func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	toggleVote     func(ctx context.Context, activityID, userID uuid.UUID) (domain.Activity, error)
	deleteByTripID func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, id)
}
func (m *mockActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockActivityRepo) ToggleVote(ctx context.Context, activityID, userID uuid.UUID) (domain.Activity, error) {
	return m.toggleVote(ctx, activityID, userID)
}
func (m *mockActivityRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) error {
	return m.deleteByTripID(ctx, tripID)
}

var _ repo.ActivityRepo = (*mockActivityRepo)(nil)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- publisher -------------------------------------------------------------

// recordingPublisher keeps every published event; err, if set, is returned
// from Publish after recording.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var _ events.Publisher = (*recordingPublisher)(nil)

// ---- fixtures --------------------------------------------------------------

// world wires every service over in-memory collection repos, for tests that
// exercise whole flows rather than single error paths.
type world struct {
	repos      repo.Repos
	users      *service.UserService
	trips      *service.TripService
	activities *service.ActivityService
	itinerary  *service.ItineraryService
	export     *service.ExportService
	events     *recordingPublisher
}

func newWorld(t *testing.T) *world {
	t.Helper()
	repos := repo.NewCollectionRepos(store.NewMemoryStore())
	pub := &recordingPublisher{}
	clock := service.WithClock(func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) })
	return &world{
		repos:      repos,
		users:      service.NewUserService(repos.Users),
		trips:      service.NewTripService(repos.Trips, repos.Activities, service.WithPublisher(pub), clock),
		activities: service.NewActivityService(repos.Trips, repos.Activities, service.WithPublisher(pub), clock),
		itinerary:  service.NewItineraryService(repos.Trips, repos.Activities),
		export:     service.NewExportService(repos.Trips, repos.Activities),
		events:     pub,
	}
}

func (w *world) register(t *testing.T, name string) domain.User {
	t.Helper()
	u, err := w.users.Register(context.Background(), service.RegisterInput{Email: name + "@example.com", Name: name})
	require.NoError(t, err)
	return u
}

func (w *world) createTrip(t *testing.T, owner uuid.UUID) domain.Trip {
	t.Helper()
	trip, err := w.trips.Create(context.Background(), owner, validTripInput())
	require.NoError(t, err)
	return trip
}

func (w *world) join(t *testing.T, tripID, user uuid.UUID) {
	t.Helper()
	_, err := w.trips.Join(context.Background(), tripID, user)
	require.NoError(t, err)
}

func (w *world) addActivity(t *testing.T, tripID, creator uuid.UUID, in service.ActivityInput) domain.Activity {
	t.Helper()
	a, err := w.activities.Add(context.Background(), tripID, creator, in)
	require.NoError(t, err)
	return a
}

func date(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// validTripInput is a June 1-7 trip with a 1000 budget.
func validTripInput() service.TripInput {
	return service.TripInput{
		Name:      "Lisbon",
		StartDate: date(1),
		EndDate:   date(7),
		Budget:    ptr(1000.0),
	}
}

func validActivityInput() service.ActivityInput {
	return service.ActivityInput{
		Title:         "Surf lesson",
		Date:          date(2),
		Time:          "09:30",
		Category:      domain.CategoryAdventure,
		EstimatedCost: 45,
	}
}

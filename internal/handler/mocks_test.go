package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planit/internal/auth"
	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/handler"
	"github.com/pkordes/planit/internal/service"
)

// ---- mocks -----------------------------------------------------------------
// Set only the method fields your test needs; an unset field panics, which
// flags an unexpected call.

type mockUserServicer struct {
	register func(ctx context.Context, in service.RegisterInput) (domain.User, error)
	login    func(ctx context.Context, email string) (domain.User, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserServicer) Register(ctx context.Context, in service.RegisterInput) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockUserServicer) Login(ctx context.Context, email string) (domain.User, error) {
	return m.login(ctx, email)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

type mockTripServicer struct {
	create      func(ctx context.Context, owner uuid.UUID, in service.TripInput) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	findByCode  func(ctx context.Context, code string) (domain.Trip, error)
	join        func(ctx context.Context, tripID, user uuid.UUID) (domain.JoinResult, error)
	joinByCode  func(ctx context.Context, code string, user uuid.UUID) (domain.JoinResult, error)
	delete      func(ctx context.Context, tripID, actor uuid.UUID) error
	listForUser func(ctx context.Context, user uuid.UUID) ([]domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, owner uuid.UUID, in service.TripInput) (domain.Trip, error) {
	return m.create(ctx, owner, in)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) FindByCode(ctx context.Context, code string) (domain.Trip, error) {
	return m.findByCode(ctx, code)
}
func (m *mockTripServicer) Join(ctx context.Context, tripID, user uuid.UUID) (domain.JoinResult, error) {
	return m.join(ctx, tripID, user)
}
func (m *mockTripServicer) JoinByCode(ctx context.Context, code string, user uuid.UUID) (domain.JoinResult, error) {
	return m.joinByCode(ctx, code, user)
}
func (m *mockTripServicer) Delete(ctx context.Context, tripID, actor uuid.UUID) error {
	return m.delete(ctx, tripID, actor)
}
func (m *mockTripServicer) ListForUser(ctx context.Context, user uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, user)
}

type mockActivityServicer struct {
	listForTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	add         func(ctx context.Context, tripID, creator uuid.UUID, in service.ActivityInput) (domain.Activity, error)
	toggleVote  func(ctx context.Context, activityID, user uuid.UUID) (domain.Activity, error)
}

func (m *mockActivityServicer) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listForTrip(ctx, tripID)
}
func (m *mockActivityServicer) Add(ctx context.Context, tripID, creator uuid.UUID, in service.ActivityInput) (domain.Activity, error) {
	return m.add(ctx, tripID, creator, in)
}
func (m *mockActivityServicer) ToggleVote(ctx context.Context, activityID, user uuid.UUID) (domain.Activity, error) {
	return m.toggleVote(ctx, activityID, user)
}

type mockItineraryServicer struct {
	timeline func(ctx context.Context, tripID uuid.UUID) ([]domain.TimelineDay, error)
	budget   func(ctx context.Context, tripID uuid.UUID) (service.BudgetReport, error)
}

func (m *mockItineraryServicer) Timeline(ctx context.Context, tripID uuid.UUID) ([]domain.TimelineDay, error) {
	return m.timeline(ctx, tripID)
}
func (m *mockItineraryServicer) Budget(ctx context.Context, tripID uuid.UUID) (service.BudgetReport, error) {
	return m.budget(ctx, tripID)
}

type mockExportServicer struct {
	export func(ctx context.Context, tripID uuid.UUID) (domain.Trip, []domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, tripID uuid.UUID) (domain.Trip, []domain.ExportRow, error) {
	return m.export(ctx, tripID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.UserServicer      = (*mockUserServicer)(nil)
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.ActivityServicer  = (*mockActivityServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
	_ handler.ExportServicer    = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

var testAuth = auth.Config{Secret: "handler-test-secret", Issuer: "planit-test", TTL: time.Hour}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newHTTPHandler wires a Server into the router behind the auth middleware,
// mirroring how cmd/api wires it in production.
func newHTTPHandler(svc handler.Services, opts ...func(*handler.Options)) http.Handler {
	o := handler.Options{
		Auth:          testAuth,
		PublicBaseURL: "https://planit.example",
		Logger:        discardLogger(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return auth.NewMiddleware(testAuth).Wrap(handler.NewServer(svc, o).Routes())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// do sends a request as user; uuid.Nil sends it anonymously.
func do(t *testing.T, h http.Handler, method, path string, body any, user uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != uuid.Nil {
		token, err := auth.Issue(user, testAuth, time.Now())
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func tripFixture(owner uuid.UUID, others ...uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:           uuid.New(),
		Name:         "Lisbon long weekend",
		StartDate:    day(1),
		EndDate:      day(4),
		Budget:       ptr(800.0),
		CreatedBy:    owner,
		Participants: append([]uuid.UUID{owner}, others...),
		TripCode:     "K7QX2M",
		CreatedAt:    fixedNow,
	}
}

func activityFixture(tripID, creator uuid.UUID, votes ...uuid.UUID) domain.Activity {
	if votes == nil {
		votes = []uuid.UUID{}
	}
	return domain.Activity{
		ID:            uuid.New(),
		TripID:        tripID,
		Title:         "Tram 28",
		Date:          day(2),
		Time:          "10:00",
		Category:      domain.CategorySightseeing,
		EstimatedCost: 12.5,
		CreatedBy:     creator,
		Votes:         votes,
		CreatedAt:     fixedNow,
	}
}

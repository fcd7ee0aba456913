// Package handler implements the HTTP handlers for the Planit API.
// All handlers are methods on Server. Methods are split into resource files
// (trip.go, activity.go, etc.) but share the same Server struct so they can
// reach its dependencies. Routes mounts them on a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/auth"
	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/service"
)

// UserServicer defines the account operations the user handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type UserServicer interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// TripServicer defines the trip operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, owner uuid.UUID, in service.TripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	FindByCode(ctx context.Context, code string) (domain.Trip, error)
	Join(ctx context.Context, tripID, user uuid.UUID) (domain.JoinResult, error)
	JoinByCode(ctx context.Context, code string, user uuid.UUID) (domain.JoinResult, error)
	Delete(ctx context.Context, tripID, actor uuid.UUID) error
	ListForUser(ctx context.Context, user uuid.UUID) ([]domain.Trip, error)
}

// ActivityServicer defines the activity operations.
type ActivityServicer interface {
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	Add(ctx context.Context, tripID, creator uuid.UUID, in service.ActivityInput) (domain.Activity, error)
	ToggleVote(ctx context.Context, activityID, user uuid.UUID) (domain.Activity, error)
}

// ItineraryServicer defines the read-side projections of a trip.
type ItineraryServicer interface {
	Timeline(ctx context.Context, tripID uuid.UUID) ([]domain.TimelineDay, error)
	Budget(ctx context.Context, tripID uuid.UUID) (service.BudgetReport, error)
}

// ExportServicer produces the flat itinerary export.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) (domain.Trip, []domain.ExportRow, error)
}

// Services groups the service dependencies of a Server.
type Services struct {
	Users      UserServicer
	Trips      TripServicer
	Activities ActivityServicer
	Itinerary  ItineraryServicer
	Export     ExportServicer
}

// Options carries the non-service settings of a Server. Zero values are
// usable: no readiness check, no code-lookup throttling, the default logger.
type Options struct {
	// Auth signs the tokens returned by register and login.
	Auth auth.Config
	// PublicBaseURL prefixes invite paths to build invite URLs.
	PublicBaseURL string
	// Ready is consulted by /healthz. A non-nil error reports 503.
	Ready func(ctx context.Context) error
	// CodeLimiter wraps the /trip-codes routes.
	CodeLimiter func(http.Handler) http.Handler
	Logger      *slog.Logger
	Now         func() time.Time
}

// Server holds the dependencies shared by every handler.
type Server struct {
	users      UserServicer
	trips      TripServicer
	activities ActivityServicer
	itinerary  ItineraryServicer
	export     ExportServicer
	opts       Options
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CodeLimiter == nil {
		opts.CodeLimiter = func(next http.Handler) http.Handler { return next }
	}
	return &Server{
		users:      svc.Users,
		trips:      svc.Trips,
		activities: svc.Activities,
		itinerary:  svc.Itinerary,
		export:     svc.Export,
		opts:       opts,
	}
}

// Routes returns the API router. Authentication middleware is applied by the
// caller; handlers read the user from the request context.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/users", s.RegisterUser)
	r.Post("/sessions", s.CreateSession)
	r.Get("/users/me", s.GetCurrentUser)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/participants", s.JoinTrip)
			r.Get("/activities", s.ListActivities)
			r.Post("/activities", s.CreateActivity)
			r.Get("/timeline", s.GetTimeline)
			r.Get("/budget", s.GetBudget)
			r.Get("/export", s.GetExport)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.opts.CodeLimiter)
		r.Get("/trip-codes/{code}", s.LookupTripCode)
		r.Post("/trip-codes/{code}/join", s.JoinTripByCode)
	})

	r.Post("/activities/{activityId}/votes", s.ToggleVote)
	return r
}

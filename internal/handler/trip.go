package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planit/internal/auth"
	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/service"
)

// Trip is the API representation of a trip. Budget is null when the group
// set none. InviteURL is empty when no public base URL is configured.
type Trip struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	StartDate        openapi_types.Date `json:"start_date"`
	EndDate          openapi_types.Date `json:"end_date"`
	Budget           *float64           `json:"budget"`
	CreatedBy        uuid.UUID          `json:"created_by"`
	Participants     []uuid.UUID        `json:"participants"`
	ParticipantCount int                `json:"participant_count"`
	TripCode         string             `json:"trip_code"`
	InvitePath       string             `json:"invite_path"`
	InviteURL        string             `json:"invite_url,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// TripList is one page of the caller's trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page a list response holds.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// JoinResponse is returned by both join routes. AlreadyJoined is true when
// the caller was a participant before the request.
type JoinResponse struct {
	Trip          Trip `json:"trip"`
	AlreadyJoined bool `json:"already_joined"`
}

type createTripRequest struct {
	Name      string             `json:"name"`
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
	Budget    *float64           `json:"budget"`
}

// ListTrips handles GET /trips?page=&limit=.
// It returns the trips the caller participates in, oldest first.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	trips, err := s.trips.ListForUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	p := domain.NewPaginationParams(page, limit)
	window, total := domain.Paginate(trips, p)
	out := make([]Trip, 0, len(window))
	for _, t := range window {
		out = append(out, s.tripToAPI(t))
	}
	s.respond(w, r, http.StatusOK, TripList{
		Data:       out,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decodeBody(w, r, &req) {
		return
	}

	trip, err := s.trips.Create(r.Context(), auth.UserID(r.Context()), service.TripInput{
		Name:      req.Name,
		StartDate: req.StartDate.Time,
		EndDate:   req.EndDate.Time,
		Budget:    req.Budget,
	})
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	s.respond(w, r, http.StatusCreated, s.tripToAPI(trip))
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	s.respond(w, r, http.StatusOK, s.tripToAPI(trip))
}

// DeleteTrip handles DELETE /trips/{tripId}. Only the owner may delete.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id, auth.UserID(r.Context())); err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinTrip handles POST /trips/{tripId}/participants.
func (s *Server) JoinTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId", "trip")
	if !ok {
		return
	}

	res, err := s.trips.Join(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	s.respond(w, r, http.StatusOK, JoinResponse{Trip: s.tripToAPI(res.Trip), AlreadyJoined: res.AlreadyJoined})
}

// LookupTripCode handles GET /trip-codes/{code}. The code is matched
// case-insensitively.
func (s *Server) LookupTripCode(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.FindByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.fail(w, r, err, "trip code")
		return
	}
	s.respond(w, r, http.StatusOK, s.tripToAPI(trip))
}

// JoinTripByCode handles POST /trip-codes/{code}/join, the invite flow.
func (s *Server) JoinTripByCode(w http.ResponseWriter, r *http.Request) {
	res, err := s.trips.JoinByCode(r.Context(), chi.URLParam(r, "code"), auth.UserID(r.Context()))
	if err != nil {
		s.fail(w, r, err, "trip code")
		return
	}
	s.respond(w, r, http.StatusOK, JoinResponse{Trip: s.tripToAPI(res.Trip), AlreadyJoined: res.AlreadyJoined})
}

// tripToAPI maps a domain.Trip to its API representation.
func (s *Server) tripToAPI(t domain.Trip) Trip {
	participants := t.Participants
	if participants == nil {
		participants = []uuid.UUID{}
	}
	out := Trip{
		ID:               t.ID,
		Name:             t.Name,
		StartDate:        openapi_types.Date{Time: t.StartDate},
		EndDate:          openapi_types.Date{Time: t.EndDate},
		Budget:           t.Budget,
		CreatedBy:        t.CreatedBy,
		Participants:     participants,
		ParticipantCount: t.ParticipantCount(),
		TripCode:         t.TripCode,
		InvitePath:       domain.InvitePath(t.TripCode),
		CreatedAt:        t.CreatedAt,
	}
	if s.opts.PublicBaseURL != "" {
		out.InviteURL = s.opts.PublicBaseURL + out.InvitePath
	}
	return out
}

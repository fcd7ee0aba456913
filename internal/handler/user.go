package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/auth"
	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/service"
)

// User is the API representation of a registered user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is returned by register and login. Token is a bearer token
// for the Authorization header.
type SessionResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type registerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginRequest struct {
	Email string `json:"email"`
}

// RegisterUser handles POST /users.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), service.RegisterInput{Email: req.Email, Name: req.Name})
	if errors.Is(err, domain.ErrConflict) {
		writeError(w, http.StatusConflict, "conflict", "email is already registered")
		return
	}
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.writeSession(w, r, http.StatusCreated, user)
}

// CreateSession handles POST /sessions. Login is by email alone.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Login(r.Context(), req.Email)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.writeSession(w, r, http.StatusOK, user)
}

// GetCurrentUser handles GET /users/me, resolving the bearer token's subject.
func (s *Server) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	id := auth.UserID(r.Context())
	if id == uuid.Nil {
		s.fail(w, r, domain.ErrNotAuthenticated, "user")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.respond(w, r, http.StatusOK, userToAPI(user))
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, user domain.User) {
	now := s.opts.Now()
	token, err := auth.Issue(user.ID, s.opts.Auth, now)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.respond(w, r, status, SessionResponse{
		User:      userToAPI(user),
		Token:     token,
		ExpiresAt: now.Add(s.opts.Auth.TTL).UTC(),
	})
}

func userToAPI(u domain.User) User {
	return User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip, activity, user or trip code does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, end date before start date, activity
// date outside the trip).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrPermissionDenied is returned when the acting user lacks rights for the
// operation, e.g. a non-owner deleting a trip or a non-participant voting.
// Handlers should map this to HTTP 403.
var ErrPermissionDenied = errors.New("permission denied")

// ErrNotAuthenticated is returned when an operation requires a current user
// and none was supplied.
// Handlers should map this to HTTP 401.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrConflict is returned when a write would violate a uniqueness rule,
// e.g. registering an email that is already taken.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

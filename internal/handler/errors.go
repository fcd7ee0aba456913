package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/planit/internal/domain"
)

// ErrorResponse is the JSON error envelope shared by every layer of the API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON marshals v before touching the response, so a value that cannot
// be encoded leaves w unwritten and the caller free to send an error instead.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

// respond writes a success body. An unencodable value, such as a NaN or
// infinite total, is logged and reported as 500.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		s.fail(w, r, fmt.Errorf("handler.respond: %w", err), "")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	_ = writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// fail maps a service error onto an HTTP status. what names the resource in
// 404 messages ("trip", "activity") because the handler is the layer that
// knows what was being looked up.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, domain.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "forbidden", unwrapMessage(err, domain.ErrPermissionDenied))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", unwrapMessage(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	default:
		s.opts.Logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part that follows a sentinel.
// e.g. "validation error: name is required" → "name is required"
// Errors that carry nothing after the sentinel yield the sentinel text.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

// decodeBody reads a JSON request body into dst. Unknown fields are
// rejected so typos in field names surface as 422 rather than silently
// dropping data. It writes the error response itself and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return false
	}
	writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body: "+err.Error())
	return false
}

// pathUUID binds a uuid path parameter. A malformed id can never name an
// existing resource, so it is reported as 404.
func pathUUID(w http.ResponseWriter, r *http.Request, name, what string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", what+" not found")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt binds an optional integer query parameter. It returns nil when the
// parameter is absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", fmt.Sprintf("%s must be an integer", name))
		return nil, false
	}
	return v, true
}

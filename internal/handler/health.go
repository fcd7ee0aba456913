package handler

import (
	"net/http"

	"github.com/pkordes/planit/spec"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /healthz.
// It returns 200 {"status":"ok"} when the backing store answers and
// 503 {"status":"unavailable"} when it does not.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ready != nil {
		if err := s.opts.Ready(r.Context()); err != nil {
			s.opts.Logger.WarnContext(r.Context(), "readiness check failed", "error", err)
			s.respond(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	s.respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetOpenAPI serves the embedded OpenAPI document.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

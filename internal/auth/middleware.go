package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Middleware attaches the caller's identity to the request context.
// A request without an Authorization header passes through anonymously;
// routes that need a user reject it further down. A header that is present
// but does not verify is rejected here with 401.
type Middleware struct {
	Config Config
}

// NewMiddleware constructs a Middleware.
func NewMiddleware(cfg Config) Middleware {
	return Middleware{Config: cfg}
}

// Wrap wraps an http.Handler with token verification.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.parseHeader(header)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "unauthenticated", "message": err.Error()},
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (m Middleware) parseHeader(header string) (*Claims, error) {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, ErrInvalidToken
	}
	return Parse(header[len("Bearer "):], m.Config)
}

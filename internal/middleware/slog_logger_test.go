package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planit/internal/auth"
	"github.com/pkordes/planit/internal/middleware"
)

// logOne runs a single request through the logger and decodes its log line.
func logOne(t *testing.T, status int, ctx context.Context) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.NewSlogLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestSlogLogger_logsRequestFields(t *testing.T) {
	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "test-req-id")

	entry := logOne(t, http.StatusOK, ctx)

	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/trips", entry["path"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.Equal(t, "test-req-id", entry["request_id"])
	assert.Equal(t, "INFO", entry["level"])
	assert.NotNil(t, entry["duration_ms"])
	assert.NotContains(t, entry, "user_id", "anonymous requests carry no user")
}

func TestSlogLogger_includesUser(t *testing.T) {
	userID := uuid.New()
	ctx := auth.WithClaims(context.Background(), &auth.Claims{UserID: userID})

	entry := logOne(t, http.StatusCreated, ctx)

	assert.Equal(t, userID.String(), entry["user_id"])
}

func TestSlogLogger_serverErrorsLogAtError(t *testing.T) {
	entry := logOne(t, http.StatusInternalServerError, context.Background())

	assert.Equal(t, "ERROR", entry["level"])
}

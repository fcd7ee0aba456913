// Package main is the entry point for the Planit API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/planit/internal/auth"
	"github.com/pkordes/planit/internal/config"
	"github.com/pkordes/planit/internal/events"
	"github.com/pkordes/planit/internal/handler"
	"github.com/pkordes/planit/internal/middleware"
	"github.com/pkordes/planit/internal/repo"
	"github.com/pkordes/planit/internal/service"
	"github.com/pkordes/planit/internal/store"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ----------------------------------------------------------
	st, err := openBackend(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer st.close()
	slog.Info("store ready", "backend", cfg.StoreBackend)

	// --- Events -----------------------------------------------------------
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				slog.Warn("closing event publisher", "error", err)
			}
		}()
		publisher = kp
		slog.Info("publishing domain events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// --- Services ---------------------------------------------------------
	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.TokenTTL}
	opts := []service.Option{service.WithPublisher(publisher), service.WithLogger(logger)}
	repos := st.repos
	srv := handler.NewServer(handler.Services{
		Users:      service.NewUserService(repos.Users),
		Trips:      service.NewTripService(repos.Trips, repos.Activities, opts...),
		Activities: service.NewActivityService(repos.Trips, repos.Activities, opts...),
		Itinerary:  service.NewItineraryService(repos.Trips, repos.Activities),
		Export:     service.NewExportService(repos.Trips, repos.Activities),
	}, handler.Options{
		Auth:          authCfg,
		PublicBaseURL: cfg.PublicBaseURL,
		Ready:         st.ping,
		CodeLimiter:   codeLimiter(ctx, cfg),
		Logger:        logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → CORS → Auth →
	// Logger → Recoverer → MaxBodySize.
	// CORS runs before auth so rejected tokens still carry CORS headers.
	// Auth runs before the logger so log lines carry the user id.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(auth.NewMiddleware(authCfg).Wrap)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	// Give in-flight requests up to 15 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// backend is an opened store with its repos, a readiness check and cleanup.
type backend struct {
	repos repo.Repos
	ping  func(context.Context) error
	close func()
}

// openBackend connects the store selected by cfg.StoreBackend and verifies
// it is reachable before the server accepts traffic.
func openBackend(ctx context.Context, cfg config.Config) (backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		// New() does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return backend{}, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return backend{}, fmt.Errorf("connect to database: %w", err)
		}
		return backend{repos: repo.NewPostgresRepos(pool), ping: pool.Ping, close: pool.Close}, nil

	case config.BackendRedis:
		client, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return backend{}, err
		}
		return backend{
			repos: repo.NewCollectionRepos(store.NewRedisStore(client, "planit:")),
			ping:  func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close: func() { _ = client.Close() },
		}, nil

	default:
		slog.Warn("using the in-memory store; data is lost on restart")
		return backend{
			repos: repo.NewCollectionRepos(store.NewMemoryStore()),
			close: func() {},
		}, nil
	}
}

// codeLimiter throttles trip code lookups per client IP. Its idle-client
// sweeper stops with ctx.
func codeLimiter(ctx context.Context, cfg config.Config) func(http.Handler) http.Handler {
	rl := middleware.NewRateLimiter(cfg.JoinRateLimit, cfg.JoinRateBurst)
	go rl.Run(ctx)
	return rl.Middleware
}

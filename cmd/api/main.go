// Package main implements the HTTP API server for Gradelight.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	apihttp "github.com/dsjohal14/gradelight/internal/http"
	"github.com/dsjohal14/gradelight/internal/grading"
	"github.com/dsjohal14/gradelight/internal/libs/config"
	"github.com/dsjohal14/gradelight/internal/libs/obs"
	"github.com/dsjohal14/gradelight/internal/relay"
	"github.com/dsjohal14/gradelight/internal/scope/db"
	"github.com/dsjohal14/gradelight/internal/scope/search"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	store, err := initStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer func() { _ = store.Close() }()

	resolver, err := search.NewResolver(search.Options{
		Threshold: cfg.MatchThreshold,
		Tolerance: cfg.MatchTolerance,
		Step:      search.DefaultStep,
		Workers:   cfg.MatchWorkers,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid match settings")
	}

	// Grading is disabled without a model key; uploads and /resolve still work
	var grader *grading.Grader
	client, err := relay.NewAnthropic("", cfg.AnthropicModel, cfg.AnthropicAPIKey)
	switch {
	case errors.Is(err, relay.ErrNoAPIKey):
		logger.Warn().Msg("ANTHROPIC_API_KEY not set, grading disabled")
	case err != nil:
		logger.Fatal().Err(err).Msg("failed to create model client")
	default:
		grader = grading.NewGrader(client, resolver, obs.Logger("grading"))
		logger.Info().Str("model", cfg.AnthropicModel).Msg("grading enabled")
	}

	// Create HTTP handler
	handler := apihttp.NewHandler(store, grader, resolver, logger)

	// Setup router
	r := setupRouter(handler, cfg.CORSOrigins)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	logger.Info().Str("addr", addr).Msg("starting API server")

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func setupRouter(h *apihttp.Handler, origins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	h.Mount(r)

	return r
}

// initStore opens the store selected by STORE_DRIVER
func initStore(cfg *config.Config, logger zerolog.Logger) (db.Storage, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	if cfg.StoreDriver == config.DriverFile {
		logger.Info().Str("data_dir", cfg.DataDir).Msg("using file store")
		return db.NewStore(cfg.DataDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dsn := cfg.DatabaseURL
	if cfg.StoreDriver == config.DriverSQLite && dsn == "" {
		dsn = db.SQLiteDSN(filepath.Join(cfg.DataDir, "gradelight.db"))
	}

	conn, err := db.Connect(ctx, cfg.StoreDriver, dsn)
	if err != nil {
		return nil, err
	}

	store, err := db.NewSQLStore(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info().
		Str("driver", cfg.StoreDriver).
		Int("essays", counts.Essays).
		Int("gradings", counts.Gradings).
		Msg("SQL store initialized")
	return store, nil
}

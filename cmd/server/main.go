package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Fund-Investment-Results/internal/api"
	"github.com/ndewijer/Fund-Investment-Results/internal/app"
	"github.com/ndewijer/Fund-Investment-Results/internal/config"
	"github.com/ndewijer/Fund-Investment-Results/internal/database"
	"github.com/ndewijer/Fund-Investment-Results/internal/logging"
	"github.com/ndewijer/Fund-Investment-Results/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, err := logging.Setup(cfg.Log, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.Log.Level).Msg("invalid log configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	logger.Info().
		Str("path", cfg.Database.Path).
		Str("version", version.Version).
		Msg("connected to database")

	services := app.New(db, cfg, nil)

	if cfg.Checker.Enabled {
		if err := services.Checker.Start(ctx, cfg.Checker.Schedule); err != nil {
			logger.Fatal().Err(err).Msg("failed to start checker")
		}
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services.Services(), cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	select {
	case <-services.Checker.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("checker pass still running at shutdown")
	}

	logger.Info().Msg("server exited")
}

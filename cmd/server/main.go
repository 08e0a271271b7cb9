// Command server is the entry point for the learning-auth HTTP API.
//
// Startup sequence:
//
//  1. Load configuration from environment variables.
//  2. Initialize the structured logger.
//  3. Open the flat-file credential and session stores.
//  4. Start the background session sweeper and run the initial sweep.
//  5. Wire the auth service and HTTP router.
//  6. Serve with graceful shutdown on SIGINT/SIGTERM.
//
// No business logic lives here; all wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lessonworks/learning-auth/internal/api"
	"github.com/lessonworks/learning-auth/internal/core/service"
	"github.com/lessonworks/learning-auth/internal/infrastructure/config"
	"github.com/lessonworks/learning-auth/internal/infrastructure/db/flatfile"
	"github.com/lessonworks/learning-auth/internal/infrastructure/queue"
	"github.com/lessonworks/learning-auth/pkg/logger"
)

const sessionLogName = "sessions.txt"

func main() {
	cfg := config.Load()

	log := logger.Init(cfg.LogLevel, cfg.Env == "development", nil)
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("starting learning-auth")

	// --- Stores ---
	users, err := flatfile.NewCredentialStore(cfg.Storage.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential store")
	}
	sessions := flatfile.NewSessionStore(
		filepath.Join(cfg.Storage.DataDir, sessionLogName),
		cfg.Session.TTL,
		nil, // wall clock
		log,
	)

	// --- Background sweeper ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := queue.NewSweeper(sessions, log)
	sweeper.Start(ctx)
	sweeper.Request() // purge sessions that expired while the service was down

	// --- Service + router ---
	authService := service.NewAuthService(users, sessions, sweeper, cfg.Auth.BcryptCost, nil, log)
	e := api.NewRouter(authService, users, log)

	// --- Serve with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

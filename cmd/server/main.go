// @title Worklog API
// @version 1.0
// @description Time tracking: activities, working hours and totals, authenticated with per-user API keys.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rohits-web03/worklog/internal/api"
	"github.com/rohits-web03/worklog/internal/config"
	"github.com/rohits-web03/worklog/internal/logging"
	"github.com/rohits-web03/worklog/internal/repositories"
)

func main() {
	logging.Init(logging.Config{
		Level:  config.Envs.LogLevel,
		Format: config.Envs.LogFormat,
	})

	// Connect to database
	repositories.ConnectDatabase()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: api.SetupRouter(),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", config.Envs.Port).Str("env", config.Envs.Environment).Msg("Starting worklog server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", config.Envs.Port).Msg("Could not listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	if sqlDB, err := repositories.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		} else {
			log.Info().Msg("Disconnected from database")
		}
	}
}

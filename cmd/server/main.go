// Command server runs the journal HTTP API.
//
// @title        Journal API
// @version      1.0
// @description  Ownership-scoped journaling API.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	"github.com/ms19/journal-system/internal/api"
	"github.com/ms19/journal-system/internal/pkg/config"
	"github.com/ms19/journal-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "journal-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	app.dispatcher.Start(ctx)

	if err := app.scheduler.Register("weekly-reminder", cfg.ReminderSchedule, func(ctx context.Context) error {
		_, err := app.reminders.SendWeeklyReminders(ctx)
		return err
	}); err != nil {
		return err
	}
	app.scheduler.Start()

	e := api.NewRouter(api.RouterConfig{
		Verifier:        app.auth,
		LoginRatePerSec: cfg.LoginRatePerSec,
		Logger:          logger.Component("http"),
	}, app.handlers)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	app.scheduler.Stop(shutdownCtx)

	log.Info().Msg("server stopped")
	return nil
}

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

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rkissoon/randomart/internal/adapter/fsm"
	oteladapter "github.com/rkissoon/randomart/internal/adapter/otel"
	riveradapter "github.com/rkissoon/randomart/internal/adapter/river"
	"github.com/rkissoon/randomart/internal/adapter/sqlite"
	"github.com/rkissoon/randomart/internal/app"
	"github.com/rkissoon/randomart/internal/config"

	handler "github.com/rkissoon/randomart/internal/adapter/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
	}
}

// run wires every adapter and serves HTTP until SIGINT or SIGTERM.
func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---
	providers, err := oteladapter.Setup(ctx, oteladapter.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", zap.Error(err))
		}
	}()

	// --- Adapters (out) ---
	db, err := oteladapter.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	repo, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	defer repo.Close()

	// --- Application ---
	art, err := app.NewArtService(cfg.Bounds, fsm.New())
	if err != nil {
		return err
	}

	client, err := riveradapter.Setup(ctx, db, riveradapter.NewVisitWorker(art, logger))
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := client.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			logger.Error("river stop", zap.Error(err))
		}
	}()

	gallery := app.NewGalleryService(
		oteladapter.NewTracingRepository(repo),
		oteladapter.NewTracingPublisher(riveradapter.NewPublisher(client)),
		art,
	)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(otelchi.Middleware("randomart", otelchi.WithChiRoutes(router)))
	router.Use(middleware.RequestID)
	router.Use(handler.RequestLogger(logger))
	router.Use(middleware.Recoverer)

	api := humachi.New(router, huma.DefaultConfig("randomart", "0.1.0"))
	handler.Register(api, art, gallery)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("randomart listening",
			zap.String("addr", srv.Addr),
			zap.String("docs", "http://localhost:"+cfg.Port+"/docs"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Placement/internal/api"
	"github.com/MikeSquared-Agency/Placement/internal/broker"
	"github.com/MikeSquared-Agency/Placement/internal/config"
	"github.com/MikeSquared-Agency/Placement/internal/hermes"
	"github.com/MikeSquared-Agency/Placement/internal/inventory"
	"github.com/MikeSquared-Agency/Placement/internal/metrics"
	"github.com/MikeSquared-Agency/Placement/internal/placement"
	"github.com/MikeSquared-Agency/Placement/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the placement HTTP API, metrics endpoint and NATS responder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Logging, os.Stdout)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Store
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		db = pg
		logger.Info("connected to database")
	} else {
		db = store.NewMemoryStore()
		logger.Info("no database configured, using in-memory store")
	}
	defer db.Close()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Inventory (optional)
	var inv inventory.Client
	if cfg.Inventory.URL != "" {
		inv = inventory.NewHTTPClient(cfg.Inventory.URL, cfg.Inventory.Token)
	}

	scorer, err := placement.NewScorer(cfg.Placement.Weights, logger)
	if err != nil {
		return err
	}
	m := metrics.New(prometheus.DefaultRegisterer)

	b := broker.New(db, hermesClient, inv, scorer, m, cfg, logger)
	b.Start(ctx)
	defer b.Stop()
	b.SetupSubscriptions()
	logger.Info("broker started", "inventory", cfg.Inventory.URL != "", "sync_interval", cfg.SyncInterval())

	apiServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(db, b, m, api.RouterOptions{
			AdminToken: cfg.Server.AdminToken,
			RateLimit:  cfg.Server.RateLimit,
		}, logger),
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(prometheus.DefaultGatherer),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API server starting", "port", cfg.Server.Port)
		return listen(apiServer)
	})
	g.Go(func() error {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		return listen(metricsServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server %s: %w", srv.Addr, err)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/zoneboard/zoneboard/internal/auth"
	authpg "github.com/zoneboard/zoneboard/internal/auth/postgres"
	"github.com/zoneboard/zoneboard/internal/config"
	"github.com/zoneboard/zoneboard/internal/logging"
	"github.com/zoneboard/zoneboard/internal/observability"
	"github.com/zoneboard/zoneboard/internal/store"
	"github.com/zoneboard/zoneboard/internal/web"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Zoneboard API server",
		Long: `Start the HTTP server exposing signup, login, user and zoning
listings, and the static frontend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("listen_addr", defaults.ListenAddr, "API listen address")
	cmd.Flags().String("metrics_addr", defaults.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database_url", "", "PostgreSQL connection string")
	cmd.Flags().String("reader_role", defaults.ReaderRole, "privilege group for provisioned roles")
	cmd.Flags().String("static_dir", "", "frontend dist directory (empty = disabled)")
	cmd.Flags().String("log_format", defaults.LogFormat, "log format (json or text)")
	cmd.Flags().StringSlice("cors_origins", defaults.CORSOrigins, "allowed origin prefixes")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.StoreOpener == nil {
		deps.StoreOpener = func(ctx context.Context, dsn string) (Pool, error) {
			return store.Open(ctx, dsn)
		}
	}
	if deps.WebServerFactory == nil {
		deps.WebServerFactory = func(addr string, handler *web.Handler, staticDir string, corsOrigins []string) (WebServer, error) {
			return web.NewServer(addr, handler, staticDir, corsOrigins)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}

	logging.SetDefault("zoneboard", version, cfg.LogFormat)

	slog.Info("starting server",
		"listen_addr", cfg.ListenAddr,
		"reader_role", cfg.ReaderRole,
		"log_format", cfg.LogFormat,
	)

	pool, err := deps.StoreOpener(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("STORE_UNAVAILABLE").
			With("operation", "connect to database").
			Wrap(err)
	}
	defer pool.Close()

	slog.Info("connected to database")

	provisioner, err := authpg.NewProvisioner(pool, cfg.ReaderRole)
	if err != nil {
		return err
	}

	authSvc, err := auth.NewService(authpg.NewUserRepository(pool), provisioner, auth.NewArgon2idHasher())
	if err != nil {
		return err
	}

	zones := store.NewPostgresZoningRepository(pool)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server first so the API handler can record
	// metrics from its registry.
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrCh, obsErr := obsServer.Start()
		if obsErr != nil {
			return oops.With("operation", "start observability server").Wrap(obsErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	handler, err := web.NewHandler(authSvc, zones, metrics, slog.Default())
	if err != nil {
		return err
	}

	webServer, err := deps.WebServerFactory(cfg.ListenAddr, handler, cfg.StaticDir, cfg.CORSOrigins)
	if err != nil {
		return err
	}

	webErrCh, err := webServer.Start()
	if err != nil {
		stopObservability(obsServer)
		return oops.With("operation", "start web server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Zoneboard started")
	slog.Info("server ready", "addr", webServer.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := webServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping web server", "error", err)
	}
	stopObservability(obsServer)

	slog.Info("shutdown complete")
	return nil
}

func stopObservability(obsServer ObservabilityServer) {
	if obsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := obsServer.Stop(ctx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}
}

// monitorServerErrors cancels the run context when a server reports an
// error. A closed channel means the server stopped gracefully.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}

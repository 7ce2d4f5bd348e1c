package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/cli"
	httpAdapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the wizard as a JSON API over HTTP, with a server-sent event stream
per wizard and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath, _ = cmd.Flags().GetString("db")
		}
		logger := newLogger()
		version := strings.TrimSpace(intake.Version)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		streams := httpAdapter.NewStreamManager(logger)

		svc, closeService, err := cli.NewService(cfg, logger,
			intake.WithLifecycleHooks(metrics.Hooks()),
			intake.WithObserver(streams.Observe),
		)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeService(); err != nil {
				logger.Warn("failed to close stores", "err", err)
			}
		}()

		api := httpAdapter.NewServer(svc,
			httpAdapter.WithStreams(streams),
			httpAdapter.WithSubmitLimit(cfg.SubmitEvery, cfg.SubmitBurst),
			httpAdapter.WithMetrics(reg),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(version),
		)

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Intake Server", "addr", srv.Addr, "store", cfg.Store, "version", version)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("Intake Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (env INTAKE_ADDR, default :8080)")
	serveCmd.Flags().String("db", "", "SQLite file for created projects (env INTAKE_DB, default in memory)")
}

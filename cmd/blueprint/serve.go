package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/blueprint"
	"github.com/aretw0/blueprint/internal/otel"
	api "github.com/aretw0/blueprint/pkg/adapters/http"
	"github.com/aretw0/blueprint/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the blueprint service as a JSON API over HTTP, with Prometheus
metrics on /metrics and per-session server-sent events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := otel.Setup(ctx, "blueprint", a.cfg.OTelEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				a.logger.Warn("tracing shutdown failed", "err", err)
			}
		}()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		streams := api.NewStreamManager(a.logger)

		diagnostics := observability.NewAsyncDiagnostics(observability.NewLogDiagnostics(a.logger), 256, a.logger)
		defer diagnostics.Close()

		svc := a.service(
			blueprint.WithLifecycleHooks(observability.Combine(metrics.Hooks(), streams.Hooks())),
			blueprint.WithDiagnostics(diagnostics),
		)

		srv := &http.Server{
			Addr: addr,
			Handler: api.NewHandler(svc,
				api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
				api.WithStreams(streams),
				api.WithLogger(a.logger),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			a.logger.Info("blueprint server listening", "addr", addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return err
		case <-ctx.Done():
			a.logger.Info("shutting down")
			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
			a.logger.Info("blueprint server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (default BLUEPRINT_HTTP_ADDR)")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/config"
	"github.com/bodyscrub/bodyscrub/internal/observability"
	"github.com/bodyscrub/bodyscrub/internal/server"
	"github.com/bodyscrub/bodyscrub/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const bucketIdle = time.Minute

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sanitizer HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Override server listen address")

	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Listen, err)
	}
	return serve(ctx, cfg, ln)
}

// serve runs the API on ln until ctx is cancelled or a signal arrives, then
// shuts down gracefully. ln is closed on return.
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	defer ln.Close()

	svc, closeRecords, err := newService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeRecords() }()

	srv, err := server.New(svc, cfg.Server)
	if err != nil {
		return err
	}

	metricsSrv, metricsAddr, err := startMetricsServer(cfg, svc, srv)
	if err != nil {
		return err
	}
	defer func() {
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(context.Background())
		}
	}()

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpSrv.Serve(ln)
	}()

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.StartJanitor(signalCtx, bucketIdle)

	event := log.Info().
		Str("listen", ln.Addr().String()).
		Str("mode", string(svc.Mode())).
		Strs("sources", svc.Registry().Sources())
	if metricsAddr != nil {
		event = event.Str("metrics", metricsAddr.String())
	}
	event.Msg("bodyscrub serving")

	select {
	case <-signalCtx.Done():
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("bodyscrub stopped")
	return nil
}

// startMetricsServer binds the metrics listener before returning so a bad
// address fails startup. It returns a nil server when metrics are disabled.
func startMetricsServer(cfg *config.Config, svc *service.Service, srv *server.Server) (*http.Server, net.Addr, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil, nil
	}

	ln, err := net.Listen("tcp", cfg.Metrics.Listen)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listen %s: %w", cfg.Metrics.Listen, err)
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	svc.SetMetrics(metrics)
	srv.SetMetrics(metrics)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	metricsSrv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("listen", cfg.Metrics.Listen).Msg("metrics server failed")
		}
	}()
	return metricsSrv, ln.Addr(), nil
}

// Package server provides the shared service lifecycle runner.
// Every cmd/ service delegates to server.Run for signal handling,
// config loading, observability init, health checks, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/libmarket/phonecheck/internal/config"
	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/observability"
)

// serviceVersion is reported on every telemetry resource.
const serviceVersion = "0.1.0"

// SetupDeps is handed to a service's composition root.
type SetupDeps struct {
	Config     *config.Config
	Logger     *slog.Logger
	HTTPMux    *http.ServeMux
	GRPCServer *grpc.Server // nil when the service exposes no gRPC port
	Health     *health.Server
}

// SetupFunc wires a service's handlers. The returned cleanup runs during
// shutdown after the servers have drained.
type SetupFunc func(ctx context.Context, deps SetupDeps) (cleanup func(context.Context) error, err error)

// Params configures a service's lifecycle runner.
type Params struct {
	// Name identifies the service (e.g. "phoned").
	Name string

	// PortFromConfig extracts the HTTP port for this service from config.
	PortFromConfig func(cfg *config.Config) int

	// GRPCPortFromConfig extracts the gRPC port. Nil disables gRPC unless
	// a gRPC listener is injected.
	GRPCPortFromConfig func(cfg *config.Config) int

	// Setup is optional.
	Setup SetupFunc
}

// Listeners lets tests inject pre-bound listeners (port 0). Nil fields are
// bound from config.
type Listeners struct {
	HTTP net.Listener
	GRPC net.Listener
}

// Run executes the full service lifecycle: signal handling, config loading,
// observability initialization, HTTP and gRPC servers with health checks,
// and graceful shutdown.
func Run(ctx context.Context, p Params, ls Listeners) error {
	// Signal-based cancellation: ctx.Done() closes on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: p.Name,
		Environment: cfg.Environment,
	})

	// --- Startup order: tracer -> metrics -> setup -> servers ---

	otelCfg := observability.Config{
		ServiceName:    serviceName(cfg, p.Name),
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
	}
	tracerProvider, err := observability.InitTracer(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	metricsProvider, err := observability.InitMetrics(ctx, otelCfg)
	if err != nil {
		shutdownOTEL(logger, metricsProvider, tracerProvider)
		return fmt.Errorf("initialize metrics: %w", err)
	}

	// Health check shutdown coordination via atomic flag.
	var shuttingDown atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if shuttingDown.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"shutting_down","service":%q}`, p.Name)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","service":%q}`, p.Name)
	})

	healthSrv := health.NewServer()
	var grpcServer *grpc.Server
	if p.GRPCPortFromConfig != nil || ls.GRPC != nil {
		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthSrv)
	}

	cleanup := func(context.Context) error { return nil }
	if p.Setup != nil {
		c, setupErr := p.Setup(ctx, SetupDeps{
			Config:     cfg,
			Logger:     logger,
			HTTPMux:    mux,
			GRPCServer: grpcServer,
			Health:     healthSrv,
		})
		if setupErr != nil {
			shutdownOTEL(logger, metricsProvider, tracerProvider)
			return fmt.Errorf("setup %s: %w", p.Name, setupErr)
		}
		if c != nil {
			cleanup = c
		}
	}

	httpLn, grpcLn, err := bindListeners(ctx, p, ls, cfg, grpcServer != nil)
	if err != nil {
		_ = cleanup(context.Background())
		shutdownOTEL(logger, metricsProvider, tracerProvider)
		return err
	}

	httpServer := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Structured concurrency via errgroup ---
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server",
			slog.String("addr", httpLn.Addr().String()),
			slog.String("environment", cfg.Environment),
		)
		if serveErr := httpServer.Serve(httpLn); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", serveErr)
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			logger.Info("starting gRPC server", slog.String("addr", grpcLn.Addr().String()))
			if serveErr := grpcServer.Serve(grpcLn); serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", serveErr)
			}
			return nil
		})
	}

	// Shutdown trigger: waits for cancellation, then drains in reverse
	// startup order: servers -> setup cleanup -> metrics -> tracer.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("received shutdown signal, starting graceful shutdown")

		// 1. Mark shutting down: health checks report unavailable
		shuttingDown.Store(true)
		healthSrv.Shutdown()

		// 2. Drain delay so load balancers observe the endpoint removal
		time.Sleep(domain.ShutdownDrainDelay)

		// 3. Drain servers
		httpCtx, httpCancel := context.WithTimeout(context.Background(), domain.ShutdownHTTPTimeout)
		defer httpCancel()
		if shutdownErr := httpServer.Shutdown(httpCtx); shutdownErr != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", shutdownErr.Error()))
		}
		if grpcServer != nil {
			stopGRPC(httpCtx, grpcServer)
		}

		// 4. Release service resources
		if cleanupErr := cleanup(httpCtx); cleanupErr != nil {
			logger.Error("service cleanup error", slog.String("error", cleanupErr.Error()))
		}

		// 5. Flush OTEL
		shutdownOTEL(logger, metricsProvider, tracerProvider)

		logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

func serviceName(cfg *config.Config, fallback string) string {
	if cfg.OTEL.ServiceName != "" {
		return cfg.OTEL.ServiceName
	}
	return fallback
}

// bindListeners uses injected listeners or binds from config.
func bindListeners(ctx context.Context, p Params, ls Listeners, cfg *config.Config, withGRPC bool) (httpLn, grpcLn net.Listener, err error) {
	lc := &net.ListenConfig{}

	httpLn = ls.HTTP
	if httpLn == nil {
		httpLn, err = lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", p.PortFromConfig(cfg)))
		if err != nil {
			return nil, nil, fmt.Errorf("listen HTTP: %w", err)
		}
	}

	if !withGRPC {
		return httpLn, nil, nil
	}

	grpcLn = ls.GRPC
	if grpcLn == nil {
		grpcLn, err = lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", p.GRPCPortFromConfig(cfg)))
		if err != nil {
			_ = httpLn.Close()
			return nil, nil, fmt.Errorf("listen gRPC: %w", err)
		}
	}
	return httpLn, grpcLn, nil
}

// stopGRPC drains in-flight RPCs, forcing a stop once ctx expires.
func stopGRPC(ctx context.Context, srv *grpc.Server) {
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		srv.Stop()
		<-done
	}
}

func shutdownOTEL(logger *slog.Logger, mp *observability.MetricsProvider, tp *observability.TracerProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), domain.ShutdownOTELTimeout)
	defer cancel()
	if mp != nil {
		if err := mp.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown metrics", slog.String("error", err.Error()))
		}
	}
	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}
}

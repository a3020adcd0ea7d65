package main

import (
	"context"
	"fmt"
	"log/slog"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/observability"
	"github.com/libmarket/phonecheck/internal/phoneapi"
	"github.com/libmarket/phonecheck/internal/redis"
	"github.com/libmarket/phonecheck/internal/registry"
	"github.com/libmarket/phonecheck/internal/server"
)

// healthService is the grpc.health.v1 service name reported by phoned.
const healthService = "libmarket.phone.v1.PhoneService"

// setup is the phoned composition root: Redis client, registry, claim rate
// limiter, metrics and the HTTP API.
func setup(ctx context.Context, deps server.SetupDeps) (func(context.Context) error, error) {
	cfg := deps.Config
	logger := deps.Logger

	redisClient := redis.NewClient(redis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
		KeyPrefix:    cfg.Redis.Prefix,
	})

	if err := redisClient.Ping(ctx); err != nil {
		if !cfg.IsLocal() {
			_ = redisClient.Close()
			return nil, fmt.Errorf("phoned setup: %w", err)
		}
		logger.WarnContext(ctx, "redis unreachable, claim endpoints will fail until it is up",
			slog.String("redis_addr", cfg.Redis.Addr),
			slog.String("error", err.Error()),
		)
	}

	metrics, err := observability.NewPhoneMetrics(observability.Meter("github.com/libmarket/phonecheck/internal/phoneapi"))
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("phoned setup: %w", err)
	}

	api := phoneapi.New(phoneapi.Config{
		Registry: registry.New(redisClient.RDB, cfg.Redis.Prefix, domain.RealClock{}),
		Limiter:  registry.NewRateLimiter(redisClient.RDB, cfg.Redis.Prefix, domain.ClaimRateLimit, domain.ClaimRateWindow),
		Metrics:  metrics,
		Logger:   logger,
	})
	deps.HTTPMux.Handle("/v1/", api.Handler())
	deps.Health.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)

	logger.InfoContext(ctx, "phoned initialized", slog.String("key_prefix", cfg.Redis.Prefix))

	cleanup := func(_ context.Context) error {
		return redisClient.Close()
	}
	return cleanup, nil
}

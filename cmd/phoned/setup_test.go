package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/libmarket/phonecheck/internal/config"
	"github.com/libmarket/phonecheck/internal/server"
)

func testDeps(env, redisAddr string) server.SetupDeps {
	return server.SetupDeps{
		Config: &config.Config{
			Environment: env,
			Redis: config.RedisConfig{
				Addr:    redisAddr,
				Timeout: time.Second,
				Prefix:  "libmarket",
			},
		},
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		HTTPMux: http.NewServeMux(),
		Health:  health.NewServer(),
	}
}

func TestSetup_WiresAPI(t *testing.T) {
	mr := miniredis.RunT(t)
	deps := testDeps("local", mr.Addr())

	cleanup, err := setup(context.Background(), deps)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, cleanup(context.Background())) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/phone/claims",
		strings.NewReader(`{"phone":"077123456","user_id":"7c9e6679-7425-40de-944b-e07fc1f90ae7"}`))
	deps.HTTPMux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, mr.Exists("libmarket:phone:77123456"))

	resp, err := deps.Health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: healthService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestSetup_RedisRequiredOutsideLocal(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := setup(context.Background(), testDeps("prod", addr))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

// Package phoneapi exposes phone validation, parsing, deduplication and the
// uniqueness registry over JSON HTTP.
package phoneapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/errmap"
	"github.com/libmarket/phonecheck/internal/observability"
	"github.com/libmarket/phonecheck/internal/phone"
	"github.com/libmarket/phonecheck/internal/registry"
)

// Registry is the subset of registry.Registry the API depends on.
type Registry interface {
	ClaimPhone(ctx context.Context, n phone.Number, owner domain.UserID) error
	PhoneOwner(ctx context.Context, n phone.Number) (registry.Claim, error)
	ReleasePhone(ctx context.Context, n phone.Number, owner domain.UserID) error
	ClaimSlug(ctx context.Context, name string) (string, error)
}

var _ Registry = (*registry.Registry)(nil)

// ClaimLimiter budgets claim attempts and owner lookups per number.
type ClaimLimiter interface {
	AllowClaim(ctx context.Context, n phone.Number) error
}

var _ ClaimLimiter = (*registry.RateLimiter)(nil)

// Config holds the API's collaborators. Limiter and Metrics may be nil.
type Config struct {
	Registry Registry
	Limiter  ClaimLimiter
	Metrics  *observability.PhoneMetrics
	Logger   *slog.Logger
}

// API serves the /v1 phone and slug endpoints.
type API struct {
	registry Registry
	limiter  ClaimLimiter
	metrics  *observability.PhoneMetrics
	logger   *slog.Logger
}

// New creates an API. A nil Logger falls back to slog.Default().
func New(cfg Config) *API {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{registry: cfg.Registry, limiter: cfg.Limiter, metrics: cfg.Metrics, logger: logger}
}

// Register mounts the routes on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/phone/validate", a.handleValidate)
	mux.HandleFunc("POST /v1/phone/parse", a.handleParse)
	mux.HandleFunc("GET /v1/phone/format", a.handleFormat)
	mux.HandleFunc("POST /v1/phone/dedupe", a.handleDedupe)
	mux.HandleFunc("POST /v1/phone/claims", a.handleClaimPhone)
	mux.HandleFunc("GET /v1/phone/claims/{phone}", a.handleGetClaim)
	mux.HandleFunc("DELETE /v1/phone/claims/{phone}", a.handleReleaseClaim)
	mux.HandleFunc("POST /v1/slugs", a.handleClaimSlug)
}

// Handler returns the routes wrapped in request logging and the body cap.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.Register(mux)
	return Logging(a.logger, LimitBody(domain.MaxRequestBodyBytes, mux))
}

func (a *API) allowClaim(ctx context.Context, n phone.Number) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.AllowClaim(ctx, n)
}

// decodeJSON reads a single JSON object into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("body over %d bytes: %w", tooLarge.Limit, domain.ErrRequestTooLarge)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("empty request body: %w", domain.ErrInvalidInput)
		default:
			return fmt.Errorf("malformed JSON: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its HTTP response and logs server-side failures.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsClientError(err) && !errors.Is(err, domain.ErrRateLimited) {
		observability.WithTraceID(r.Context(), a.logger).ErrorContext(r.Context(), "request failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("route", route(r)),
			slog.String("error", err.Error()),
		)
	}
	errmap.WriteHTTPError(w, err)
}

package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/phone"
)

// MetricsProvider wraps the OpenTelemetry meter provider with shutdown capabilities.
type MetricsProvider struct {
	provider *sdkmetric.MeterProvider
}

// InitMetrics installs a global meter provider.
// The returned provider must be shut down on exit.
func InitMetrics(ctx context.Context, cfg Config) (*MetricsProvider, error) {
	opts := []sdkmetric.Option{sdkmetric.WithResource(newResource(cfg))}

	if cfg.OTLPEndpoint != "" {
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(), // TODO: Configure TLS for production
		)
		if err != nil {
			return nil, fmt.Errorf("create OTLP metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	provider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	return &MetricsProvider{provider: provider}, nil
}

// Shutdown flushes any remaining metrics and shuts down the provider.
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	return mp.provider.Shutdown(ctx)
}

// Meter returns a meter for the given instrumentation name.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Validation outcomes recorded on the phone.validations counter.
const (
	OutcomeValid         = "valid"
	OutcomeEmpty         = "empty"
	OutcomeInvalidLength = "invalid_length"
	OutcomeUnknownPrefix = "unknown_prefix"
)

// PhoneMetrics records validation outcomes by carrier.
type PhoneMetrics struct {
	validations metric.Int64Counter
}

// NewPhoneMetrics registers the phone instruments on meter.
func NewPhoneMetrics(meter metric.Meter) (*PhoneMetrics, error) {
	validations, err := meter.Int64Counter("phone.validations",
		metric.WithDescription("Phone number validations by carrier and outcome"),
		metric.WithUnit("{validation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create phone.validations counter: %w", err)
	}
	return &PhoneMetrics{validations: validations}, nil
}

// RecordValidation counts one validation result. A nil receiver is a no-op.
func (m *PhoneMetrics) RecordValidation(ctx context.Context, res phone.ValidationResult) {
	if m == nil {
		return
	}
	carrier := string(res.Carrier)
	if carrier == "" {
		carrier = "unknown"
	}
	m.validations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("carrier", carrier),
		attribute.String("outcome", Outcome(res)),
	))
}

// Outcome classifies a validation result for metric attributes.
func Outcome(res phone.ValidationResult) string {
	switch {
	case res.Valid:
		return OutcomeValid
	case errors.Is(res.Err, domain.ErrEmptyInput):
		return OutcomeEmpty
	case errors.Is(res.Err, domain.ErrUnknownPrefix):
		return OutcomeUnknownPrefix
	default:
		return OutcomeInvalidLength
	}
}

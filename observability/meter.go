package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/companion/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// The returned provider must be shut down on exit to flush pending metrics.
func InitMeter(ctx context.Context, cfg MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	log.Info("Meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Verification outcomes recorded by the authentication gate.
const (
	OutcomeOK               = "ok"
	OutcomeMissing          = "missing"
	OutcomeMalformed        = "malformed"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeExpired          = "expired"
)

// Metrics holds the service's metric instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	requestTotal       metric.Int64Counter
	requestDuration    metric.Float64Histogram
	requestActive      metric.Int64UpDownCounter
	tokenVerifications metric.Int64Counter
	operationTotal     metric.Int64Counter
	operationDuration  metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.active_requests counter: %w", err)
	}

	tokenVerifications, err := meter.Int64Counter("auth.token.verifications",
		metric.WithDescription("Bearer token verifications by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.token.verifications counter: %w", err)
	}

	operationTotal, err := meter.Int64Counter("account.operations",
		metric.WithDescription("Account operations by name and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating account.operations counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("account.operation.duration",
		metric.WithDescription("Duration of account operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating account.operation.duration histogram: %w", err)
	}

	return &Metrics{
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestActive:      requestActive,
		tokenVerifications: tokenVerifications,
		operationTotal:     operationTotal,
		operationDuration:  operationDuration,
	}, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements in-flight requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}

// RecordVerification counts one bearer token verification.
func (m *Metrics) RecordVerification(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.tokenVerifications.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}

// RecordOperation records an account operation execution.
func (m *Metrics) RecordOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

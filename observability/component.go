package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/companion/component"
	"github.com/kbukum/companion/logger"
)

// ServiceInfo identifies the service in exported telemetry.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// Component installs the OTLP tracer and meter providers on Start and
// flushes them on Stop. When export is disabled it does nothing and the
// global no-op providers stay in place.
type Component struct {
	cfg  Config
	info ServiceInfo
	log  *logger.Logger
	tp   *sdktrace.TracerProvider
	mp   *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, info ServiceInfo, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, info: info, log: log.WithComponent("telemetry")}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start initializes the exporters when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}

	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName:    c.info.Name,
		ServiceVersion: c.info.Version,
		Environment:    c.info.Environment,
		Endpoint:       c.cfg.Endpoint,
		Insecure:       c.cfg.Insecure,
		SampleRate:     c.cfg.SampleRate,
	}, c.log)
	if err != nil {
		return fmt.Errorf("telemetry start: %w", err)
	}
	c.tp = tp

	mp, err := InitMeter(ctx, MeterConfig{
		ServiceName:    c.info.Name,
		ServiceVersion: c.info.Version,
		Environment:    c.info.Environment,
		Endpoint:       c.cfg.Endpoint,
		Insecure:       c.cfg.Insecure,
		Interval:       c.cfg.MetricInterval,
	}, c.log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		c.tp = nil
		return fmt.Errorf("telemetry start: %w", err)
	}
	c.mp = mp
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	return errors.Join(errs...)
}

// Health reports the exporter state. Export failures never make the service unhealthy.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Message = "export disabled"
	}
	return h
}

// Describe returns the startup summary line.
func (c *Component) Describe() string {
	if !c.cfg.Enabled {
		return "otlp=off"
	}
	return fmt.Sprintf("otlp=%s sample=%g", c.cfg.Endpoint, c.cfg.SampleRate)
}

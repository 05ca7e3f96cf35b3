package observability

import (
	"fmt"
	"time"
)

// Config holds telemetry export configuration.
type Config struct {
	// Enabled turns on OTLP export. When false the global providers stay
	// no-op and spans and metrics cost almost nothing.
	Enabled bool `mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP collector host:port (default: localhost:4318).
	Endpoint string `mapstructure:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure"`

	// SampleRate is the fraction of traces kept, in (0, 1] (default: 1).
	SampleRate float64 `mapstructure:"sample_rate"`

	// MetricInterval is the metric export period (default: 15s).
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %g)", c.SampleRate)
	}
	if c.MetricInterval < time.Second {
		return fmt.Errorf("observability.metric_interval must be >= 1s (got: %s)", c.MetricInterval)
	}
	return nil
}

package app

import (
	"fmt"
	"strings"

	"github.com/kbukum/companion/account"
	"github.com/kbukum/companion/auth"
	"github.com/kbukum/companion/config"
	"github.com/kbukum/companion/database"
	"github.com/kbukum/companion/observability"
	"github.com/kbukum/companion/server"
	"github.com/kbukum/companion/util"
)

// ServiceName is the default service name and the config lookup key.
const ServiceName = "companion"

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Accounts      account.Config       `yaml:"accounts" mapstructure:"accounts"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Accounts.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Accounts.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

// LoadConfig reads the config file (found automatically when path is
// empty), the .env file and the environment, then applies defaults and
// validates.
func LoadConfig(path string) (*Config, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	cfg := &Config{}
	if err := config.Load(ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// maskDSN hides the DSN query string, which may carry credentials.
func maskDSN(dsn string) string {
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		return util.MaskSecret(dsn, i)
	}
	return dsn
}

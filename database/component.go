package database

import (
	"context"
	"fmt"

	"github.com/kbukum/companion/component"
	"github.com/kbukum/companion/database/migration"
	"github.com/kbukum/companion/logger"
)

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db       *DB
	cfg      Config
	log      *logger.Logger
	migrator *migration.Migrator
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// WithMigrations sets the migrations applied on Start when AutoMigrate is on.
func (c *Component) WithMigrations(m *migration.Migrator) *Component {
	c.migrator = m
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects to the database and optionally applies migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.AutoMigrate && c.migrator != nil {
		if err := c.migrator.Up(db.GormDB); err != nil {
			return fmt.Errorf("database migrate: %w", err)
		}
	}
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health reports whether the database answers a ping.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.db == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "database not initialized"
		return h
	}
	if status := c.db.CheckHealth(ctx); !status.Connected {
		h.Status = component.StatusUnhealthy
		h.Message = "ping failed: " + status.Error
	}
	return h
}

// Describe returns the startup summary line.
func (c *Component) Describe() string {
	details := fmt.Sprintf("sqlite pool=%d/%d", c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return details
}

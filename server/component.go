package server

import (
	"context"

	"github.com/kbukum/companion/component"
)

const componentName = "http-server"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component wraps Server to implement component.Component.
type Component struct {
	server  *Server
	started bool
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (c *Component) Start(ctx context.Context) error {
	if err := c.server.Start(ctx); err != nil {
		return err
	}
	c.started = true
	return nil
}

// Stop gracefully shuts down the underlying HTTP server.
func (c *Component) Stop(ctx context.Context) error {
	if !c.started {
		return nil
	}
	c.started = false
	return c.server.Stop(ctx)
}

// Health reports whether the server is accepting connections.
func (c *Component) Health(_ context.Context) component.Health {
	if c.started {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not started",
	}
}

// Describe returns the startup summary line.
func (c *Component) Describe() string {
	return "listen=" + c.server.Addr() + " " + c.server.config.TLS.Describe()
}

// Addr returns the bound listen address.
func (c *Component) Addr() string {
	return c.server.Addr()
}

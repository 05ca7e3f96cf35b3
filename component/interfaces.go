package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

var severity = map[HealthStatus]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}

// Overall is the worst status in hs, or healthy when hs is empty.
func Overall(hs []Health) HealthStatus {
	worst := StatusHealthy
	for _, h := range hs {
		if severity[h.Status] > severity[worst] {
			worst = h.Status
		}
	}
	return worst
}

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed infrastructure piece.
type Component interface {
	// Name returns the unique name of the component.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Describable is optionally implemented by components that report a
// one-line summary in the startup log, e.g. "sqlite pool=1/1".
type Describable interface {
	Describe() string
}

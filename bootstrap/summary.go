package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kbukum/companion/component"
	"github.com/kbukum/companion/logger"
)

// RouteInfo is a registered HTTP route.
type RouteInfo struct {
	Method string
	Path   string
}

// Summary collects what the service started with and logs it once ready.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	routes          []RouteInfo
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records how long startup took.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackRoute records an HTTP route for the summary.
func (s *Summary) TrackRoute(method, path string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path})
}

// Routes returns the tracked routes sorted by path, then method.
func (s *Summary) Routes() []RouteInfo {
	out := append([]RouteInfo(nil), s.routes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Display logs the startup summary: component health and the route table.
func (s *Summary) Display(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	healthy := 0
	health := registry.HealthAll(ctx)
	for _, h := range health {
		if h.Status == component.StatusHealthy {
			healthy++
			continue
		}
		log.Warn("Component not healthy", logger.Fields("name", h.Name, "status", string(h.Status), "message", h.Message))
	}

	routes := s.Routes()
	lines := make([]string, 0, len(routes))
	for _, r := range routes {
		lines = append(lines, fmt.Sprintf("%-6s %s", r.Method, r.Path))
	}

	log.Info("Service started", logger.Fields(
		"name", s.serviceName,
		"version", s.version,
		"startup", s.startupDuration.Round(time.Millisecond).String(),
		"components", fmt.Sprintf("%d/%d healthy", healthy, len(health)),
		"routes", strings.Join(lines, "; "),
	))
}

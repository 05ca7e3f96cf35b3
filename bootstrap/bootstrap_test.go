package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/kbukum/companion/component"
	"github.com/kbukum/companion/config"
	"github.com/kbukum/companion/logger"
)

type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health

	mu      sync.Mutex
	started bool
	stopped bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health { return m.health }

func (m *mockComponent) state() (started, stopped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}

func healthy(name string) *mockComponent {
	return &mockComponent{name: name, health: component.Health{Name: name, Status: component.StatusHealthy}}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{ServiceConfig: config.ServiceConfig{Name: name, Version: version, Environment: "development"}}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	app, err := NewApp(newTestConfig("companion", "1.0.0"), opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "companion" || app.Version != "1.0.0" {
		t.Errorf("unexpected name/version %q %q", app.Name, app.Version)
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Error("expected registry, logger and summary")
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected typed config, got %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default timeout, got %v", app.gracefulTimeout)
	}
}

func TestNewApp_Validation(t *testing.T) {
	_, err := NewApp(&testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}})
	if err == nil {
		t.Error("expected error for missing name")
	}
}

func TestNewApp_BuildsLoggerFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := newTestConfig("companion", "1.0.0")
	cfg.Logging = logger.Config{Level: "info", Format: "json", Writer: &buf}

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	app.Logger.Info("hello")
	if !strings.Contains(buf.String(), `"service":"companion"`) {
		t.Errorf("expected service field in %q", buf.String())
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(30*time.Second))
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
	if app := newTestApp(t, WithGracefulTimeout(0)); app.gracefulTimeout != defaultGracefulTimeout {
		t.Errorf("expected zero to keep the default, got %v", app.gracefulTimeout)
	}
}

func TestWaitForSignal_ConfiguredSignal(t *testing.T) {
	// Keep SIGUSR1 from terminating the test binary before WaitForSignal
	// subscribes.
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGUSR1)
	defer signal.Stop(guard)

	app := newTestApp(t, WithShutdownSignals(syscall.SIGUSR1))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan os.Signal, 1)
	go func() { done <- app.WaitForSignal(ctx) }()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case sig := <-done:
			if sig != syscall.SIGUSR1 {
				t.Fatalf("expected SIGUSR1, got %v", sig)
			}
			return
		case <-ticker.C:
			_ = syscall.Kill(os.Getpid(), syscall.SIGUSR1)
		case <-ctx.Done():
			t.Fatal("WaitForSignal did not return")
		}
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	db := healthy("database")
	server := healthy("http-server")
	if err := app.RegisterComponent(db); err != nil {
		t.Fatal(err)
	}

	var order []string
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		if started, _ := db.state(); !started {
			t.Error("database should be started before configure")
		}
		order = append(order, "configure")
		return a.RegisterComponent(server)
	})
	app.OnReady(func(ctx context.Context) error {
		if started, _ := server.state(); !started {
			t.Error("components registered in configure should be started before ready")
		}
		order = append(order, "ready")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	if got := strings.Join(order, ","); got != "configure,ready,task,stop" {
		t.Errorf("unexpected order %s", got)
	}
	for _, c := range []*mockComponent{db, server} {
		if _, stopped := c.state(); !stopped {
			t.Errorf("%s not stopped", c.name)
		}
	}
}

func TestRunTask_ReturnsTaskError(t *testing.T) {
	app := newTestApp(t)
	boom := errors.New("boom")
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRun_StartFailureStopsStarted(t *testing.T) {
	app := newTestApp(t)
	db := healthy("database")
	broken := &mockComponent{name: "telemetry", startErr: errors.New("no collector")}
	_ = app.RegisterComponent(db)
	_ = app.RegisterComponent(broken)

	err := app.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "telemetry") {
		t.Fatalf("expected start error naming telemetry, got %v", err)
	}
	if _, stopped := db.state(); !stopped {
		t.Error("started components must be stopped after a failed startup")
	}
}

func TestRun_ConfigureError(t *testing.T) {
	app := newTestApp(t)
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		return errors.New("bad wiring")
	})
	if err := app.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "configuration failed") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app := newTestApp(t)
	db := healthy("database")
	_ = app.RegisterComponent(db)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	app.OnReady(func(context.Context) error {
		cancel()
		return nil
	})
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, stopped := db.state(); !stopped {
		t.Error("database not stopped")
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(healthy("database"))
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("expected ready, got %v", err)
	}

	_ = app.RegisterComponent(&mockComponent{
		name:   "telemetry",
		health: component.Health{Name: "telemetry", Status: component.StatusUnhealthy, Message: "exporter down"},
	})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "telemetry=unhealthy(exporter down)") {
		t.Errorf("unexpected ready error %v", err)
	}
}

func TestShutdown_JoinsStopErrors(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "database", stopErr: errors.New("close failed")})
	if err := app.Components.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := app.Shutdown(); err == nil {
		t.Error("expected stop error")
	}
}

func TestSummary_RoutesSortedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "info", Format: "json", Writer: &buf}, "companion")

	s := NewSummary("companion", "1.0.0")
	s.TrackRoute("PUT", "/api/users/:userId")
	s.TrackRoute("POST", "/api/users/signup")
	s.TrackRoute("GET", "/api/users/:userId")

	routes := s.Routes()
	if routes[0].Method != "GET" || routes[1].Method != "PUT" || routes[2].Path != "/api/users/signup" {
		t.Errorf("unexpected order %+v", routes)
	}

	registry := component.NewRegistry(nil)
	_ = registry.Register(healthy("database"))
	s.Display(context.Background(), registry, log)

	out := buf.String()
	for _, want := range []string{"Service started", "1/1 healthy", "POST   /api/users/signup"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %s", want, out)
		}
	}
}

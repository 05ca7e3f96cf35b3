package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/companion/bootstrap"
	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/server"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{}
	cfg.Environment = "development"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)
	cfg.Database.DSN = "file:" + filepath.Join(t.TempDir(), "companion.db") + "?_busy_timeout=5000"
	cfg.Database.AutoMigrate = true
	cfg.Auth.Token.Secret = testSecret
	cfg.Auth.Password.BcryptCost = 4
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.Token.Secret = testSecret
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("expected default name %q, got %q", ServiceName, cfg.Name)
	}
	if cfg.Server.Port != 5000 || cfg.Accounts.BasePath != "/api/users" {
		t.Errorf("unexpected defaults port=%d base=%s", cfg.Server.Port, cfg.Accounts.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_RequiresSecret(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "auth.token") {
		t.Errorf("expected auth.token error, got %v", err)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := `name: companion
environment: staging
server:
  port: 6000
accounts:
  directory_timeout: 2s
auth:
  token:
    ttl: 30m
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AUTH_TOKEN_SECRET", testSecret)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Environment != "staging" || cfg.Server.Port != 6000 {
		t.Errorf("file values not applied: env=%s port=%d", cfg.Environment, cfg.Server.Port)
	}
	if cfg.Accounts.DirectoryTimeout != 2*time.Second || cfg.Auth.Token.TTL != 30*time.Minute {
		t.Errorf("durations not decoded: %s %s", cfg.Accounts.DirectoryTimeout, cfg.Auth.Token.TTL)
	}
	if cfg.Auth.Token.Secret != testSecret {
		t.Error("secret should come from the environment")
	}
}

func TestMaskDSN(t *testing.T) {
	if got := maskDSN("file:companion.db?_auth_pass=hunter2"); got != "file:companion.db***" {
		t.Errorf("maskDSN = %q", got)
	}
	if got := maskDSN("file:companion.db"); got != "file:companion.db" {
		t.Errorf("maskDSN = %q", got)
	}
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestNew_ServesAccountAPI(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg, bootstrap.WithLogger(logger.Nop()), bootstrap.WithGracefulTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = a.RunTask(context.Background(), func(ctx context.Context) error {
		base := "http://127.0.0.1:" + strconv.Itoa(cfg.Server.Port)

		srv, ok := a.Components.Get("http-server").(*server.Component)
		if !ok || !strings.HasSuffix(srv.Addr(), strconv.Itoa(cfg.Server.Port)) {
			t.Errorf("http-server component not registered or bound: %v", srv)
		}

		resp, err := http.Get(base + "/")
		if err != nil {
			t.Fatalf("GET /: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != server.LivenessMessage {
			t.Errorf("unexpected liveness body %q", body)
		}

		resp, err = http.Get(base + "/health")
		if err != nil {
			t.Fatalf("GET /health: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected healthy, got %d", resp.StatusCode)
		}

		resp, data := postJSON(t, base+"/api/users/signup",
			`{"username":"alice","emailId":"alice@example.com","password":"wonderland"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("signup: %d %s", resp.StatusCode, data)
		}
		var created struct {
			Token string `json:"token"`
			User  struct {
				UserID string `json:"userId"`
			} `json:"user"`
		}
		if err := json.Unmarshal(data, &created); err != nil {
			t.Fatalf("decode signup: %v", err)
		}

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/users/"+created.User.UserID, http.NoBody)
		req.Header.Set("Authorization", "Bearer "+created.Token)
		resp, err = http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET user: %v", err)
		}
		data, _ = io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || !bytes.Contains(data, []byte(`"username":"alice"`)) {
			t.Errorf("GET user: %d %s", resp.StatusCode, data)
		}
		if resp.Header.Get("X-Request-Id") == "" {
			t.Error("expected a request id header")
		}

		resp, err = http.Get(base + "/api/users/" + created.User.UserID)
		if err != nil {
			t.Fatalf("GET without token: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	routes := a.Summary.Routes()
	if len(routes) != 9 {
		t.Errorf("expected 9 routes, got %d: %+v", len(routes), routes)
	}
}

func TestMigrate(t *testing.T) {
	cfg := testConfig(t)
	opts := []bootstrap.Option{bootstrap.WithLogger(logger.Nop())}

	for _, action := range []MigrateAction{MigrateVersion, MigrateUp, MigrateUp, MigrateDown} {
		if err := Migrate(context.Background(), cfg, action, opts...); err != nil {
			t.Fatalf("Migrate(%s): %v", action, err)
		}
	}
	if err := Migrate(context.Background(), cfg, "sideways", opts...); err == nil {
		t.Error("expected error for unknown action")
	}
}

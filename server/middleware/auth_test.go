package middleware_test

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/companion/auth"
	"github.com/kbukum/companion/auth/authctx"
	"github.com/kbukum/companion/auth/token"
	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/server/middleware"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// countingVerifier wraps a token service and counts Verify calls.
type countingVerifier struct {
	svc   *token.Service
	calls atomic.Int32
}

func (v *countingVerifier) Verify(raw string) (*token.Claims, error) {
	v.calls.Add(1)
	return v.svc.Verify(raw)
}

func newGate(t *testing.T, now func() time.Time) (*gin.Engine, *countingVerifier, *token.Service) {
	t.Helper()
	svc, err := token.NewService(token.Config{Secret: testSecret}, token.WithClock(now))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	verifier := &countingVerifier{svc: svc}

	engine := gin.New()
	engine.GET("/protected", middleware.Authenticate(verifier, logger.Nop(), nil), func(c *gin.Context) {
		id := authctx.MustGet(c.Request.Context())
		fromGin, _ := c.Get(middleware.IdentityKey)
		if fromGin.(authctx.Identity) != id {
			t.Errorf("gin and request contexts disagree: %v vs %v", fromGin, id)
		}
		c.String(http.StatusOK, id.UserID+"/"+id.Username)
	})
	return engine, verifier, svc
}

func serve(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	return rr
}

func TestAuthenticate_ValidToken(t *testing.T) {
	engine, verifier, svc := newGate(t, time.Now)
	signed, err := svc.Issue("3f2c7a4e-8d1b-4c55-9a0e-2b6f1d7e9c31", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rr := serve(engine, "Bearer "+signed)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "3f2c7a4e-8d1b-4c55-9a0e-2b6f1d7e9c31/alice" {
		t.Errorf("unexpected identity %q", rr.Body.String())
	}
	if verifier.calls.Load() != 1 {
		t.Errorf("expected one verification, got %d", verifier.calls.Load())
	}
}

func TestAuthenticate_RejectsWithoutCallingVerifier(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic YWxpY2U6cGFzcw=="},
		{"scheme only", "Bearer"},
		{"empty token", "Bearer    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, verifier, _ := newGate(t, time.Now)
			rr := serve(engine, tt.header)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if verifier.calls.Load() != 0 {
				t.Errorf("verifier must not be called, got %d calls", verifier.calls.Load())
			}
			if body := decodeError(t, rr.Body.Bytes()); body.Error.Code != "UNAUTHORIZED" {
				t.Errorf("unexpected code %s", body.Error.Code)
			}
			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate challenge")
			}
		})
	}
}

func TestAuthenticate_SameBodyForEveryFailure(t *testing.T) {
	issuedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	now := issuedAt
	engine, _, svc := newGate(t, func() time.Time { return now })

	signed, err := svc.Issue("3f2c7a4e-8d1b-4c55-9a0e-2b6f1d7e9c31", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip one bit of the signature.
	parts := strings.Split(signed, ".")
	sig, _ := base64.RawURLEncoding.DecodeString(parts[2])
	sig[0] ^= 1
	forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(sig)

	missing := serve(engine, "").Body.Bytes()
	malformed := serve(engine, "Bearer not-a-token").Body.Bytes()
	badSig := serve(engine, "Bearer "+forged).Body.Bytes()

	now = issuedAt.Add(time.Hour)
	expired := serve(engine, "Bearer "+signed).Body.Bytes()

	for name, body := range map[string][]byte{"malformed": malformed, "forged": badSig, "expired": expired} {
		if !bytes.Equal(body, missing) {
			t.Errorf("%s body %s differs from %s", name, body, missing)
		}
	}
}

func TestAuthenticate_LogsReasonNotToken(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Writer: buf}, "test")

	svc, err := token.NewService(token.Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	engine := gin.New()
	engine.GET("/protected", middleware.Authenticate(svc, log, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve(engine, "Bearer secret.looking.token")

	out := buf.String()
	if !strings.Contains(out, `"reason":"malformed"`) {
		t.Errorf("expected reason in log, got %q", out)
	}
	if strings.Contains(out, "secret.looking.token") {
		t.Error("the token must never be logged")
	}
}

func TestAuthenticate_AcceptsVerifierFunc(t *testing.T) {
	verifier := auth.VerifierFunc(func(string) (*token.Claims, error) {
		return &token.Claims{UserID: "u-1", Username: "bob"}, nil
	})
	engine := gin.New()
	engine.GET("/protected", middleware.Authenticate(verifier, logger.Nop(), nil), func(c *gin.Context) {
		c.String(http.StatusOK, authctx.MustGet(c.Request.Context()).Username)
	})

	rr := serve(engine, "bearer anything")
	if rr.Code != http.StatusOK || rr.Body.String() != "bob" {
		t.Fatalf("expected 200 bob, got %d %q", rr.Code, rr.Body.String())
	}
}

package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newBufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.New(&logger.Config{Level: "debug", Format: "json", Writer: buf}, "test"), buf
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("response is not valid JSON: %v (%s)", err, body)
	}
	return eb
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_NoPanic(t *testing.T) {
	handler := middleware.Recovery(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_Panic(t *testing.T) {
	log, buf := newBufferLogger()
	handler := middleware.Recovery(log)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("test panic")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if body := decodeError(t, rr.Body.Bytes()); body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
	if !strings.Contains(buf.String(), "test panic") {
		t.Error("expected the panic value to be logged")
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	got := rr.Header().Get(middleware.RequestIDHeader)
	if got == "" {
		t.Fatal("expected X-Request-Id in response headers")
	}
	if seen != got {
		t.Errorf("expected context id %q to match header %q", seen, got)
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("X-Request-Id", "custom-id-123")
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); got != "custom-id-123" {
		t.Fatalf("expected custom-id-123, got %s", got)
	}
}

func TestRequestID_ReplacesOversized(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("X-Request-Id", strings.Repeat("x", 500))
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); len(got) != 36 {
		t.Fatalf("expected a generated UUID, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_SetHeaders(t *testing.T) {
	cfg := middleware.CORSConfig{
		AllowedOrigins: []string{"https://app.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	middleware.CORS(cfg)(okHandler()).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("unexpected Allow-Origin %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("unexpected Allow-Methods %q", got)
	}
	if rr.Header().Get("Vary") != "Origin" {
		t.Error("expected Vary: Origin")
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := middleware.CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: 600}
	called := false
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/users/login", http.NoBody)
	req.Header.Set("Origin", "https://any.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if called {
		t.Error("preflight must not reach the handler")
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected wildcard origin, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
	if rr.Header().Get("Access-Control-Max-Age") != "600" {
		t.Errorf("expected Max-Age 600, got %q", rr.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := middleware.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://evil.example.com")
	middleware.CORS(cfg)(okHandler()).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("disallowed origin must not get CORS headers")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("expected request to proceed, got %d", rr.Code)
	}
}

func TestCORS_CredentialsEchoOrigin(t *testing.T) {
	cfg := middleware.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	middleware.CORS(cfg)(okHandler()).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("credentialed response must echo the origin, got %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected Allow-Credentials")
	}
}

// ---------------------------------------------------------------------------
// BodySizeLimit
// ---------------------------------------------------------------------------

func TestBodySizeLimit_RejectsDeclaredLength(t *testing.T) {
	handler := middleware.BodySizeLimit("1KB")(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("a", 2048))))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestBodySizeLimit_CapsStreamedBody(t *testing.T) {
	var readErr error
	handler := middleware.BodySizeLimit("1KB")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("a", 2048)))
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Fatal("expected read past the limit to fail")
	}
}

// ---------------------------------------------------------------------------
// Chain and Tracing
// ---------------------------------------------------------------------------

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := middleware.Chain(mw("first"), mw("second"), mw("third"))(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", http.NoBody))

	if strings.Join(order, ",") != "first,second,third" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestTracing_PassesThrough(t *testing.T) {
	handler := middleware.Tracing()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// RequestLogger
// ---------------------------------------------------------------------------

func TestRequestLogger_LogsRequest(t *testing.T) {
	log, buf := newBufferLogger()
	engine := gin.New()
	engine.Use(middleware.RequestLogger(log, nil))
	engine.GET("/api/users/:userId", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/users/42", http.NoBody))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["route"] != "/api/users/:userId" {
		t.Errorf("expected route template, got %v", entry["route"])
	}
	if entry["level"] != "warn" {
		t.Errorf("expected 4xx to log at warn, got %v", entry["level"])
	}
}

func TestRequestLogger_SkipsHealthChecks(t *testing.T) {
	log, buf := newBufferLogger()
	engine := gin.New()
	engine.Use(middleware.RequestLogger(log, nil))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", http.NoBody))

	if buf.Len() != 0 {
		t.Errorf("expected no log output for /health, got %q", buf.String())
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/observability"
	"github.com/kbukum/companion/server/endpoint"
	"github.com/kbukum/companion/server/middleware"
)

// LivenessMessage is the body served on GET /.
const LivenessMessage = "Companion Backend is running."

// Server is the HTTP server: a gin engine behind the transport middleware
// stack, served over HTTP/1.1 and cleartext HTTP/2.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	pools      map[string]endpoint.Pool

	mu       sync.Mutex
	listener net.Listener
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	metrics *observability.Metrics
	pools   map[string]endpoint.Pool
}

// WithMetrics records request metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *serverOptions) { o.metrics = m }
}

// WithPool exposes a bounded pool's occupancy on GET /metrics.
func WithPool(name string, p endpoint.Pool) Option {
	return func(o *serverOptions) {
		if o.pools == nil {
			o.pools = make(map[string]endpoint.Pool)
		}
		o.pools[name] = p
	}
}

// New creates a Server. cfg should have ApplyDefaults called already.
func New(cfg Config, log *logger.Logger, opts ...Option) *Server {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log = log.WithComponent("server")

	engine := gin.New()
	engine.ContextWithFallback = true
	engine.Use(middleware.RequestLogger(log, o.metrics))

	handler := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.CORS(cfg.CORS),
		middleware.BodySizeLimit(cfg.MaxBodySize),
	)(engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          cfg.IdleTimeout,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Address(),
			Handler:           h2c.NewHandler(handler, h2s),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		engine: engine,
		config: cfg,
		log:    log,
		pools:  o.pools,
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// RegisterDefaultEndpoints registers GET /, /health, /info and /metrics.
func (s *Server) RegisterDefaultEndpoints(serviceName, environment string, checker endpoint.HealthChecker) {
	s.engine.GET("/", endpoint.Liveness(LivenessMessage))
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName, environment))
	s.engine.GET("/metrics", endpoint.Metrics(s.pools))
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	tlsCfg, err := s.config.TLS.Build()
	if err != nil {
		return fmt.Errorf("server TLS: %w", err)
	}
	s.httpServer.TLSConfig = tlsCfg

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		var err error
		if tlsCfg != nil {
			// Certificates are already in TLSConfig; ServeTLS adds h2 to NextProtos.
			err = s.httpServer.ServeTLS(listener, "", "")
		} else {
			err = s.httpServer.Serve(listener)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", map[string]interface{}{"error": err.Error()})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": listener.Addr().String(),
		"tls":  s.config.TLS.Describe(),
	})
	return nil
}

// Stop gracefully shuts down the server, waiting at most ShutdownTimeout
// for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

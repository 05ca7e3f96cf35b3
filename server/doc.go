// Package server provides the HTTP server: a gin engine wrapped in the
// transport middleware stack and served over HTTP/1.1 and h2c.
//
// Transport middleware (server/middleware), outermost first:
//
//   - Recovery: panic recovery with the standard 500 body
//   - RequestID: X-Request-Id generation and propagation into the log context
//   - Tracing: one OpenTelemetry server span per request
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body cap
//
// Inside gin, RequestLogger logs and measures every request, and
// Authenticate guards the routes that need a verified bearer token.
//
// System endpoints (server/endpoint): GET / (liveness text), /health,
// /info and /metrics.
package server

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/observability"
)

// RequestLogger logs every request with method, path, status and duration,
// and records the request metrics under the matched route template.
// Health-check endpoints are measured but not logged.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RecordRequestStart(c.Request.Context())

		c.Next()

		// The gate may have replaced the request; read the context afterwards.
		ctx := c.Request.Context()
		duration := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequestEnd(ctx, c.Request.Method, route, status, duration)
		observability.SetSpanAttribute(ctx, "http.route", route)

		if isHealthCheckPath(c.Request.URL.Path) {
			return
		}

		fields := map[string]interface{}{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"route":              route,
			logger.FieldStatus:   status,
			logger.FieldDuration: duration.Milliseconds(),
			"client_ip":          c.ClientIP(),
		}
		if duration > 500*time.Millisecond {
			fields["slow"] = true
		}
		logByStatus(log.WithContext(ctx), fields, status)
	}
}

func isHealthCheckPath(path string) bool {
	switch path {
	case "/", "/health", "/info", "/metrics":
		return true
	}
	return false
}

// logByStatus logs request fields at a level chosen by the HTTP status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}

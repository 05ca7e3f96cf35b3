package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/companion/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// maxRequestIDLength bounds ids accepted from clients.
const maxRequestIDLength = 128

// RequestID ensures every request has an id. A client-supplied id is kept
// when it is short enough; otherwise a UUID is generated. The id is echoed
// in the response and stored in the request context for logging.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
		})
	}
}

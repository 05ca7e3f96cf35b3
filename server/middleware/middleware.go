package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior. The server
// applies the transport-level stack (recovery, request id, tracing, CORS,
// body limit) as Middleware around the whole mux; gin-specific concerns
// such as authentication and request logging are gin.HandlerFuncs.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

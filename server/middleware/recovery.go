package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/companion/errors"
	"github.com/kbukum/companion/logger"
)

// Recovery recovers from panics, logs the stack and answers 500 with the
// standard error body if nothing has been written yet.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.WithContext(r.Context()).Error("Panic recovered", map[string]interface{}{
						"error":  fmt.Sprintf("%v", rec),
						"stack":  string(debug.Stack()),
						"path":   r.URL.Path,
						"method": r.Method,
					})
					if sw.wroteHeader {
						return
					}
					writeAppError(sw, apperrors.Internal(nil))
				}
			}()
			next.ServeHTTP(sw, r)
		})
	}
}

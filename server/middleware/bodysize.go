package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/companion/errors"
	"github.com/kbukum/companion/util"
)

const defaultMaxBodySize = 1 << 20 // 1MB

// BodySizeLimit restricts the request body to the given size string
// (e.g. "1MB", "512KB"). Reads past the limit fail, which the JSON
// binding reports as a 400.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeAppError(w, apperrors.New(apperrors.ErrCodePayloadTooLarge, "Request body too large."))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

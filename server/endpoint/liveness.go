package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Liveness answers with a fixed plain-text message while the process can
// serve HTTP. It performs no dependency checks.
func Liveness(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, message)
	}
}

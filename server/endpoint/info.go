package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/companion/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// Info reports the service name, environment and build information.
func Info(serviceName, environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     serviceName,
			"environment": environment,
			"build":       version.Get(),
			"uptime":      time.Since(startTime).Round(time.Second).String(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

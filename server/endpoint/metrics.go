package endpoint

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// Pool is a bounded worker pool whose occupancy /metrics reports.
type Pool interface {
	InUse() int
	MaxConcurrent() int
}

type poolStats struct {
	InUse int     `json:"in_use"`
	Max   int     `json:"max"`
	Load  float64 `json:"load"`
}

// Metrics reports the occupancy of each named pool and the goroutine count.
// Request and authentication counters go out over OTLP instead.
func Metrics(pools map[string]Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := make(map[string]poolStats, len(pools))
		for name, p := range pools {
			s := poolStats{InUse: p.InUse(), Max: p.MaxConcurrent()}
			if s.Max > 0 {
				s.Load = float64(s.InUse) / float64(s.Max)
			}
			stats[name] = s
		}
		c.JSON(http.StatusOK, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"pools":      stats,
		})
	}
}

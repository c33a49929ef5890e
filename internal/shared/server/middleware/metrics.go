package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/metrics"
)

// Metrics records request count and latency by matched route.
func Metrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

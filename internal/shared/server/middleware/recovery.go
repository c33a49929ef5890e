package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/server/respond"
	"scholarvalley-api/internal/shared/telemetry"
)

// Recovery recovers from panics and answers with the scrubbed 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Internal(c, fmt.Errorf("%v", rec))
			}
		}()
		c.Next()
	}
}

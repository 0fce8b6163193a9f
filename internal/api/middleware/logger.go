package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request. Query strings are left out so
// tokens never reach the log.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		return fmt.Sprintf("[API] %s %s %s %d %s %s\n",
			p.TimeStamp.Format(time.RFC3339),
			p.ClientIP,
			p.Method,
			p.StatusCode,
			p.Latency.Round(time.Microsecond),
			p.Request.URL.Path,
		)
	})
}

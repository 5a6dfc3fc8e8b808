package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/metrics"
)

// PrometheusMetrics records request counts and latency. The endpoint
// label is the route template (e.g. /score_titulo/:movie) so titles do
// not explode label cardinality; unmatched paths are grouped as "unmatched".
func PrometheusMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordAPIRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

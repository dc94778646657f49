package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/metrics"
)

// metricsMiddleware records request counts and latency per route. The route
// template (not the raw path) is used so card ids don't explode cardinality.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}

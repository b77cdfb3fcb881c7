package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetapp/backend/internal/pkg/metrics"
)

// Metrics records request counts, latencies and in-flight gauge per
// route template. Requests that match no route are labelled "unmatched"
// to keep the label cardinality bounded.
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reg == nil {
			c.Next()
			return
		}

		start := time.Now()
		reg.HTTPRequestsInFlight.Inc()

		c.Next()

		reg.HTTPRequestsInFlight.Dec()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		reg.HTTPRequestsTotal.WithLabelValues(endpoint, c.Request.Method, status).Inc()
		reg.HTTPRequestDuration.WithLabelValues(endpoint, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

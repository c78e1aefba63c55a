package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route templates keep label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures a bridge call from dispatch to callback
type Timer struct {
	start   time.Time
	metrics *Metrics
	method  string
}

// NewTimer creates a new timer and counts the call as pending
func NewTimer(metrics *Metrics, method string) *Timer {
	if metrics != nil {
		metrics.BridgePending.Inc()
	}
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		method:  method,
	}
}

// Stop stops the timer and records the call under its result code
func (t *Timer) Stop(code string, failed bool) {
	if t == nil || t.metrics == nil {
		return
	}
	t.metrics.BridgePending.Dec()
	t.metrics.RecordBridgeCall(t.method, code, failed, time.Since(t.start))
}

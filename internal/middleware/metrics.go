package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/feedback-api/internal/service"
)

const (
	unmatchedRoute = "unmatched"
	systemArea     = "system"
)

// Metrics records one observation per request labelled with the route template
// and the API area it belongs to (feedback, stats, reports, ...). Requests that
// match no route share a single label so ids and export tokens never become
// label values.
func Metrics(metricsSvc *service.MetricsService, apiPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, RouteArea(route, apiPrefix), route, c.Writer.Status(), time.Since(start))
	}
}

// RouteArea returns the first path segment below apiPrefix. Routes outside
// the prefix, such as /health and /metrics, report as "system".
func RouteArea(route, apiPrefix string) string {
	prefix := "/" + strings.Trim(apiPrefix, "/")
	if prefix == "/" || !strings.HasPrefix(route, prefix+"/") {
		return systemArea
	}
	rest := strings.TrimPrefix(route, prefix+"/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" || strings.HasPrefix(rest, ":") {
		return systemArea
	}
	return rest
}

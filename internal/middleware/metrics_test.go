package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/feedback-api/internal/service"
)

func TestRouteArea(t *testing.T) {
	cases := map[string]string{
		"/api/v1/feedback/submit":              "feedback",
		"/api/v1/stats/faculty/:id/comparison": "stats",
		"/api/v1/export/:token":                "export",
		"/api/v1/:id":                          "system",
		"/health":                              "system",
		"unmatched":                            "system",
	}
	for route, want := range cases {
		assert.Equal(t, want, RouteArea(route, "/api/v1/"), route)
	}
	assert.Equal(t, "system", RouteArea("/stats", ""))
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/api/v1"))
	r.GET("/api/v1/export/:token", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/export/secret-token", "/api/v1/nope/other-secret"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	seen := map[string]string{}
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			seen[labels["path"]] = labels["area"]
		}
	}
	assert.Equal(t, map[string]string{
		"/api/v1/export/:token": "export",
		"unmatched":             "system",
	}, seen)
}

package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/api/v1/holders/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/holders/h1", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	m.CacheLookup("ledger", "hit")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `tour_ledger_http_requests_total{code="204",route="/api/v1/holders/:id"} 1`), body)
	assert.True(t, strings.Contains(body, `tour_ledger_query_cache_lookups_total{entity="ledger",result="hit"} 1`))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.CacheLookup("x", "hit") })
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

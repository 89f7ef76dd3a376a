package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := NewMetrics("client")

	m.ObserveRequest(http.MethodGet, "/providers", 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/providers", 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/providers/{id}", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/providers", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/providers/{id}", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestSeparateRegistries(t *testing.T) {
	a := NewMetrics("client")
	b := NewMetrics("client")

	a.ObserveFallback("list_providers")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.FallbackCounter.WithLabelValues("list_providers")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FallbackCounter.WithLabelValues("list_providers")))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics("stub")

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/providers/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/providers/9", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/providers/:id", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight.WithLabelValues("/providers/:id")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics("client")
	m.ObserveCache("provider", "hit")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `menna_client_cache_results_total{resource="provider",result="hit"} 1`))
}

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"talentboard/internal/core/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/v1/:entity/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/v1/skill/1", "/api/v1/skill/2", "/missing"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	assert.GreaterOrEqual(t,
		testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/:entity/:id", "200")), 2.0)
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/missing", "404")), 1.0)
	assert.NotZero(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404")), 1.0)
}

func TestStoreObserver(t *testing.T) {
	obs := StoreObserver{}
	obs.ObserveQuery("skills", "find_many", 3*time.Millisecond, nil)
	obs.ObserveQuery("skills", "create", time.Millisecond, apperror.NewDuplicate("skill", "name"))

	assert.GreaterOrEqual(t, testutil.ToFloat64(StoreQueriesTotal.WithLabelValues("skills", "find_many", "ok")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(StoreQueriesTotal.WithLabelValues("skills", "create", "conflict")), 1.0)
	assert.NotZero(t, testutil.CollectAndCount(StoreQueryDuration))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "timeout", Outcome(apperror.NewTimeout("op", nil)))
	assert.Equal(t, "store_unavailable", Outcome(apperror.NewStoreUnavailable("op", nil)))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

func TestObservePanic(t *testing.T) {
	before := testutil.ToFloat64(httpPanicsTotal.WithLabelValues("skill", "/api/v1/skill/:id"))
	ObservePanic("skill", "/api/v1/skill/:id")
	ObservePanic("", "")

	assert.Equal(t, before+1, testutil.ToFloat64(httpPanicsTotal.WithLabelValues("skill", "/api/v1/skill/:id")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpPanicsTotal.WithLabelValues("none", "unknown")), 1.0)
}

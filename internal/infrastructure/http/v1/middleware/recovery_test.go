package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"talentboard/internal/core/apperror"
	"talentboard/internal/infrastructure/http/v1/dto"
	"talentboard/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func panickingRouter(log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(Trace(), Logger(log), ErrorHandler(), Recovery())
	skills := r.Group("/api/v1/skill", Entity("skill"))
	skills.GET("/:id", func(c *gin.Context) { panic("boom") })
	r.GET("/plain", func(c *gin.Context) { panic("plain") })
	return r
}

func TestRecovery_ReturnsInternalErrorWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := panickingRouter(logger.FromCore(core))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/skill/42", http.NoBody)
	req.Header.Set(HeaderRequestID, "req-1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "req-1", body.Details["request_id"])
	assert.Equal(t, "skill", body.Details["entity"])
	assert.NotContains(t, rr.Body.String(), "boom")

	entries := logs.FilterMessage("handler panicked").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "skill", fields["entity"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/skill/:id", fields["route"])
	assert.Equal(t, "boom", fields["panic"])
	assert.NotEmpty(t, fields["stack"])
}

func TestRecovery_OutsideEntityGroup(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := panickingRouter(logger.FromCore(core))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plain", http.NoBody))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotContains(t, body.Details, "entity")
	assert.NotEmpty(t, body.Details["request_id"])

	entries := logs.FilterMessage("handler panicked").All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "entity")
}

func TestEntity_TagsRequestLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Trace(), Logger(logger.FromCore(core)))
	r.GET("/api/v1/company", Entity("company"), func(c *gin.Context) {
		logger.Info(c.Request.Context(), "listing")
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/company", http.NoBody))

	require.Equal(t, http.StatusOK, rr.Code)
	entries := logs.FilterMessage("listing").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "company", entries[0].ContextMap()["entity"])
}

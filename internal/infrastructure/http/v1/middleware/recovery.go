// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"talentboard/internal/core/apperror"
	"talentboard/internal/metrics"
	"talentboard/pkg/logger"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR carrying the
// request id. The panic value and stack only reach the log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			route := c.FullPath()
			metrics.ObservePanic(c.GetString(entityKey), route)

			// FromContext already adds request_id and entity
			logger.FromContext(c.Request.Context()).Errorw("handler panicked",
				"method", c.Request.Method,
				"route", route,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic in %s %s: %v", c.Request.Method, route, rec)).
				WithDetail("request_id", c.GetString(requestIDKey))
			if entity := c.GetString(entityKey); entity != "" {
				appErr = appErr.WithDetail("entity", entity)
			}
			_ = c.Error(appErr)
			c.Abort()
		}()
		c.Next()
	}
}

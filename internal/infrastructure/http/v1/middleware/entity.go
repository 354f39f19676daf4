package middleware

import (
	"github.com/gin-gonic/gin"

	"talentboard/pkg/logger"
)

const entityKey = "entity"

// Entity tags the request with the entity its route group serves.
// Log entries written through the request context carry the name.
func Entity(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(entityKey, name)
		c.Request = c.Request.WithContext(logger.WithEntity(c.Request.Context(), name))
		c.Next()
	}
}

// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// EntityRouteHandler defines the interface for entity handlers.
// handlers.EntityHandler implements it for every entity type.
type EntityRouteHandler interface {
	EntityName() string
	SupportsArchive() bool

	List(c *gin.Context)
	Query(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Archive(c *gin.Context)
}

// RegisterEntityRoutes registers the standard routes of one entity.
// The archive route exists only for soft-deletable entities.
//
// Usage:
//
//	handler := handlers.NewEntityHandler(baseHandler, skillService)
//	RegisterEntityRoutes(api.Group("/skill"), handler)
func RegisterEntityRoutes(group *gin.RouterGroup, handler EntityRouteHandler) {
	group.GET("", handler.List)
	group.POST("/query", handler.Query)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PATCH("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)

	if handler.SupportsArchive() {
		group.POST("/:id/archive", handler.Archive)
	}
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"talentboard/internal/core/apperror"
	"talentboard/internal/domain/filter"
	"talentboard/internal/infrastructure/http/v1/dto"
)

// MetadataHandler describes the filterable surface of every entity.
type MetadataHandler struct {
	*BaseHandler
	registry   *filter.Registry
	softDelete map[string]bool
}

// NewMetadataHandler creates a handler over registry. softDelete names the
// entities that can be archived.
func NewMetadataHandler(base *BaseHandler, registry *filter.Registry, softDelete map[string]bool) *MetadataHandler {
	return &MetadataHandler{
		BaseHandler: base,
		registry:    registry,
		softDelete:  softDelete,
	}
}

// ListEntities returns the description of every registered entity.
// GET /api/v1/meta
func (h *MetadataHandler) ListEntities(c *gin.Context) {
	names := h.registry.Entities()
	out := make([]dto.EntityResponse, 0, len(names))
	for _, name := range names {
		out = append(out, dto.FromFilterConfig(h.registry.Get(name), h.softDelete[name]))
	}
	h.OK(c, out)
}

// GetEntity returns the description of one entity.
// GET /api/v1/meta/:name
func (h *MetadataHandler) GetEntity(c *gin.Context) {
	name := c.Param("name")
	cfg, ok := h.registry.Lookup(name)
	if !ok {
		h.Error(c, apperror.NewNotFound("entity", name))
		return
	}
	h.OK(c, dto.FromFilterConfig(cfg, h.softDelete[name]))
}

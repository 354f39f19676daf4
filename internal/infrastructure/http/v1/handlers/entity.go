package handlers

import (
	"github.com/gin-gonic/gin"

	"talentboard/internal/core/id"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
	"talentboard/internal/infrastructure/http/v1/dto"
)

// EntityHandler provides the HTTP handlers of one entity.
// Entities are serialized as-is; their json tags are the API shape.
type EntityHandler[T any] struct {
	*BaseHandler
	service *domain.Service[T, id.ID]
}

// NewEntityHandler creates a handler over service.
func NewEntityHandler[T any](base *BaseHandler, service *domain.Service[T, id.ID]) *EntityHandler[T] {
	return &EntityHandler[T]{
		BaseHandler: base,
		service:     service,
	}
}

// EntityName returns the entity served by the handler.
func (h *EntityHandler[T]) EntityName() string {
	return h.service.EntityName()
}

// SupportsArchive reports whether the entity can be soft-deleted.
func (h *EntityHandler[T]) SupportsArchive() bool {
	return h.service.SupportsSoftDelete()
}

// List handles GET /{entity}.
func (h *EntityHandler[T]) List(c *gin.Context) {
	var params dto.ListParams
	if !h.BindQuery(c, &params) {
		return
	}
	req, err := params.ToQueryRequest()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.list(c, req)
}

// Query handles POST /{entity}/query with a QueryRequest body.
func (h *EntityHandler[T]) Query(c *gin.Context) {
	var body dto.QueryBody
	if !h.DecodeJSON(c, &body) {
		return
	}
	req, err := body.ToQueryRequest()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.list(c, req)
}

func (h *EntityHandler[T]) list(c *gin.Context, req filter.QueryRequest) {
	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get handles GET /{entity}/:id.
func (h *EntityHandler[T]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Create handles POST /{entity}.
func (h *EntityHandler[T]) Create(c *gin.Context) {
	var req T
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PATCH /{entity}/:id with a field -> value body.
func (h *EntityHandler[T]) Update(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var patch domain.Patch
	if !h.DecodeJSON(c, &patch) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), entityID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /{entity}/:id (physical removal).
func (h *EntityHandler[T]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Archive handles POST /{entity}/:id/archive (soft delete).
func (h *EntityHandler[T]) Archive(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

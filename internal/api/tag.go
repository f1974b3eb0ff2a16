package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/recipe-api/internal/service"
	"github.com/plateful/recipe-api/internal/types"
)

// TagHandler serves the caller's tag collection.
type TagHandler struct {
	tags *service.TagService
}

func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// List handles GET /tags, with the assigned_only filter.
func (h *TagHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tags, err := h.tags.List(c.Request.Context(), userID, truthyQuery(c, "assigned_only"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]entityResponse, len(tags))
	for i, t := range tags {
		items[i] = entityResponse{ID: t.ID, Name: t.Name}
	}
	c.JSON(http.StatusOK, items)
}

// Rename handles PATCH /tags/:id.
func (h *TagHandler) Rename(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := entityID(c)
	if !ok {
		return
	}

	var req types.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	tag, err := h.tags.Rename(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entityResponse{ID: tag.ID, Name: tag.Name})
}

// Delete handles DELETE /tags/:id.
func (h *TagHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := entityID(c)
	if !ok {
		return
	}

	if err := h.tags.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func entityID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

// truthyQuery reports whether a query flag was supplied with a truthy
// value; "0", "false" and absence all mean off.
func truthyQuery(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "", "0", "false", "False":
		return false
	default:
		return true
	}
}

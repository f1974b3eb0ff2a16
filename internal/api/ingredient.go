package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/recipe-api/internal/service"
	"github.com/plateful/recipe-api/internal/types"
)

// IngredientHandler serves the caller's ingredient collection.
type IngredientHandler struct {
	ingredients *service.IngredientService
}

func NewIngredientHandler(ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

// List handles GET /ingredients, with the assigned_only filter.
func (h *IngredientHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ingredients, err := h.ingredients.List(c.Request.Context(), userID, truthyQuery(c, "assigned_only"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]entityResponse, len(ingredients))
	for i, in := range ingredients {
		items[i] = entityResponse{ID: in.ID, Name: in.Name}
	}
	c.JSON(http.StatusOK, items)
}

// Rename handles PATCH /ingredients/:id.
func (h *IngredientHandler) Rename(c *gin.Context) {
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

	ingredient, err := h.ingredients.Rename(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entityResponse{ID: ingredient.ID, Name: ingredient.Name})
}

// Delete handles DELETE /ingredients/:id.
func (h *IngredientHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := entityID(c)
	if !ok {
		return
	}

	if err := h.ingredients.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

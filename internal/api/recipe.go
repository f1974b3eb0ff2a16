package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/recipe-api/internal/service"
	"github.com/plateful/recipe-api/internal/types"
)

// RecipeHandler serves recipe CRUD plus the image attachment endpoint.
type RecipeHandler struct {
	recipes *service.RecipeService
	images  *service.ImageService
}

func NewRecipeHandler(recipes *service.RecipeService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images}
}

// List handles GET /recipes with optional tags= and ingredients= filters.
func (h *RecipeHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filters := service.RecipeFilters{
		TagIDs:        parseIDList(c.Query("tags")),
		IngredientIDs: parseIDList(c.Query("ingredients")),
	}

	recipes, err := h.recipes.List(c.Request.Context(), userID, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]recipeListItem, len(recipes))
	for i := range recipes {
		items[i] = newRecipeListItem(&recipes[i])
	}
	c.JSON(http.StatusOK, items)
}

// Create handles POST /recipes.
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeDetail(recipe))
}

// Get handles GET /recipes/:id.
func (h *RecipeHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetail(recipe))
}

// Replace handles PUT /recipes/:id. All scalar fields are required and
// omitted nested lists clear the relations.
func (h *RecipeHandler) Replace(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	update := types.UpdateRecipeRequest{
		Title:       &req.Title,
		Description: &req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        &req.Link,
		Tags:        &req.Tags,
		Ingredients: &req.Ingredients,
	}
	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, &update, false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetail(recipe))
}

// Patch handles PATCH /recipes/:id. Only supplied fields change; omitted
// nested lists leave the relations untouched.
func (h *RecipeHandler) Patch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, &req, true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetail(recipe))
}

// Delete handles DELETE /recipes/:id.
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Delete(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if h.images != nil {
		h.images.Release(c.Request.Context(), recipe.ImageKey)
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /recipes/:id/image with a multipart "image"
// part.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"image": "this field is required"}})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	recipe, err := h.images.UploadRecipeImage(c.Request.Context(), userID, id, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": recipe.ID, "image_url": recipe.ImageURL})
}

// recipeID parses the :id path parameter. A malformed id cannot name any
// record, so it gets the same not-found response as a foreign-owned one.
func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

// parseIDList splits a comma-separated id list, dropping malformed entries
// rather than erroring.
func parseIDList(raw string) []uuid.UUID {
	if raw == "" {
		return nil
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

package api

import (
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/service"
)

func init() {
	// Report validation failures under the JSON field names clients sent,
	// not the Go struct field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type entityResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// recipeListItem is the reduced projection used for listings: no
// description, which can be arbitrarily large.
type recipeListItem struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	TimeMinutes int              `json:"time_minutes"`
	Price       float64          `json:"price"`
	Link        string           `json:"link"`
	ImageURL    string           `json:"image_url"`
	Tags        []entityResponse `json:"tags"`
	Ingredients []entityResponse `json:"ingredients"`
}

// recipeDetail is the full projection used for detail, create and update
// responses.
type recipeDetail struct {
	recipeListItem
	Description string `json:"description"`
}

func newRecipeListItem(r *models.Recipe) recipeListItem {
	tags := make([]entityResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = entityResponse{ID: t.ID, Name: t.Name}
	}
	ingredients := make([]entityResponse, len(r.Ingredients))
	for i, in := range r.Ingredients {
		ingredients[i] = entityResponse{ID: in.ID, Name: in.Name}
	}
	return recipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		ImageURL:    r.ImageURL,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func newRecipeDetail(r *models.Recipe) recipeDetail {
	return recipeDetail{
		recipeListItem: newRecipeListItem(r),
		Description:    r.Description,
	}
}

// currentUserID pulls the authenticated principal set by AuthMiddleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

// respondBindingError turns a request binding failure into a field-keyed
// 400 response.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "invalid value"
	}
}

// respondServiceError maps service errors onto the HTTP taxonomy. Not-found
// and not-owned are deliberately the same response.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": err.Error()}})
	case errors.Is(err, service.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"password": err.Error()}})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"non_field_errors": "unable to authenticate with provided credentials"}})
	case errors.Is(err, service.ErrEmptyName), errors.Is(err, service.ErrNameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"name": err.Error()}})
	case errors.Is(err, service.ErrNotAnImage):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"image": err.Error()}})
	default:
		log.Printf("[api] unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

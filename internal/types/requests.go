package types

// EntityInput is a bare name-only descriptor for a tag or ingredient
// submitted inline with a recipe write. The resolver maps it to an existing
// row owned by the caller, or creates one.
type EntityInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateRecipeRequest is the body for POST /recipes and PUT /recipes/:id.
// All scalar fields are required; omitted tag/ingredient lists mean "no
// relations" and clear any existing ones on a full replace.
type CreateRecipeRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	TimeMinutes *int          `json:"time_minutes" binding:"required,gte=0"`
	Price       *float64      `json:"price" binding:"required,gte=0"`
	Link        string        `json:"link"`
	Tags        []EntityInput `json:"tags"`
	Ingredients []EntityInput `json:"ingredients"`
}

// UpdateRecipeRequest is the body for PATCH /recipes/:id. Nil fields are
// left untouched, including the nested lists: a nil list keeps the current
// relations, an empty list detaches everything.
type UpdateRecipeRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	TimeMinutes *int           `json:"time_minutes" binding:"omitempty,gte=0"`
	Price       *float64       `json:"price" binding:"omitempty,gte=0"`
	Link        *string        `json:"link"`
	Tags        *[]EntityInput `json:"tags"`
	Ingredients *[]EntityInput `json:"ingredients"`
}

// RegisterRequest is the body for POST /user/create.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// TokenRequest is the body for POST /user/token.
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is the body for PATCH /user/me. Email is immutable.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// RenameRequest is the body for PATCH /tags/:id.
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

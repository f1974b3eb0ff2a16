package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/types"
)

// RecipeFilters restricts a recipe listing. ID sets use OR semantics: a
// recipe matches when any of its relations is in the set.
type RecipeFilters struct {
	TagIDs        []uuid.UUID
	IngredientIDs []uuid.UUID
}

// RecipeService handles recipe CRUD with the owner predicate applied before
// anything else, plus nested tag/ingredient resolution on writes.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create persists a recipe owned by userID. Any owner information in the
// payload is ignored; nested descriptors resolve inside the same
// transaction as the insert so a failed resolution rolls everything back.
func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Link:        req.Link,
		UserID:      userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, userID, req.Tags)
		if err != nil {
			return err
		}
		ingredients, err := resolveIngredients(tx, userID, req.Ingredients)
		if err != nil {
			return err
		}
		recipe.Tags = tags
		recipe.Ingredients = ingredients
		return tx.Create(&recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, recipe.ID)
}

// Get fetches one of the caller's recipes with relations preloaded. A
// recipe owned by someone else is indistinguishable from a missing one.
func (s *RecipeService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", userID).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns the caller's recipes, newest first. Filtered listings stay
// distinct even when a recipe matches several ids in the set.
func (s *RecipeService) List(ctx context.Context, userID uuid.UUID, filters RecipeFilters) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Preload("Tags").
		Preload("Ingredients").
		Where("recipes.user_id = ?", userID)

	if len(filters.TagIDs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filters.TagIDs)
	}
	if len(filters.IngredientIDs) > 0 {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filters.IngredientIDs)
	}

	var recipes []models.Recipe
	err := query.
		Distinct("recipes.*").
		Order("recipes.created_at DESC, recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Update applies a write to one of the caller's recipes. With partial set,
// nil fields are untouched and a nil nested list keeps current relations;
// otherwise the write is a full replace and omitted lists clear relations.
// The owner never changes. Field update and relation replacement share one
// transaction.
func (s *RecipeService) Update(ctx context.Context, userID, id uuid.UUID, req *types.UpdateRecipeRequest, partial bool) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", userID).First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		} else if !partial {
			updates["description"] = ""
		}
		if req.TimeMinutes != nil {
			updates["time_minutes"] = *req.TimeMinutes
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}
		if req.Link != nil {
			updates["link"] = *req.Link
		} else if !partial {
			updates["link"] = ""
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Tags != nil || !partial {
			var inputs []types.EntityInput
			if req.Tags != nil {
				inputs = *req.Tags
			}
			tags, err := resolveTags(tx, userID, inputs)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(toTagPtrs(tags)...); err != nil {
				return err
			}
		}
		if req.Ingredients != nil || !partial {
			var inputs []types.EntityInput
			if req.Ingredients != nil {
				inputs = *req.Ingredients
			}
			ingredients, err := resolveIngredients(tx, userID, inputs)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Ingredients").Replace(toIngredientPtrs(ingredients)...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Delete hard-deletes one of the caller's recipes. Join-table rows go with
// it; the tag and ingredient rows themselves stay. The removed recipe is
// returned so the caller can release its image blob.
func (s *RecipeService) Delete(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// resolveTags maps descriptors to persisted tags owned by userID, creating
// missing ones. Duplicate descriptors collapse to a single membership. The
// create goes through ON CONFLICT DO NOTHING so losing a race against a
// concurrent request degrades to a lookup of the winner's row instead of
// aborting the surrounding transaction.
func resolveTags(tx *gorm.DB, userID uuid.UUID, inputs []types.EntityInput) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var tag models.Tag
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created := models.Tag{Name: name, UserID: userID}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&created)
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected == 0 {
				err = tx.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
			} else {
				tag, err = created, nil
			}
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func resolveIngredients(tx *gorm.DB, userID uuid.UUID, inputs []types.EntityInput) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var ingredient models.Ingredient
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&ingredient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created := models.Ingredient{Name: name, UserID: userID}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&created)
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected == 0 {
				err = tx.Where("user_id = ? AND name = ?", userID, name).First(&ingredient).Error
			} else {
				ingredient, err = created, nil
			}
		}
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// Association Replace wants individual pointers, not a slice value.
func toTagPtrs(tags []models.Tag) []interface{} {
	out := make([]interface{}, len(tags))
	for i := range tags {
		out[i] = &tags[i]
	}
	return out
}

func toIngredientPtrs(ingredients []models.Ingredient) []interface{} {
	out := make([]interface{}, len(ingredients))
	for i := range ingredients {
		out[i] = &ingredients[i]
	}
	return out
}

package database

import (
	"gorm.io/gorm"

	"github.com/plateful/recipe-api/internal/models"
)

// Migrate creates or updates the schema for every model, including the
// per-owner unique indexes on tags and ingredients and the many2many join
// tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	)
}

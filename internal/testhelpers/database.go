package testhelpers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plateful/recipe-api/internal/database"
)

// SetupTestDatabase opens a throwaway sqlite database with the full schema
// applied. TranslateError mirrors the production connection so uniqueness
// violations come back as gorm.ErrDuplicatedKey in tests too.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

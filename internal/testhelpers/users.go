package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/plateful/recipe-api/internal/models"
)

// CreateUser inserts a user with the given email and the password
// "testpass123".
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("testpass123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         "Test User",
		Email:        models.NormalizeEmail(email),
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

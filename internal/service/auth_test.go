package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/service"
	"github.com/plateful/recipe-api/internal/testhelpers"
	"github.com/plateful/recipe-api/internal/types"
)

func TestRegister(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "Test User", "test@EXAMPLE.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "test@example.com", user.Email, "domain part should be lowercased")
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, user.IsActive)
}

func TestRegisterKeepsLocalPartCase(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "Test User", "John.Doe@EXAMPLE.COM", "password123")
	require.NoError(t, err)
	assert.Equal(t, "John.Doe@example.com", user.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "dup@example.com", "password123")
	require.NoError(t, err)

	// Same account under the domain-insensitive convention.
	_, err = svc.Register(ctx, "Second", "dup@EXAMPLE.com", "password456")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterShortPasswordLeavesNoRow(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "Test User", "short@example.com", "pw")
	assert.ErrorIs(t, err, service.ErrPasswordTooShort)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "short@example.com").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Test User", "login@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.Login(ctx, "login@EXAMPLE.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login(ctx, "login@example.com", "wrongpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "Test User", "inactive@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err = svc.Login(ctx, "inactive@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "Test User", "token@example.com", "password123")
	require.NoError(t, err)

	token, err := svc.GenerateToken(user.ID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	issuer := service.NewAuthService(db, "secret-a")
	verifier := service.NewAuthService(db, "secret-b")
	ctx := context.Background()

	user, err := issuer.Register(ctx, "Test User", "cross@example.com", "password123")
	require.NoError(t, err)
	token, err := issuer.GenerateToken(user.ID)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestUpdateUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "Old Name", "update@example.com", "password123")
	require.NoError(t, err)

	newName := "New Name"
	newPassword := "newpassword456"
	updated, err := svc.UpdateUser(ctx, user.ID, &types.UpdateUserRequest{
		Name:     &newName,
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "update@example.com", updated.Email, "email must not change")

	_, err = svc.Login(ctx, "update@example.com", "newpassword456")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "update@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestUpdateUserShortPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "Test User", "shortpw@example.com", "password123")
	require.NoError(t, err)

	bad := "pw"
	_, err = svc.UpdateUser(ctx, user.ID, &types.UpdateUserRequest{Password: &bad})
	assert.ErrorIs(t, err, service.ErrPasswordTooShort)

	_, err = svc.Login(ctx, "shortpw@example.com", "password123")
	assert.NoError(t, err, "old password must still work")
}

package service

import "errors"

var (
	// ErrNotFound covers both records that do not exist and records owned
	// by another user. Handlers must return the same response for both.
	ErrNotFound = errors.New("record not found")

	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")

	// ErrEmptyName is returned when a nested tag/ingredient descriptor or a
	// rename carries an empty or whitespace-only name.
	ErrEmptyName = errors.New("name must not be empty")
	ErrNameTaken = errors.New("a record with this name already exists")

	ErrNotAnImage = errors.New("payload is not a recognized image format")
)

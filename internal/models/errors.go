package models

import "errors"

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is authenticated but not allowed to access a record
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when an operation requires an authenticated caller
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials is returned when a login fails
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserExists is returned when a username or email is already taken
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidInput is returned for malformed request values
	ErrInvalidInput = errors.New("invalid input")
)

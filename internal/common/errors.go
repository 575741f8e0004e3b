// Package common defines shared constants and sentinel errors used across
// the account service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (missing or malformed input).
	ErrorValidation   = errors.New("validation error")
	ErrorInvalidEmail = errors.New("invalid email")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

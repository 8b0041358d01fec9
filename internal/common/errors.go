// Package common defines shared constants and sentinel errors used across
// client and server layers of the todo API. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Input validation errors. Wrap with field detail where available.
	ErrValidation = errors.New("validation error")

	// Login throttle errors.
	ErrRateLimited = errors.New("too many attempts")
)

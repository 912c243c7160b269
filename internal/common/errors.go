// Package common defines shared constants and sentinel errors used across
// the taskkeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound   = errors.New("not found")
	ErrorConstraint = errors.New("constraint violation")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid username or password")
	ErrorConflict     = errors.New("conflict")
	ErrorValidation   = errors.New("validation error")

	// Credential hashing failures (bad cost, malformed stored hash).
	ErrHashing = errors.New("hashing error")

	// Auth errors.
	ErrMissingCredential = errors.New("missing token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
)

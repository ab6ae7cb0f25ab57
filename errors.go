package privmedia

import "errors"

var (
	// ErrNotFound is returned when a file does not exist, or when read access is
	// denied in production mode.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when read access is denied in debug mode.
	ErrForbidden = errors.New("forbidden")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when a credential fails verification
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidConfig is returned when a checker or server cannot be built from configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

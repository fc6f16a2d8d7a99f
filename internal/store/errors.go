package store

import "errors"

var (
	// ErrEmailConflict is returned when an email address is already registered
	ErrEmailConflict = errors.New("email address already registered")

	// ErrRoleNotFound is returned when a named role does not exist
	ErrRoleNotFound = errors.New("role not found")
)

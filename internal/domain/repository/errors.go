package repository

import "errors"

var (
	// ErrNotFound is returned when a row is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert hits the email uniqueness constraint.
	ErrDuplicateEmail = errors.New("duplicate email")
)

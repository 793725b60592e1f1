// Package repository holds the errors shared by storage backends.
package repository

import "errors"

var (
	// ErrNotFound is returned when a project is missing from the backend.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a project ID is already taken.
	ErrConflict = errors.New("conflict: project already exists")
)

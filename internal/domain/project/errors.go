package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidProject indicates the resolved project ID matches no live project.
	ErrInvalidProject = errors.New("invalid project")
	// ErrNameCollision indicates no free filename could be generated.
	ErrNameCollision = errors.New("could not generate a free filename")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
)

// Package apierror maps domain errors to the codes shared by the HTTP and
// MCP surfaces.
package apierror

import (
	"errors"
	"fmt"

	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/gateway/speech"
	"github.com/rpggio/v2c/internal/voice"
)

// Error codes.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidProject      = "INVALID_PROJECT"
	CodeInvalidVersion      = "INVALID_VERSION"
	CodeNameCollision       = "NAME_COLLISION"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnintelligibleAudio = "UNINTELLIGIBLE_AUDIO"
	CodeRecognitionFailed   = "RECOGNITION_FAILED"
	CodeUnknownCommand      = "UNKNOWN_COMMAND"
	CodeUnsupported         = "UNSUPPORTED_LANGUAGE"
	CodeInternal            = "INTERNAL"
)

// APIError is the client-facing form of an error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Map converts err to an APIError. Unrecognised errors become INTERNAL and
// keep their message.
func Map(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var recErr *speech.RecognitionError
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: CodeNotFound, Message: "Project not found", RecoveryHint: "List projects to find a valid ID"}
	case errors.Is(err, project.ErrInvalidProject):
		return &APIError{Code: CodeInvalidProject, Message: "Invalid project", RecoveryHint: "Create a project first"}
	case errors.Is(err, project.ErrNameCollision):
		return &APIError{Code: CodeNameCollision, Message: "Could not generate a free filename", RecoveryHint: "Pass an explicit filename"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, history.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, history.ErrHistoryNotFound):
		return &APIError{Code: CodeNotFound, Message: "No history found", RecoveryHint: "Add a file before rolling back"}
	case errors.Is(err, history.ErrInvalidVersion):
		return &APIError{Code: CodeInvalidVersion, Message: "Invalid version", RecoveryHint: "Use an index from get_history"}
	case errors.Is(err, speech.ErrUnintelligible):
		return &APIError{Code: CodeUnintelligibleAudio, Message: speech.ErrUnintelligible.Error()}
	case errors.As(err, &recErr):
		return &APIError{Code: CodeRecognitionFailed, Message: recErr.Error()}
	case errors.Is(err, voice.ErrUnknownCommand):
		return &APIError{Code: CodeUnknownCommand, Message: "Unknown command"}
	default:
		return &APIError{Code: CodeInternal, Message: err.Error()}
	}
}

// InvalidInput builds an INVALID_INPUT error with message.
func InvalidInput(message string) *APIError {
	return &APIError{Code: CodeInvalidInput, Message: message}
}

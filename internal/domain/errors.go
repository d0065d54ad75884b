package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoActiveSession  = errors.New("no active session")
	ErrImageRequired    = errors.New("image required")
	ErrTurnInProgress   = errors.New("turn in progress")
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrIdentityNotFound = errors.New("identity not found")
)

// BackendError is a non-2xx answer from the inference backend.
type BackendError struct {
	StatusCode int
	Summary    string
}

func (e *BackendError) Error() string {
	if e.Summary == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Summary)
}

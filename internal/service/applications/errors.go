package applications

import "errors"

var (
	// ErrApplicationNotFound is returned when the application does not exist
	ErrApplicationNotFound = errors.New("application not found")

	// ErrAccessDenied is returned when the session does not own the application
	ErrAccessDenied = errors.New("access denied")

	// ErrNotDraft is returned when a draft-only operation hits a finalized application
	ErrNotDraft = errors.New("application is not a draft")

	// ErrInvalidInput is returned on malformed input data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected repository failures
	ErrInternal = errors.New("applications.service: internal error")
)

package get_freetime

import "errors"

var (
	// ErrResourceNotFound is returned when the resource does not exist
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned on malformed request parameters
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected repository failures
	ErrInternal = errors.New("get_freetime: internal error")
)

package check_availability

import "errors"

var (
	// ErrInvalidInput is returned on malformed request parameters
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected repository failures
	ErrInternal = errors.New("check_availability: internal error")
)

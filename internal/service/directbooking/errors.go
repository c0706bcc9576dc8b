package directbooking

import "errors"

var (
	// ErrInternal is returned on unexpected repository failures
	ErrInternal = errors.New("directbooking.service: internal error")
)

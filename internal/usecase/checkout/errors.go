package checkout

import (
	"errors"
	"fmt"

	"github.com/friplass/booking-api/internal/domain"
)

var (
	// ErrSessionRequired is returned when the request carries no session id
	ErrSessionRequired = errors.New("session id is required")

	// ErrNoPartials is returned when the session holds no drafts to check out
	ErrNoPartials = errors.New("no partial applications to check out")

	// ErrInternal is returned on unexpected downstream failures
	ErrInternal = errors.New("checkout: internal error")
)

// ValidationError carries the structured issues of a rejected checkout form
type ValidationError struct {
	Issues []domain.ValidationIssue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: validation failed with %d issue(s)", len(e.Issues))
}

// AsValidationError unwraps err into a *ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

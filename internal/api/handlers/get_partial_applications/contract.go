package get_partial_applications

import (
	"context"

	"github.com/friplass/booking-api/internal/domain"
)

type ApplicationsService interface {
	GetPartials(ctx context.Context, sessionID string) ([]*domain.Application, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

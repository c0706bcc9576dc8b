package get_application

import (
	"context"

	"github.com/friplass/booking-api/internal/domain"
)

type ApplicationsService interface {
	GetByID(ctx context.Context, id int64, sessionID string) (*domain.Application, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package create_partial_application

import (
	"context"

	"github.com/friplass/booking-api/internal/domain"
)

type ApplicationsService interface {
	CreatePartial(ctx context.Context, app *domain.Application) (*domain.Application, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

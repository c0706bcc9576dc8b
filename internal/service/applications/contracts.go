package applications

import (
	"context"

	"github.com/friplass/booking-api/internal/domain"
)

// ApplicationRepository is the application storage surface the service needs
type ApplicationRepository interface {
	GetPartialsBySession(ctx context.Context, sessionID string) ([]*domain.Application, error)
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	CreatePartial(ctx context.Context, app *domain.Application) (*domain.Application, error)
	DeletePartial(ctx context.Context, id int64) error
}

// DirectBookingEvaluator decides eligibility for immediate confirmation
type DirectBookingEvaluator interface {
	IsEligible(ctx context.Context, app *domain.Application, ssn string) (bool, error)
	HasCollision(ctx context.Context, app *domain.Application) (bool, error)
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package checkout

import (
	"context"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/internal/service/directbooking"
)

// ApplicationRepository is the application storage surface checkout needs
type ApplicationRepository interface {
	GetPartialsBySession(ctx context.Context, sessionID string) ([]*domain.Application, error)
	Finalize(ctx context.Context, id int64, stamp domain.FinalizationStamp) error
}

// ScheduleRepository writes the schedule entities direct booking produces
type ScheduleRepository interface {
	CreateEventFromApplication(ctx context.Context, app *domain.Application, date domain.ApplicationDate) (int64, error)
	AttachPurchaseOrdersToEvent(ctx context.Context, applicationID, eventID int64) error
}

// DirectBookingEvaluator decides eligibility and collisions for a draft
type DirectBookingEvaluator interface {
	IsEligible(ctx context.Context, app *domain.Application, ssn string) (bool, error)
	HasCollision(ctx context.Context, app *domain.Application) (bool, error)
	BookingLimits(ctx context.Context, app *domain.Application, ssn string) ([]directbooking.BookingLimitInfo, error)
}

// TransactionManager runs the checkout under a serializable transaction
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier enqueues checkout outcome notifications; must never block
type Notifier interface {
	Publish(event NotificationEvent)
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

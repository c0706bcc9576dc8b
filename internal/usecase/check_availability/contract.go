package check_availability

import (
	"context"
	"time"

	"github.com/friplass/booking-api/internal/domain"
)

// ResourceRepository loads simple-booking resources
type ResourceRepository interface {
	GetSimpleBookingResource(ctx context.Context, id int64) (*domain.Resource, error)
}

// ScheduleRepository reads the calendar occupants and session holds
type ScheduleRepository interface {
	GetScheduledItems(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.ScheduledItem, error)
	BlockExists(ctx context.Context, sessionID string, resourceID int64, from, to time.Time) (bool, error)
}

// ApplicationRepository counts bookings for the rolling limit
type ApplicationRepository interface {
	CountBySSNAndResource(ctx context.Context, resourceID int64, ssn string, horizonDays int) (int, error)
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider supplies the current time; swapped out in tests
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider is the production time source
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

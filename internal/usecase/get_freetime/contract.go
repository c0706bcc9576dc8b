package get_freetime

import (
	"context"
	"time"

	"github.com/friplass/booking-api/internal/domain"
)

// ResourceRepository reads resource configuration
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetSimpleBookingResourcesForBuilding(ctx context.Context, buildingID int64) ([]*domain.Resource, error)
}

// ScheduleRepository reads the calendar occupants of resources
type ScheduleRepository interface {
	GetScheduledItems(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.ScheduledItem, error)
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

package directbooking

import (
	"context"
	"time"

	"github.com/friplass/booking-api/internal/domain"
)

// ApplicationRepository is the slice of application storage the evaluator needs
type ApplicationRepository interface {
	CountBySSNAndResource(ctx context.Context, resourceID int64, ssn string, horizonDays int) (int, error)
	CheckCollision(ctx context.Context, resourceIDs []int64, from, to time.Time, excludeSessionID string) (bool, error)
}

// ResourceRepository loads resources attached to an application
type ResourceRepository interface {
	GetByApplicationID(ctx context.Context, applicationID int64) ([]*domain.Resource, error)
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

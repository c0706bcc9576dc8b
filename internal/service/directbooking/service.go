package directbooking

import (
	"context"
	"fmt"
	"time"

	"github.com/friplass/booking-api/internal/domain"
)

// Evaluator decides whether an application qualifies for immediate
// confirmation and whether its requested dates collide with the calendar.
//
// Eligibility is a conjunction over the application's resources: every
// resource must have direct booking active right now, and where a resource
// carries a rolling booking limit the customer must still be under it.
// An application with no resources is trivially eligible.
type Evaluator struct {
	appRepo      ApplicationRepository
	resourceRepo ResourceRepository
	logger       Logger
	timeProvider TimeProvider
}

// NewEvaluator creates the direct-booking evaluator.
func NewEvaluator(appRepo ApplicationRepository, resourceRepo ResourceRepository, logger Logger) *Evaluator {
	return &Evaluator{
		appRepo:      appRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider swaps the time source. Used by tests.
func (e *Evaluator) WithTimeProvider(tp TimeProvider) *Evaluator {
	e.timeProvider = tp
	return e
}

// IsEligible reports whether the application may be direct-booked for the
// given customer SSN. The SSN feeds the rolling booking-limit count; it may
// be empty when no resource carries a limit.
func (e *Evaluator) IsEligible(ctx context.Context, app *domain.Application, ssn string) (bool, error) {
	resources, err := e.resourceRepo.GetByApplicationID(ctx, app.ID)
	if err != nil {
		e.logger.Error("IsEligible: failed to load resources for application=%d: %v", app.ID, err)
		return false, fmt.Errorf("%w: IsEligible - load resources: %v", ErrInternal, err)
	}

	now := e.timeProvider.Now()
	for _, res := range resources {
		if !res.DirectBookingEnabled(now) {
			e.logger.Info("IsEligible: application=%d resource=%d has direct booking disabled", app.ID, res.ID)
			return false, nil
		}

		underLimit, err := e.underBookingLimit(ctx, res, ssn)
		if err != nil {
			return false, err
		}
		if !underLimit {
			e.logger.Info("IsEligible: application=%d resource=%d booking limit reached for customer", app.ID, res.ID)
			return false, nil
		}
	}

	return true, nil
}

// BookingLimitInfo describes the rolling cap state for one resource.
type BookingLimitInfo struct {
	ResourceID  int64
	Limit       int
	HorizonDays int
	Used        int
}

// Remaining returns how many bookings the customer has left under the cap.
func (i BookingLimitInfo) Remaining() int {
	if left := i.Limit - i.Used; left > 0 {
		return left
	}
	return 0
}

// BookingLimits returns the cap state for each limited resource of the
// application. Resources without a limit are omitted.
func (e *Evaluator) BookingLimits(ctx context.Context, app *domain.Application, ssn string) ([]BookingLimitInfo, error) {
	resources, err := e.resourceRepo.GetByApplicationID(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: BookingLimits - load resources: %v", ErrInternal, err)
	}

	infos := make([]BookingLimitInfo, 0)
	for _, res := range resources {
		if !res.HasBookingLimit() {
			continue
		}
		used := 0
		if ssn != "" {
			used, err = e.appRepo.CountBySSNAndResource(ctx, res.ID, ssn, res.BookingLimitHorizonDays)
			if err != nil {
				return nil, fmt.Errorf("%w: BookingLimits - count bookings for resource=%d: %v", ErrInternal, res.ID, err)
			}
		}
		infos = append(infos, BookingLimitInfo{
			ResourceID:  res.ID,
			Limit:       res.BookingLimitNumber,
			HorizonDays: res.BookingLimitHorizonDays,
			Used:        used,
		})
	}
	return infos, nil
}

// HasCollision reports whether any requested date of the application
// collides, boundary-inclusive, with a calendar occupant on any of its
// resources. The application's own session holds are excluded.
func (e *Evaluator) HasCollision(ctx context.Context, app *domain.Application) (bool, error) {
	sessionID := ""
	if app.SessionID != nil {
		sessionID = *app.SessionID
	}

	for _, date := range app.Dates {
		collides, err := e.checkDateCollision(ctx, app.ResourceIDs, date.From, date.To, sessionID)
		if err != nil {
			e.logger.Error("HasCollision: application=%d collision check failed: %v", app.ID, err)
			return false, err
		}
		if collides {
			e.logger.Info("HasCollision: application=%d collides on [%s, %s]",
				app.ID, date.From.Format(domain.DateTimeFormat), date.To.Format(domain.DateTimeFormat))
			return true, nil
		}
	}
	return false, nil
}

func (e *Evaluator) underBookingLimit(ctx context.Context, res *domain.Resource, ssn string) (bool, error) {
	// The limit counts per customer SSN; an unidentified customer has
	// nothing to count against.
	if !res.HasBookingLimit() || ssn == "" {
		return true, nil
	}

	used, err := e.appRepo.CountBySSNAndResource(ctx, res.ID, ssn, res.BookingLimitHorizonDays)
	if err != nil {
		e.logger.Error("underBookingLimit: count failed for resource=%d: %v", res.ID, err)
		return false, fmt.Errorf("%w: underBookingLimit - count bookings: %v", ErrInternal, err)
	}
	return used < res.BookingLimitNumber, nil
}

func (e *Evaluator) checkDateCollision(ctx context.Context, resourceIDs []int64, from, to time.Time, sessionID string) (bool, error) {
	collides, err := e.appRepo.CheckCollision(ctx, resourceIDs, from, to, sessionID)
	if err != nil {
		return false, fmt.Errorf("%w: checkDateCollision - repository error: %v", ErrInternal, err)
	}
	return collides, nil
}

package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/friplass/booking-api/internal/domain"
	resourceRepo "github.com/friplass/booking-api/internal/infra/storage/resource"
)

// UseCase answers the pre-booking question for one exact time range: could
// this range be booked right now, and if not, exactly why not. Unlike the
// freetime grid this reports which edge of the range the conflict touches.
type UseCase struct {
	resourceRepo ResourceRepository
	scheduleRepo ScheduleRepository
	appRepo      ApplicationRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the availability use case.
func NewUseCase(
	resourceRepo ResourceRepository,
	scheduleRepo ScheduleRepository,
	appRepo ApplicationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		scheduleRepo: scheduleRepo,
		appRepo:      appRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider swaps the time source. Used by tests.
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute runs the availability check.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: resource=%d, range=%s..%s",
		req.ResourceID, req.From.Format(domain.DateTimeFormat), req.To.Format(domain.DateTimeFormat))

	if req.From.IsZero() || req.To.IsZero() || !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	res, err := uc.resourceRepo.GetSimpleBookingResource(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return &Response{
				Available:             false,
				SupportsSimpleBooking: false,
				Message:               "Resource does not support simple booking",
			}, nil
		}
		uc.logger.Error("CheckAvailability: failed to load resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: Execute - load resource: %v", ErrInternal, err)
	}

	// The session's own hold on this exact range does not block it; the
	// hold exists precisely so the session can finish this booking.
	if req.SessionID != "" {
		held, err := uc.scheduleRepo.BlockExists(ctx, req.SessionID, res.ID, req.From, req.To)
		if err != nil {
			uc.logger.Error("CheckAvailability: block lookup failed for resource=%d: %v", res.ID, err)
			return nil, fmt.Errorf("%w: Execute - block lookup: %v", ErrInternal, err)
		}
		if held {
			return uc.availableResponse(ctx, req, res)
		}
	}

	if !req.From.After(uc.timeProvider.Now()) {
		return &Response{
			Available:             false,
			SupportsSimpleBooking: true,
			Message:               "Booking time is in the past",
			OverlapReason:         ReasonTimeInPast,
			OverlapType:           OverlapTypeDisabled,
		}, nil
	}

	items, err := uc.scheduleRepo.GetScheduledItems(ctx, []int64{res.ID}, req.From, req.To)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to load schedule for resource=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: Execute - load schedule: %v", ErrInternal, err)
	}

	for i := range items {
		item := &items[i]
		if !item.OccupiesResource(res.ID) {
			continue
		}
		// Another session's hold blocks; our own never does.
		if item.Type == domain.ItemBlock && item.Status == req.SessionID {
			continue
		}

		if reason, overlapType := classifyConflict(req.From, req.To, item.From, item.To); reason != "" {
			uc.logger.Info("CheckAvailability: resource=%d blocked by %s=%d (%s)",
				res.ID, item.Type, item.ID, reason)
			return &Response{
				Available:             false,
				SupportsSimpleBooking: true,
				Message:               overlapMessage(reason),
				OverlapReason:         reason,
				OverlapType:           overlapType,
				Occupant:              occupantInfo(item),
			}, nil
		}
	}

	return uc.availableResponse(ctx, req, res)
}

// availableResponse finishes the happy path, adding the booking-limit
// snapshot when the customer is identified and the resource caps bookings.
func (uc *UseCase) availableResponse(ctx context.Context, req *Request, res *domain.Resource) (*Response, error) {
	response := &Response{
		Available:             true,
		SupportsSimpleBooking: true,
		Message:               "Timeslot is available",
	}

	if req.SSN == "" || !res.HasBookingLimit() {
		return response, nil
	}

	used, err := uc.appRepo.CountBySSNAndResource(ctx, res.ID, req.SSN, res.BookingLimitHorizonDays)
	if err != nil {
		uc.logger.Error("CheckAvailability: booking count failed for resource=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: Execute - booking count: %v", ErrInternal, err)
	}

	response.LimitInfo = &LimitInfo{
		CurrentBookings: used,
		MaxAllowed:      res.BookingLimitNumber,
		TimePeriodDays:  res.BookingLimitHorizonDays,
	}

	if used >= res.BookingLimitNumber {
		response.Available = false
		response.Message = fmt.Sprintf("You have reached the maximum allowed bookings (%d) for this resource within %d days",
			res.BookingLimitNumber, res.BookingLimitHorizonDays)
		response.OverlapReason = ReasonBookingLimitExceeded
		response.OverlapType = OverlapTypeDisabled
	}

	return response, nil
}

// classifyConflict names which edge of the requested range the occupant
// touches. Abutment is not a conflict here; this check mirrors the slot-grid
// policy so the two surfaces never disagree about a free slot.
func classifyConflict(from, to, itemFrom, itemTo time.Time) (string, string) {
	switch {
	case !itemFrom.After(from) && !itemTo.Before(to):
		return ReasonCompleteOverlap, OverlapTypeComplete
	case itemFrom.After(from) && itemTo.Before(to):
		return ReasonCompleteContainment, OverlapTypeComplete
	case !itemFrom.After(from) && itemTo.After(from) && itemTo.Before(to):
		return ReasonStartOverlap, OverlapTypePartial
	case itemFrom.After(from) && itemFrom.Before(to) && !itemTo.Before(to):
		return ReasonEndOverlap, OverlapTypePartial
	default:
		return "", ""
	}
}

func overlapMessage(reason string) string {
	switch reason {
	case ReasonTimeInPast:
		return "Booking time is in the past"
	case ReasonCompleteOverlap:
		return "Timeslot is already booked"
	case ReasonCompleteContainment:
		return "Another booking exists within this timeslot"
	case ReasonStartOverlap:
		return "Timeslot overlaps with the start of another booking"
	case ReasonEndOverlap:
		return "Timeslot overlaps with the end of another booking"
	default:
		return "Timeslot is not available"
	}
}

package get_freetime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/friplass/booking-api/internal/domain"
	resourceRepo "github.com/friplass/booking-api/internal/infra/storage/resource"
)

// UseCase computes the classified slot grid of a resource or a whole
// building: every candidate slot together with why it is (or is not)
// bookable right now.
type UseCase struct {
	resourceRepo ResourceRepository
	scheduleRepo ScheduleRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the freetime use case.
func NewUseCase(resourceRepo ResourceRepository, scheduleRepo ScheduleRepository, logger Logger) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		scheduleRepo: scheduleRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider swaps the time source. Used by tests.
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// ForResource computes the slot grid for one resource over [StartDate, EndDate].
func (uc *UseCase) ForResource(ctx context.Context, req *ResourceRequest) (*ResourceResponse, error) {
	uc.logger.Info("GetFreetime: resource=%d, range=%s..%s, detailed=%t",
		req.ResourceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.DetailedOverlap)

	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		uc.logger.Warn("GetFreetime: validation failed: %v", err)
		return nil, err
	}

	res, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetFreetime: resource=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetFreetime: failed to load resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: ForResource - load resource: %v", ErrInternal, err)
	}

	slots, err := uc.slotsForResource(ctx, res, req.StartDate, req.EndDate, req.DetailedOverlap)
	if err != nil {
		return nil, err
	}

	return &ResourceResponse{ResourceID: res.ID, Slots: slots}, nil
}

// ForBuilding computes the slot grid of every simple-booking resource in the
// building. Resources come back in frontend display order; a building without
// such resources yields an empty map.
func (uc *UseCase) ForBuilding(ctx context.Context, req *BuildingRequest) (*BuildingResponse, error) {
	uc.logger.Info("GetFreetime: building=%d, range=%s..%s, detailed=%t",
		req.BuildingID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.DetailedOverlap)

	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		uc.logger.Warn("GetFreetime: validation failed: %v", err)
		return nil, err
	}

	resources, err := uc.resourceRepo.GetSimpleBookingResourcesForBuilding(ctx, req.BuildingID)
	if err != nil {
		uc.logger.Error("GetFreetime: failed to load resources for building=%d: %v", req.BuildingID, err)
		return nil, fmt.Errorf("%w: ForBuilding - load resources: %v", ErrInternal, err)
	}

	response := &BuildingResponse{
		BuildingID: req.BuildingID,
		Resources:  make(map[int64][]FreeSlot, len(resources)),
	}

	for _, res := range resources {
		slots, err := uc.slotsForResource(ctx, res, req.StartDate, req.EndDate, req.DetailedOverlap)
		if err != nil {
			return nil, err
		}
		response.Resources[res.ID] = slots
	}

	return response, nil
}

// slotsForResource generates, classifies, and formats the grid for one
// resource. The schedule query window is widened to whole days plus one day
// past the end so occupants straddling the edges are not missed.
func (uc *UseCase) slotsForResource(ctx context.Context, res *domain.Resource, startDate, endDate time.Time, detailed bool) ([]FreeSlot, error) {
	slotEnd := endOfDay(endDate)

	queryFrom := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	queryTo := slotEnd.AddDate(0, 0, 1)

	items, err := uc.scheduleRepo.GetScheduledItems(ctx, []int64{res.ID}, queryFrom, queryTo)
	if err != nil {
		uc.logger.Error("GetFreetime: failed to load schedule for resource=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: slotsForResource - load schedule: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	maxBookable := maxBookableTime(res, now)

	candidates := generateSlots(res, startDate, slotEnd)
	slots := make([]FreeSlot, 0, len(candidates))
	for _, slot := range candidates {
		slots = append(slots, uc.classifySlot(slot, items, res.ID, now, maxBookable, detailed))
	}
	return slots, nil
}

// classifySlot applies the disposition order: past, then horizon, then the
// first scheduled item that covers or intersects the slot, then free.
func (uc *UseCase) classifySlot(slot domain.Slot, items []domain.ScheduledItem, resourceID int64, now time.Time, maxBookable *time.Time, detailed bool) FreeSlot {
	out := FreeSlot{
		When:  formatWhen(slot.Start, slot.End),
		Start: msEpoch(slot.Start),
		End:   msEpoch(slot.End),
	}
	if detailed {
		out.ResourceID = &resourceID
		out.StartISO = slot.Start.Format(time.RFC3339)
		out.EndISO = slot.End.Format(time.RFC3339)
	}

	setOverlap := func(status int, reason, overlapType string) {
		out.Overlap = &status
		out.OverlapReason = reason
		out.OverlapType = overlapType
	}

	if !slot.Start.After(now) {
		setOverlap(OverlapStatusDisabled, ReasonTimeInPast, OverlapTypeDisabled)
		return out
	}
	if maxBookable != nil && slot.Start.After(*maxBookable) {
		setOverlap(OverlapStatusDisabled, ReasonBeyondHorizon, OverlapTypeDisabled)
		return out
	}

	for i := range items {
		item := &items[i]
		if !item.OccupiesResource(resourceID) {
			continue
		}

		switch domain.ClassifyOverlap(slot, item.From, item.To) {
		case domain.OverlapComplete:
			setOverlap(OverlapStatusComplete, ReasonCompleteOverlap, OverlapTypeComplete)
		case domain.OverlapPartial:
			setOverlap(OverlapStatusPartial, ReasonPartialOverlap, OverlapTypePartial)
		default:
			continue
		}

		if detailed {
			out.Occupant = &OccupantInfo{
				ID:   item.ID,
				Type: string(item.Type),
				From: item.From.Format(domain.DateTimeFormat),
				To:   item.To.Format(domain.DateTimeFormat),
			}
		}
		return out
	}

	return out
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	return nil
}

package get_freetime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friplass/booking-api/internal/domain"
)

type fakeResourceRepo struct {
	byID       map[int64]*domain.Resource
	byBuilding map[int64][]*domain.Resource
}

func (f *fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	if res, ok := f.byID[id]; ok {
		return res, nil
	}
	return nil, errResourceMissing
}

func (f *fakeResourceRepo) GetSimpleBookingResourcesForBuilding(_ context.Context, buildingID int64) ([]*domain.Resource, error) {
	return f.byBuilding[buildingID], nil
}

type fakeScheduleRepo struct {
	items []domain.ScheduledItem
}

func (f *fakeScheduleRepo) GetScheduledItems(_ context.Context, _ []int64, _, _ time.Time) ([]domain.ScheduledItem, error) {
	return f.items, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var errResourceMissing = assert.AnError

func newTestUseCase(resRepo *fakeResourceRepo, schedRepo *fakeScheduleRepo, now time.Time) *UseCase {
	return NewUseCase(resRepo, schedRepo, nopLogger{}).WithTimeProvider(fixedTime{now})
}

func testResource() *domain.Resource {
	return &domain.Resource{ID: 1, BookingDayHorizon: 7}
}

func findSlot(t *testing.T, slots []FreeSlot, start time.Time) FreeSlot {
	t.Helper()
	want := msEpoch(start)
	for _, s := range slots {
		if s.Start == want {
			return s
		}
	}
	t.Fatalf("slot starting at %s not found", start)
	return FreeSlot{}
}

func TestForResourceDispositions(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := testResource()

	// One event fully covering the 12-14 slot on June 2, one straddling
	// only the tail of the 16-18 slot.
	sched := &fakeScheduleRepo{items: []domain.ScheduledItem{
		{
			ID: 100, Type: domain.ItemEvent,
			From:        time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			To:          time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
			ResourceIDs: []int64{1},
		},
		{
			ID: 101, Type: domain.ItemAllocation,
			From:        time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC),
			To:          time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC),
			ResourceIDs: []int64{1},
		},
	}}

	uc := newTestUseCase(&fakeResourceRepo{byID: map[int64]*domain.Resource{1: res}}, sched, now)

	resp, err := uc.ForResource(context.Background(), &ResourceRequest{
		ResourceID: 1,
		StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// 08-10 on June 1 started before now: past.
	past := findSlot(t, resp.Slots, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	require.NotNil(t, past.Overlap)
	assert.Equal(t, OverlapStatusDisabled, *past.Overlap)
	assert.Equal(t, ReasonTimeInPast, past.OverlapReason)

	// The 10-12 slot starts exactly at now; start <= now counts as past.
	atNow := findSlot(t, resp.Slots, now)
	require.NotNil(t, atNow.Overlap)
	assert.Equal(t, ReasonTimeInPast, atNow.OverlapReason)

	// Day horizon of 7 puts the boundary at June 8 23:59:59.
	beyond := findSlot(t, resp.Slots, time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC))
	require.NotNil(t, beyond.Overlap)
	assert.Equal(t, ReasonBeyondHorizon, beyond.OverlapReason)

	inside := findSlot(t, resp.Slots, time.Date(2025, 6, 8, 20, 0, 0, 0, time.UTC))
	assert.Nil(t, inside.Overlap)

	covered := findSlot(t, resp.Slots, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, covered.Overlap)
	assert.Equal(t, OverlapStatusComplete, *covered.Overlap)
	assert.Equal(t, ReasonCompleteOverlap, covered.OverlapReason)

	partial := findSlot(t, resp.Slots, time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC))
	require.NotNil(t, partial.Overlap)
	assert.Equal(t, OverlapStatusPartial, *partial.Overlap)
	assert.Equal(t, ReasonPartialOverlap, partial.OverlapReason)

	free := findSlot(t, resp.Slots, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	assert.Nil(t, free.Overlap)
	assert.Empty(t, free.OverlapReason)
}

// An occupant ending exactly where a slot starts does not shadow it.
func TestForResourceAbuttingOccupantLeavesSlotFree(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := testResource()

	sched := &fakeScheduleRepo{items: []domain.ScheduledItem{
		{
			ID: 100, Type: domain.ItemEvent,
			From:        time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
			To:          time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			ResourceIDs: []int64{1},
		},
	}}

	uc := newTestUseCase(&fakeResourceRepo{byID: map[int64]*domain.Resource{1: res}}, sched, now)

	resp, err := uc.ForResource(context.Background(), &ResourceRequest{
		ResourceID: 1,
		StartDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	following := findSlot(t, resp.Slots, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	assert.Nil(t, following.Overlap)
}

func TestForResourceDetailedMode(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := testResource()

	sched := &fakeScheduleRepo{items: []domain.ScheduledItem{
		{
			ID: 100, Type: domain.ItemEvent,
			From:        time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			To:          time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
			ResourceIDs: []int64{1},
		},
	}}

	uc := newTestUseCase(&fakeResourceRepo{byID: map[int64]*domain.Resource{1: res}}, sched, now)

	req := &ResourceRequest{
		ResourceID:      1,
		StartDate:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		DetailedOverlap: true,
	}
	resp, err := uc.ForResource(context.Background(), req)
	require.NoError(t, err)

	covered := findSlot(t, resp.Slots, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, covered.Occupant)
	assert.Equal(t, int64(100), covered.Occupant.ID)
	assert.Equal(t, "event", covered.Occupant.Type)
	require.NotNil(t, covered.ResourceID)
	assert.Equal(t, int64(1), *covered.ResourceID)
	assert.NotEmpty(t, covered.StartISO)

	// Detailed mode never changes the classification itself.
	req.DetailedOverlap = false
	plain, err := uc.ForResource(context.Background(), req)
	require.NoError(t, err)
	plainCovered := findSlot(t, plain.Slots, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, *covered.Overlap, *plainCovered.Overlap)
	assert.Nil(t, plainCovered.Occupant)
	assert.Nil(t, plainCovered.ResourceID)
}

func TestForBuildingFanOut(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resA := &domain.Resource{ID: 1}
	resB := &domain.Resource{ID: 2}

	repo := &fakeResourceRepo{byBuilding: map[int64][]*domain.Resource{
		5: {resA, resB},
	}}
	uc := newTestUseCase(repo, &fakeScheduleRepo{}, now)

	resp, err := uc.ForBuilding(context.Background(), &BuildingRequest{
		BuildingID: 5,
		StartDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, resp.Resources, 2)
	assert.Len(t, resp.Resources[1], 7)
	assert.Len(t, resp.Resources[2], 7)
}

// The grid always stops at the end of the requested end date; the
// stop_on_end_date flag is accepted but changes nothing.
func TestForResourceStopOnEndDateHasNoEffect(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeResourceRepo{byID: map[int64]*domain.Resource{1: {ID: 1}}}
	uc := newTestUseCase(repo, &fakeScheduleRepo{}, now)

	req := &ResourceRequest{
		ResourceID:    1,
		StartDate:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StopOnEndDate: true,
	}
	withFlag, err := uc.ForResource(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, withFlag.Slots, 7)

	req.StopOnEndDate = false
	withoutFlag, err := uc.ForResource(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, withFlag.Slots, withoutFlag.Slots)
}

func TestForBuildingNoResources(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeResourceRepo{}, &fakeScheduleRepo{}, now)

	resp, err := uc.ForBuilding(context.Background(), &BuildingRequest{
		BuildingID: 5,
		StartDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Resources)
}

func TestForResourceInvalidRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeResourceRepo{}, &fakeScheduleRepo{}, now)

	_, err := uc.ForResource(context.Background(), &ResourceRequest{
		ResourceID: 1,
		StartDate:  time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

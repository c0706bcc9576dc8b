package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friplass/booking-api/internal/domain"
	resourceRepo "github.com/friplass/booking-api/internal/infra/storage/resource"
)

type fakeResourceRepo struct {
	res *domain.Resource
}

func (f *fakeResourceRepo) GetSimpleBookingResource(_ context.Context, _ int64) (*domain.Resource, error) {
	if f.res == nil {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return f.res, nil
}

type fakeScheduleRepo struct {
	items    []domain.ScheduledItem
	ownBlock bool
}

func (f *fakeScheduleRepo) GetScheduledItems(_ context.Context, _ []int64, _, _ time.Time) ([]domain.ScheduledItem, error) {
	return f.items, nil
}

func (f *fakeScheduleRepo) BlockExists(_ context.Context, _ string, _ int64, _, _ time.Time) (bool, error) {
	return f.ownBlock, nil
}

type fakeAppRepo struct {
	count int
}

func (f *fakeAppRepo) CountBySSNAndResource(_ context.Context, _ int64, _ string, _ int) (int, error) {
	return f.count, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestUseCase(res *domain.Resource, sched *fakeScheduleRepo, appRepo *fakeAppRepo) *UseCase {
	return NewUseCase(&fakeResourceRepo{res: res}, sched, appRepo, nopLogger{}).
		WithTimeProvider(fixedTime{testNow})
}

func request() *Request {
	return &Request{
		ResourceID: 1,
		From:       testNow.Add(24 * time.Hour),
		To:         testNow.Add(26 * time.Hour),
		SessionID:  "sess-a",
	}
}

func item(itemType domain.ScheduledItemType, from, to time.Time) domain.ScheduledItem {
	return domain.ScheduledItem{ID: 100, Type: itemType, From: from, To: to, ResourceIDs: []int64{1}}
}

func TestExecuteResourceNotSimpleBooking(t *testing.T) {
	uc := newTestUseCase(nil, &fakeScheduleRepo{}, &fakeAppRepo{})

	resp, err := uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.False(t, resp.SupportsSimpleBooking)
}

func TestExecuteFreeRange(t *testing.T) {
	uc := newTestUseCase(&domain.Resource{ID: 1}, &fakeScheduleRepo{}, &fakeAppRepo{})

	resp, err := uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.True(t, resp.Available)
	assert.True(t, resp.SupportsSimpleBooking)
	assert.Empty(t, resp.OverlapReason)
}

func TestExecutePastRange(t *testing.T) {
	uc := newTestUseCase(&domain.Resource{ID: 1}, &fakeScheduleRepo{}, &fakeAppRepo{})

	req := request()
	req.From = testNow.Add(-time.Hour)
	req.To = testNow.Add(time.Hour)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Equal(t, ReasonTimeInPast, resp.OverlapReason)
	assert.Equal(t, OverlapTypeDisabled, resp.OverlapType)
}

func TestExecuteOwnBlockShortCircuits(t *testing.T) {
	req := request()
	// An occupant exists, but the session already holds this exact range.
	sched := &fakeScheduleRepo{
		ownBlock: true,
		items:    []domain.ScheduledItem{item(domain.ItemEvent, req.From, req.To)},
	}
	uc := newTestUseCase(&domain.Resource{ID: 1}, sched, &fakeAppRepo{})

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Available)
}

func TestExecuteConflictEdges(t *testing.T) {
	req := request()

	tests := []struct {
		name       string
		from, to   time.Time
		wantReason string
		wantType   string
	}{
		{"exact cover", req.From, req.To, ReasonCompleteOverlap, OverlapTypeComplete},
		{"covers and more", req.From.Add(-time.Hour), req.To.Add(time.Hour), ReasonCompleteOverlap, OverlapTypeComplete},
		{"contained inside", req.From.Add(15 * time.Minute), req.To.Add(-15 * time.Minute), ReasonCompleteContainment, OverlapTypeComplete},
		{"clips the start", req.From.Add(-time.Hour), req.From.Add(30 * time.Minute), ReasonStartOverlap, OverlapTypePartial},
		{"clips the end", req.To.Add(-30 * time.Minute), req.To.Add(time.Hour), ReasonEndOverlap, OverlapTypePartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduleRepo{items: []domain.ScheduledItem{item(domain.ItemEvent, tt.from, tt.to)}}
			uc := newTestUseCase(&domain.Resource{ID: 1}, sched, &fakeAppRepo{})

			resp, err := uc.Execute(context.Background(), req)
			require.NoError(t, err)

			assert.False(t, resp.Available)
			assert.Equal(t, tt.wantReason, resp.OverlapReason)
			assert.Equal(t, tt.wantType, resp.OverlapType)
			require.NotNil(t, resp.Occupant)
			assert.Equal(t, int64(100), resp.Occupant.ID)
		})
	}
}

// An occupant ending exactly at the range start does not conflict.
func TestExecuteAbuttingOccupant(t *testing.T) {
	req := request()
	sched := &fakeScheduleRepo{items: []domain.ScheduledItem{
		item(domain.ItemEvent, req.From.Add(-2*time.Hour), req.From),
		item(domain.ItemEvent, req.To, req.To.Add(2*time.Hour)),
	}}
	uc := newTestUseCase(&domain.Resource{ID: 1}, sched, &fakeAppRepo{})

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Available)
}

func TestExecuteIgnoresOwnSessionBlock(t *testing.T) {
	req := request()
	blocking := item(domain.ItemBlock, req.From, req.To)
	blocking.Status = "sess-a" // blocks carry the owning session

	sched := &fakeScheduleRepo{items: []domain.ScheduledItem{blocking}}
	uc := newTestUseCase(&domain.Resource{ID: 1}, sched, &fakeAppRepo{})

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Available)

	// The same block owned by a different session does conflict.
	blocking.Status = "sess-b"
	sched.items = []domain.ScheduledItem{blocking}

	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Available)
}

func TestExecuteBookingLimit(t *testing.T) {
	res := &domain.Resource{ID: 1, BookingLimitNumber: 2, BookingLimitHorizonDays: 30}

	req := request()
	req.SSN = "01010112377"

	// Under the cap: available, with limit info attached.
	uc := newTestUseCase(res, &fakeScheduleRepo{}, &fakeAppRepo{count: 1})
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Available)
	require.NotNil(t, resp.LimitInfo)
	assert.Equal(t, 1, resp.LimitInfo.CurrentBookings)
	assert.Equal(t, 2, resp.LimitInfo.MaxAllowed)

	// At the cap: refused.
	uc = newTestUseCase(res, &fakeScheduleRepo{}, &fakeAppRepo{count: 2})
	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, ReasonBookingLimitExceeded, resp.OverlapReason)
}

func TestExecuteInvalidRange(t *testing.T) {
	uc := newTestUseCase(&domain.Resource{ID: 1}, &fakeScheduleRepo{}, &fakeAppRepo{})

	req := request()
	req.To = req.From

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

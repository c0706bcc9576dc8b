package directbooking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/pkg/ptr"
)

type fakeAppRepo struct {
	counts     map[int64]int
	collisions map[int64]bool // keyed by first resource id
	lastSession string
}

func (f *fakeAppRepo) CountBySSNAndResource(_ context.Context, resourceID int64, _ string, _ int) (int, error) {
	return f.counts[resourceID], nil
}

func (f *fakeAppRepo) CheckCollision(_ context.Context, resourceIDs []int64, _, _ time.Time, excludeSessionID string) (bool, error) {
	f.lastSession = excludeSessionID
	if len(resourceIDs) == 0 {
		return false, nil
	}
	return f.collisions[resourceIDs[0]], nil
}

type fakeResourceRepo struct {
	resources []*domain.Resource
}

func (f *fakeResourceRepo) GetByApplicationID(_ context.Context, _ int64) ([]*domain.Resource, error) {
	return f.resources, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newEvaluator(appRepo *fakeAppRepo, resRepo *fakeResourceRepo, now time.Time) *Evaluator {
	return NewEvaluator(appRepo, resRepo, nopLogger{}).WithTimeProvider(fixedTime{now})
}

func directBookedResource(id int64, activeSince time.Time) *domain.Resource {
	return &domain.Resource{ID: id, DirectBooking: ptr.Ptr(activeSince.Unix())}
}

func TestIsEligibleAllResourcesDirectBookable(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resRepo := &fakeResourceRepo{resources: []*domain.Resource{
		directBookedResource(1, now.Add(-time.Hour)),
		directBookedResource(2, now.Add(-24*time.Hour)),
	}}
	e := newEvaluator(&fakeAppRepo{}, resRepo, now)

	ok, err := e.IsEligible(context.Background(), &domain.Application{ID: 7}, "01010112345")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsEligibleDirectBookingNotYetActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resRepo := &fakeResourceRepo{resources: []*domain.Resource{
		directBookedResource(1, now.Add(time.Hour)), // activates in the future
	}}
	e := newEvaluator(&fakeAppRepo{}, resRepo, now)

	ok, err := e.IsEligible(context.Background(), &domain.Application{ID: 7}, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsEligibleDirectBookingDisabled(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	resRepo := &fakeResourceRepo{resources: []*domain.Resource{
		{ID: 1, DirectBooking: nil},
	}}
	e := newEvaluator(&fakeAppRepo{}, resRepo, now)

	ok, err := e.IsEligible(context.Background(), &domain.Application{ID: 7}, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsEligibleBookingLimitReached(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := directBookedResource(1, now.Add(-time.Hour))
	res.BookingLimitNumber = 2
	res.BookingLimitHorizonDays = 30

	appRepo := &fakeAppRepo{counts: map[int64]int{1: 2}}
	e := newEvaluator(appRepo, &fakeResourceRepo{resources: []*domain.Resource{res}}, now)

	ok, err := e.IsEligible(context.Background(), &domain.Application{ID: 7}, "01010112345")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsEligibleUnderBookingLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := directBookedResource(1, now.Add(-time.Hour))
	res.BookingLimitNumber = 2
	res.BookingLimitHorizonDays = 30

	appRepo := &fakeAppRepo{counts: map[int64]int{1: 1}}
	e := newEvaluator(appRepo, &fakeResourceRepo{resources: []*domain.Resource{res}}, now)

	ok, err := e.IsEligible(context.Background(), &domain.Application{ID: 7}, "01010112345")
	require.NoError(t, err)
	assert.True(t, ok)
}

// The rolling limit counts per SSN; without one there is nothing to count.
func TestIsEligibleLimitSkippedWithoutSSN(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := directBookedResource(1, now.Add(-time.Hour))
	res.BookingLimitNumber = 2
	res.BookingLimitHorizonDays = 30

	appRepo := &fakeAppRepo{counts: map[int64]int{1: 99}}
	e := newEvaluator(appRepo, &fakeResourceRepo{resources: []*domain.Resource{res}}, now)

	ok, err := e.IsEligible(context.Background(), &domain.Application{ID: 7}, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

// An application without resources has nothing to gate on.
func TestIsEligibleNoResources(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	e := newEvaluator(&fakeAppRepo{}, &fakeResourceRepo{}, now)

	ok, err := e.IsEligible(context.Background(), &domain.Application{ID: 7}, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasCollisionExcludesOwnSession(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appRepo := &fakeAppRepo{collisions: map[int64]bool{1: false}}
	e := newEvaluator(appRepo, &fakeResourceRepo{}, now)

	app := &domain.Application{
		ID:          7,
		SessionID:   ptr.Ptr("session-abc"),
		ResourceIDs: []int64{1},
		Dates: []domain.ApplicationDate{
			{From: now, To: now.Add(2 * time.Hour)},
		},
	}

	collides, err := e.HasCollision(context.Background(), app)
	require.NoError(t, err)
	assert.False(t, collides)
	assert.Equal(t, "session-abc", appRepo.lastSession)
}

func TestHasCollisionAnyDateCollides(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appRepo := &fakeAppRepo{collisions: map[int64]bool{1: true}}
	e := newEvaluator(appRepo, &fakeResourceRepo{}, now)

	app := &domain.Application{
		ID:          7,
		ResourceIDs: []int64{1},
		Dates: []domain.ApplicationDate{
			{From: now, To: now.Add(2 * time.Hour)},
		},
	}

	collides, err := e.HasCollision(context.Background(), app)
	require.NoError(t, err)
	assert.True(t, collides)
}

func TestBookingLimits(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	limited := directBookedResource(1, now.Add(-time.Hour))
	limited.BookingLimitNumber = 3
	limited.BookingLimitHorizonDays = 14

	unlimited := directBookedResource(2, now.Add(-time.Hour))

	appRepo := &fakeAppRepo{counts: map[int64]int{1: 2}}
	e := newEvaluator(appRepo, &fakeResourceRepo{resources: []*domain.Resource{limited, unlimited}}, now)

	infos, err := e.BookingLimits(context.Background(), &domain.Application{ID: 7}, "01010112345")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, int64(1), infos[0].ResourceID)
	assert.Equal(t, 3, infos[0].Limit)
	assert.Equal(t, 2, infos[0].Used)
	assert.Equal(t, 1, infos[0].Remaining())
}

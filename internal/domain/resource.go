package domain

import "time"

// Resource represents a bookable facility resource and its booking
// configuration. Booking fields are nullable in storage; accessors below
// apply the documented defaults.
type Resource struct {
	ID         int64
	Name       string
	BuildingID int64
	ActivityID *int64

	Active             bool
	HiddenInFrontend   bool
	DeactivateCalendar bool
	SimpleBooking      bool

	// DirectBooking holds the activation instant as an epoch in seconds.
	// nil or zero means direct booking is disabled.
	DirectBooking *int64

	// Rolling booking-count cap: at most BookingLimitNumber bookings per
	// customer within the trailing BookingLimitHorizonDays days.
	BookingLimitNumber      int
	BookingLimitHorizonDays int

	// How far ahead the resource may be booked. Month horizon takes
	// precedence over day horizon when both are set.
	BookingDayHorizon   int
	BookingMonthHorizon int

	// Slot grid configuration for simple booking.
	BookingTimeMinutes      *int
	BookingTimeDefaultStart *int
	BookingTimeDefaultEnd   *int

	Capacity *int
	Sort     int
}

// DirectBookingEnabled reports whether direct booking is active at the
// given instant.
func (r *Resource) DirectBookingEnabled(now time.Time) bool {
	return r.DirectBooking != nil && *r.DirectBooking > 0 && now.Unix() >= *r.DirectBooking
}

// HasBookingLimit reports whether the rolling booking-count cap applies.
func (r *Resource) HasBookingLimit() bool {
	return r.BookingLimitNumber > 0 && r.BookingLimitHorizonDays > 0
}

// SlotMinutes returns the slot duration, defaulted to 120 minutes.
func (r *Resource) SlotMinutes() int {
	if r.BookingTimeMinutes != nil && *r.BookingTimeMinutes > 0 {
		return *r.BookingTimeMinutes
	}
	return DefaultSlotMinutes
}

// DayStartHour returns the first bookable hour of the day, defaulted to 8.
func (r *Resource) DayStartHour() int {
	if r.BookingTimeDefaultStart != nil {
		return *r.BookingTimeDefaultStart
	}
	return DefaultDayStartHour
}

// DayEndHour returns the hour the bookable day ends, defaulted to 22.
func (r *Resource) DayEndHour() int {
	if r.BookingTimeDefaultEnd != nil {
		return *r.BookingTimeDefaultEnd
	}
	return DefaultDayEndHour
}

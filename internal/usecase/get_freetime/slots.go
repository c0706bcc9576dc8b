package get_freetime

import (
	"fmt"
	"strconv"
	"time"

	"github.com/friplass/booking-api/internal/domain"
)

// generateSlots builds the candidate grid for [startDate, endDate]: for every
// day it walks from the resource's day-start hour in slot-duration steps and
// keeps each slot whose end still fits inside operating hours and whose start
// lies inside the requested range.
func generateSlots(res *domain.Resource, startDate, endDate time.Time) []domain.Slot {
	slotMinutes := res.SlotMinutes()
	dayStartMin := res.DayStartHour() * 60
	dayEndMin := res.DayEndHour() * 60

	slots := make([]domain.Slot, 0)

	day := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	for !day.After(endDate) {
		for m := dayStartMin; m < dayEndMin; m += slotMinutes {
			// Drop the trailing slot that would spill past closing time.
			if m+slotMinutes > dayEndMin {
				break
			}

			slotStart := day.Add(time.Duration(m) * time.Minute)
			if slotStart.Before(startDate) || slotStart.After(endDate) {
				continue
			}

			slots = append(slots, domain.Slot{
				Start: slotStart,
				End:   slotStart.Add(time.Duration(slotMinutes) * time.Minute),
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	return slots
}

// maxBookableTime returns the last instant the resource may be booked at, or
// nil when no horizon applies. The month horizon takes precedence over the
// day horizon. Both land on the end of the boundary day.
func maxBookableTime(res *domain.Resource, now time.Time) *time.Time {
	if res.BookingMonthHorizon > 0 {
		boundary := endOfDay(addMonthsClamped(now, res.BookingMonthHorizon))
		return &boundary
	}
	if res.BookingDayHorizon > 0 {
		startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		boundary := endOfDay(startOfToday.AddDate(0, 0, res.BookingDayHorizon))
		return &boundary
	}
	return nil
}

// addMonthsClamped shifts t by whole months, clamping the day of month to
// the target month's last day. January 31 plus one month is February 28
// (or 29), never March 3.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	targetMonth := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := targetMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(targetMonth.Year(), targetMonth.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// formatWhen renders the human-readable slot range: "01/06-2025 08:00 - 01/06-2025 10:00"
func formatWhen(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format(domain.WhenFormat), end.Format(domain.WhenFormat))
}

// msEpoch renders an instant as epoch milliseconds in string form, the wire
// format the frontend calendar consumes.
func msEpoch(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

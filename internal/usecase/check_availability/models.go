package check_availability

import (
	"time"

	"github.com/friplass/booking-api/internal/domain"
)

// Overlap reasons, in the order they are checked
const (
	ReasonTimeInPast           = "time_in_past"
	ReasonCompleteOverlap      = "complete_overlap"
	ReasonCompleteContainment  = "complete_containment"
	ReasonStartOverlap         = "start_overlap"
	ReasonEndOverlap           = "end_overlap"
	ReasonBookingLimitExceeded = "booking_limit_exceeded"
)

// Overlap types grouping the reasons
const (
	OverlapTypeDisabled = "disabled"
	OverlapTypeComplete = "complete"
	OverlapTypePartial  = "partial"
)

// Request asks about one exact time range on one resource
type Request struct {
	ResourceID int64
	From       time.Time
	To         time.Time

	SessionID string
	SSN       string // optional, enables the booking-limit snapshot
}

// Response answers the availability question
type Response struct {
	Available             bool   `json:"available"`
	SupportsSimpleBooking bool   `json:"supports_simple_booking"`
	Message               string `json:"message"`

	OverlapReason string        `json:"overlap_reason,omitempty"`
	OverlapType   string        `json:"overlap_type,omitempty"`
	Occupant      *OccupantInfo `json:"overlap_event,omitempty"`

	LimitInfo *LimitInfo `json:"limit_info,omitempty"`
}

// OccupantInfo identifies the scheduled item blocking the range
type OccupantInfo struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status,omitempty"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// LimitInfo reports the rolling booking-limit state for the customer
type LimitInfo struct {
	CurrentBookings int `json:"current_bookings"`
	MaxAllowed      int `json:"max_allowed"`
	TimePeriodDays  int `json:"time_period_days"`
}

func occupantInfo(item *domain.ScheduledItem) *OccupantInfo {
	status := ""
	if item.Type == domain.ItemApplication {
		status = item.Status
	}
	return &OccupantInfo{
		ID:     item.ID,
		Type:   string(item.Type),
		Status: status,
		From:   item.From.Format(domain.DateTimeFormat),
		To:     item.To.Format(domain.DateTimeFormat),
	}
}

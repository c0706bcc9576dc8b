package checkout

import (
	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/internal/service/directbooking"
)

// Request carries the checkout form for every draft the session holds
type Request struct {
	SessionID string

	ContactName  string
	ContactEmail string
	ContactPhone string

	Street  string
	ZipCode string
	City    string

	EventTitle    string
	OrganizerName string

	// Customer identity: exactly one of SSN or organization data, selected
	// by CustomerType.
	CustomerType       domain.CustomerType
	CustomerSSN        string
	OrganizationNumber string
	OrganizationName   string

	// ParentID optionally names an existing application that anchors the
	// checkout group. When nil the first draft becomes the anchor.
	ParentID *int64
}

// ApplicationResult is the outcome for one draft in the batch
type ApplicationResult struct {
	ID         int64                    `json:"id"`
	Status     domain.ApplicationStatus `json:"status"`
	Skipped    bool                     `json:"skipped"` // direct booking refused due to a collision
	BuildingID int64                    `json:"building_id"`
	EventIDs   []int64                  `json:"event_ids,omitempty"`
}

// Response summarizes the finalized batch
type Response struct {
	ParentID     int64               `json:"parent_id"`
	Applications []ApplicationResult `json:"applications"`
}

// ValidateResponse is the dry-run answer: what checkout would do, without
// committing anything.
type ValidateResponse struct {
	Valid  bool                     `json:"valid"`
	Issues []domain.ValidationIssue `json:"issues,omitempty"`

	Applications []ValidateApplicationResult `json:"applications,omitempty"`
}

// ValidateApplicationResult is the dry-run outcome for one draft
type ValidateApplicationResult struct {
	ID                   int64                            `json:"id"`
	WouldBeDirectBooking bool                             `json:"would_be_direct_booking"`
	HasCollision         bool                             `json:"has_collision"`
	BookingLimits        []directbooking.BookingLimitInfo `json:"booking_limits,omitempty"`
}

// NotificationEvent is the snapshot pushed to the notification queue after a
// successful checkout
type NotificationEvent struct {
	ApplicationID int64                    `json:"application_id"`
	Status        domain.ApplicationStatus `json:"status"`
	ContactName   string                   `json:"contact_name"`
	ContactEmail  string                   `json:"contact_email"`
	EventTitle    string                   `json:"event_title"`
	BuildingID    int64                    `json:"building_id"`
	EventIDs      []int64                  `json:"event_ids,omitempty"`
}

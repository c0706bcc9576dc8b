package checkout_partials

import (
	"github.com/friplass/booking-api/internal/domain"
	checkoutUC "github.com/friplass/booking-api/internal/usecase/checkout"
)

// CheckoutRequest is the HTTP body of the checkout call
type CheckoutRequest struct {
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	Street  string `json:"street"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`

	EventTitle    string `json:"event_title"`
	OrganizerName string `json:"organizer_name"`

	CustomerType       string `json:"customer_type"`
	CustomerSSN        string `json:"customer_ssn,omitempty"`
	OrganizationNumber string `json:"organization_number,omitempty"`
	OrganizationName   string `json:"organization_name,omitempty"`

	ParentID *int64 `json:"parent_id,omitempty"`
}

// ValidationErrorResponse is the 400 body for a rejected checkout form
type ValidationErrorResponse struct {
	Error  string                   `json:"error"`
	Issues []domain.ValidationIssue `json:"issues"`
}

// ToUseCaseRequest maps the HTTP body to the use case request.
func (r *CheckoutRequest) ToUseCaseRequest(sessionID string) *checkoutUC.Request {
	return &checkoutUC.Request{
		SessionID:          sessionID,
		ContactName:        r.ContactName,
		ContactEmail:       r.ContactEmail,
		ContactPhone:       r.ContactPhone,
		Street:             r.Street,
		ZipCode:            r.ZipCode,
		City:               r.City,
		EventTitle:         r.EventTitle,
		OrganizerName:      r.OrganizerName,
		CustomerType:       domain.CustomerType(r.CustomerType),
		CustomerSSN:        r.CustomerSSN,
		OrganizationNumber: r.OrganizationNumber,
		OrganizationName:   r.OrganizationName,
		ParentID:           r.ParentID,
	}
}

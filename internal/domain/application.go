package domain

import "time"

// ApplicationStatus represents the lifecycle status of a booking application
type ApplicationStatus string

const (
	// StatusNewPartial is a draft owned by an anonymous session
	StatusNewPartial ApplicationStatus = "NEWPARTIAL1"
	// StatusNew is a submitted application awaiting manual review
	StatusNew ApplicationStatus = "NEW"
	// StatusPending is under review by a case worker
	StatusPending ApplicationStatus = "PENDING"
	// StatusAccepted is approved, either direct-booked or by a case worker
	StatusAccepted ApplicationStatus = "ACCEPTED"
	// StatusRejected is refused, including direct-booking collision refusals
	StatusRejected ApplicationStatus = "REJECTED"
	// StatusCancelled is withdrawn by the applicant
	StatusCancelled ApplicationStatus = "CANCELLED"
)

// CustomerType identifies who the finalized application is booked for
type CustomerType string

const (
	CustomerTypeSSN          CustomerType = "ssn"
	CustomerTypeOrganization CustomerType = "organization_number"
)

// Application represents a booking request, from anonymous draft to final state
type Application struct {
	ID       int64
	Secret   string // token for unauthenticated access via link
	Status   ApplicationStatus
	ParentID *int64 // groups checkout siblings; nil on the group anchor
	Active   bool

	// Ownership: a draft carries SessionID and no customer identity.
	// A finalized application carries exactly one customer identity
	// and no SessionID.
	SessionID                  *string
	CustomerIdentifierType     *CustomerType
	CustomerSSN                *string
	CustomerOrganizationNumber *string
	CustomerOrganizationName   *string
	OwnerID                    *int64

	ContactName  string
	ContactEmail string
	ContactPhone string

	ResponsibleStreet  string
	ResponsibleZipCode string
	ResponsibleCity    string

	Name        string // event title
	Organizer   string
	BuildingID  int64
	ActivityID  *int64
	Description *string
	Equipment   *string

	Dates       []ApplicationDate
	ResourceIDs []int64
	OrderIDs    []int64

	Created  time.Time
	Modified time.Time
}

// ApplicationDate is one requested time range of an application.
// Recurring and multi-day bookings carry several.
type ApplicationDate struct {
	ID            int64
	ApplicationID int64
	From          time.Time
	To            time.Time
}

// IsDraft returns true while the application is still session-owned
func (a *Application) IsDraft() bool {
	return a.Status == StatusNewPartial
}

// IsFinalized returns true once the application left the draft state
func (a *Application) IsFinalized() bool {
	return a.Status != StatusNewPartial
}

// FinalizationStamp is the full set of fields written onto a draft when a
// checkout finalizes it. The session id is always cleared alongside.
type FinalizationStamp struct {
	Status   ApplicationStatus
	ParentID *int64

	CustomerIdentifierType     CustomerType
	CustomerSSN                *string
	CustomerOrganizationNumber *string
	CustomerOrganizationName   *string

	ContactName  string
	ContactEmail string
	ContactPhone string

	ResponsibleStreet  string
	ResponsibleZipCode string
	ResponsibleCity    string

	Name      string
	Organizer string
}

// ValidationIssue is one human-readable validation failure for a named field
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

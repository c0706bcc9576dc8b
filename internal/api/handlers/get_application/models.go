package get_application

import (
	"github.com/friplass/booking-api/internal/domain"
)

// ApplicationResponse is the wire shape of an application
type ApplicationResponse struct {
	ID       int64   `json:"id"`
	Status   string  `json:"status"`
	ParentID *int64  `json:"parent_id,omitempty"`
	Secret   string  `json:"secret"`

	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	Street  string `json:"street"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`

	Name      string `json:"name"`
	Organizer string `json:"organizer"`

	BuildingID  int64   `json:"building_id"`
	ActivityID  *int64  `json:"activity_id,omitempty"`
	Description *string `json:"description,omitempty"`
	Equipment   *string `json:"equipment,omitempty"`

	Dates       []DateResponse `json:"dates"`
	ResourceIDs []int64        `json:"resource_ids"`

	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// DateResponse is one requested time range
type DateResponse struct {
	ID   int64  `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// FromDomain maps a domain application to the wire shape.
func FromDomain(app *domain.Application) *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:           app.ID,
		Status:       string(app.Status),
		ParentID:     app.ParentID,
		Secret:       app.Secret,
		ContactName:  app.ContactName,
		ContactEmail: app.ContactEmail,
		ContactPhone: app.ContactPhone,
		Street:       app.ResponsibleStreet,
		ZipCode:      app.ResponsibleZipCode,
		City:         app.ResponsibleCity,
		Name:         app.Name,
		Organizer:    app.Organizer,
		BuildingID:   app.BuildingID,
		ActivityID:   app.ActivityID,
		Description:  app.Description,
		Equipment:    app.Equipment,
		ResourceIDs:  app.ResourceIDs,
		Created:      app.Created.Format(domain.DateTimeFormat),
		Modified:     app.Modified.Format(domain.DateTimeFormat),
	}

	resp.Dates = make([]DateResponse, 0, len(app.Dates))
	for _, d := range app.Dates {
		resp.Dates = append(resp.Dates, DateResponse{
			ID:   d.ID,
			From: d.From.Format(domain.DateTimeFormat),
			To:   d.To.Format(domain.DateTimeFormat),
		})
	}

	return resp
}

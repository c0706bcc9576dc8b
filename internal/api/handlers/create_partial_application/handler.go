package create_partial_application

import (
	"errors"
	"net/http"
	"time"

	"github.com/friplass/booking-api/internal/api/handlers"
	getApplication "github.com/friplass/booking-api/internal/api/handlers/get_application"
	"github.com/friplass/booking-api/internal/api/middleware"
	"github.com/friplass/booking-api/internal/domain"
	applicationsService "github.com/friplass/booking-api/internal/service/applications"
	"github.com/friplass/booking-api/pkg/ptr"
)

const (
	msgInvalidBody  = "invalid request body"
	msgInvalidInput = "invalid application data"
)

// CreateRequest is the HTTP body of a new draft
type CreateRequest struct {
	BuildingID  int64        `json:"building_id"`
	ActivityID  *int64       `json:"activity_id,omitempty"`
	Name        string       `json:"name"`
	Organizer   string       `json:"organizer"`
	Description *string      `json:"description,omitempty"`
	Equipment   *string      `json:"equipment,omitempty"`
	ResourceIDs []int64      `json:"resource_ids"`
	Dates       []DateInput  `json:"dates"`
}

// DateInput is one requested time range, in "2006-01-02 15:04:05" form
type DateInput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Handler struct {
	service ApplicationsService
	logger  Logger
}

func NewHandler(service ApplicationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/applications/partials
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionFromContext(r.Context())

	var body CreateRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /applications/partials - invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	app := &domain.Application{
		SessionID:   ptr.Ptr(sessionID),
		BuildingID:  body.BuildingID,
		ActivityID:  body.ActivityID,
		Name:        body.Name,
		Organizer:   body.Organizer,
		Description: body.Description,
		Equipment:   body.Equipment,
		ResourceIDs: body.ResourceIDs,
	}

	for _, d := range body.Dates {
		from, err := time.Parse(domain.DateTimeFormat, d.From)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		to, err := time.Parse(domain.DateTimeFormat, d.To)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		app.Dates = append(app.Dates, domain.ApplicationDate{From: from, To: to})
	}

	created, err := h.service.CreatePartial(r.Context(), app)
	if err != nil {
		switch {
		case errors.Is(err, applicationsService.ErrInvalidInput):
			h.logger.Warn("POST /applications/partials - invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /applications/partials - failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /applications/partials - created draft=%d", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, getApplication.FromDomain(created))
}

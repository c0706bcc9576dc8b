package get_partial_applications

import (
	"net/http"

	"github.com/friplass/booking-api/internal/api/handlers"
	getApplication "github.com/friplass/booking-api/internal/api/handlers/get_application"
	"github.com/friplass/booking-api/internal/api/middleware"
)

// ListResponse wraps the session's drafts
type ListResponse struct {
	Applications []*getApplication.ApplicationResponse `json:"applications"`
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

// Handle GET /api/v1/applications/partials
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionFromContext(r.Context())

	apps, err := h.service.GetPartials(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("GET /applications/partials - failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := ListResponse{Applications: make([]*getApplication.ApplicationResponse, 0, len(apps))}
	for _, app := range apps {
		response.Applications = append(response.Applications, getApplication.FromDomain(app))
	}

	h.logger.Info("GET /applications/partials - %d draft(s)", len(apps))
	handlers.RespondJSON(w, http.StatusOK, response)
}

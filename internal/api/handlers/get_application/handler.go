package get_application

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/friplass/booking-api/internal/api/handlers"
	"github.com/friplass/booking-api/internal/api/middleware"
	applicationsService "github.com/friplass/booking-api/internal/service/applications"
)

const (
	msgInvalidApplicationID = "invalid application id"
	msgApplicationNotFound  = "application not found"
	msgAccessDenied         = "access denied"
)

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

// Handle GET /api/v1/applications/{applicationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	applicationID, err := strconv.ParseInt(vars["applicationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /applications/{id} - invalid application id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApplicationID)
		return
	}

	sessionID := middleware.SessionFromContext(r.Context())

	app, err := h.service.GetByID(r.Context(), applicationID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, applicationsService.ErrApplicationNotFound):
			h.logger.Warn("GET /applications/{id} - application=%d not found", applicationID)
			handlers.RespondNotFound(w, msgApplicationNotFound)
		case errors.Is(err, applicationsService.ErrAccessDenied):
			h.logger.Warn("GET /applications/{id} - access denied for application=%d", applicationID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /applications/{id} - application=%d failed: %v", applicationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /applications/{id} - application=%d retrieved", applicationID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(app))
}

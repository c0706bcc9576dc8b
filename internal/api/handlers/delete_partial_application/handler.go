package delete_partial_application

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
	msgNotDraft             = "only draft applications can be deleted"
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

// Handle DELETE /api/v1/applications/partials/{applicationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	applicationID, err := strconv.ParseInt(vars["applicationId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /applications/partials/{id} - invalid application id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApplicationID)
		return
	}

	sessionID := middleware.SessionFromContext(r.Context())

	if err := h.service.DeletePartial(r.Context(), applicationID, sessionID); err != nil {
		switch {
		case errors.Is(err, applicationsService.ErrApplicationNotFound):
			h.logger.Warn("DELETE /applications/partials/{id} - application=%d not found", applicationID)
			handlers.RespondNotFound(w, msgApplicationNotFound)
		case errors.Is(err, applicationsService.ErrAccessDenied):
			h.logger.Warn("DELETE /applications/partials/{id} - access denied for application=%d", applicationID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, applicationsService.ErrNotDraft):
			h.logger.Warn("DELETE /applications/partials/{id} - application=%d is not a draft", applicationID)
			handlers.RespondBadRequest(w, msgNotDraft)
		default:
			h.logger.Error("DELETE /applications/partials/{id} - application=%d failed: %v", applicationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /applications/partials/{id} - deleted draft=%d", applicationID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

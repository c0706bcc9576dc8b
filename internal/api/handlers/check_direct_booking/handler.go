package check_direct_booking

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

// EligibilityResponse answers the direct-booking question for one draft
type EligibilityResponse struct {
	ApplicationID int64 `json:"application_id"`
	Eligible      bool  `json:"eligible"`
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

// Handle GET /api/v1/applications/{applicationId}/direct-booking
// Query params: ssn (optional, feeds the booking-limit check)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	applicationID, err := strconv.ParseInt(vars["applicationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /applications/{id}/direct-booking - invalid application id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApplicationID)
		return
	}

	sessionID := middleware.SessionFromContext(r.Context())
	ssn := r.URL.Query().Get("ssn")

	eligible, err := h.service.IsDirectBookingEligible(r.Context(), applicationID, sessionID, ssn)
	if err != nil {
		switch {
		case errors.Is(err, applicationsService.ErrApplicationNotFound):
			h.logger.Warn("GET /applications/{id}/direct-booking - application=%d not found", applicationID)
			handlers.RespondNotFound(w, msgApplicationNotFound)
		case errors.Is(err, applicationsService.ErrAccessDenied):
			h.logger.Warn("GET /applications/{id}/direct-booking - access denied for application=%d", applicationID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /applications/{id}/direct-booking - application=%d failed: %v", applicationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /applications/{id}/direct-booking - application=%d eligible=%t", applicationID, eligible)
	handlers.RespondJSON(w, http.StatusOK, EligibilityResponse{
		ApplicationID: applicationID,
		Eligible:      eligible,
	})
}

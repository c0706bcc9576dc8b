package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/friplass/booking-api/internal/api/handlers"
	"github.com/friplass/booking-api/internal/api/middleware"
	"github.com/friplass/booking-api/internal/domain"
	checkAvailability "github.com/friplass/booking-api/internal/usecase/check_availability"
)

const (
	msgInvalidResourceID = "invalid resource id"
	msgInvalidBody       = "invalid request body"
	msgInvalidRange      = "invalid time range"
)

// AvailabilityRequest is the HTTP body of the availability check
type AvailabilityRequest struct {
	From string `json:"from"` // "2006-01-02 15:04:05"
	To   string `json:"to"`
	SSN  string `json:"ssn,omitempty"`
}

type Handler struct {
	useCase AvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/availability - invalid resource id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var body AvailabilityRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /resources/{id}/availability - invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	from, err := time.Parse(domain.DateTimeFormat, body.From)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, err := time.Parse(domain.DateTimeFormat, body.To)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		ResourceID: resourceID,
		From:       from,
		To:         to,
		SessionID:  middleware.SessionFromContext(r.Context()),
		SSN:        body.SSN,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("POST /resources/{id}/availability - resource=%d failed: %v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/availability - resource=%d available=%t", resourceID, result.Available)
	handlers.RespondJSON(w, http.StatusOK, result)
}

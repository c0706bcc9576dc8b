package get_building_freetime

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/friplass/booking-api/internal/api/handlers"
	"github.com/friplass/booking-api/internal/domain"
	getFreetime "github.com/friplass/booking-api/internal/usecase/get_freetime"
)

const (
	msgInvalidBuildingID = "invalid building id"
	msgMissingDates      = "start_date and end_date are required"
	msgInvalidDate       = "invalid date format, expected YYYY-MM-DD"
	msgInvalidRange      = "invalid date range"
)

type Handler struct {
	useCase FreetimeUseCase
	logger  Logger
}

func NewHandler(useCase FreetimeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/buildings/{buildingId}/freetime
// Query params: start_date (required), end_date (required), detailed
// (optional), stop_on_end_date (optional, defaults to detailed)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	buildingID, err := strconv.ParseInt(vars["buildingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /buildings/{id}/freetime - invalid building id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBuildingID)
		return
	}

	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")
	if startStr == "" || endStr == "" {
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	startDate, err := time.Parse(domain.DateFormat, startStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	endDate, err := time.Parse(domain.DateFormat, endStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	stopOnEndDate := detailed
	if v := r.URL.Query().Get("stop_on_end_date"); v != "" {
		stopOnEndDate, _ = strconv.ParseBool(v)
	}

	result, err := h.useCase.ForBuilding(r.Context(), &getFreetime.BuildingRequest{
		BuildingID:      buildingID,
		StartDate:       startDate,
		EndDate:         endDate,
		DetailedOverlap: detailed,
		StopOnEndDate:   stopOnEndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, getFreetime.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("GET /buildings/{id}/freetime - building=%d failed: %v", buildingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /buildings/{id}/freetime - building=%d, %d resource(s)", buildingID, len(result.Resources))
	handlers.RespondJSON(w, http.StatusOK, result)
}

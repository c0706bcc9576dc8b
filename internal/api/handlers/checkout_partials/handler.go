package checkout_partials

import (
	"errors"
	"net/http"

	"github.com/friplass/booking-api/internal/api/handlers"
	"github.com/friplass/booking-api/internal/api/middleware"
	checkoutUC "github.com/friplass/booking-api/internal/usecase/checkout"
)

const (
	msgInvalidBody     = "invalid request body"
	msgNoPartials      = "no partial applications to check out"
	msgValidationError = "validation failed"
)

type Handler struct {
	useCase CheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/applications/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionFromContext(r.Context())

	var body CheckoutRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /applications/checkout - invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), body.ToUseCaseRequest(sessionID))
	if err != nil {
		if ve, ok := checkoutUC.AsValidationError(err); ok {
			h.logger.Warn("POST /applications/checkout - validation failed with %d issue(s)", len(ve.Issues))
			handlers.RespondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:  msgValidationError,
				Issues: ve.Issues,
			})
			return
		}

		switch {
		case errors.Is(err, checkoutUC.ErrNoPartials):
			h.logger.Warn("POST /applications/checkout - session holds no drafts")
			handlers.RespondNotFound(w, msgNoPartials)
		default:
			h.logger.Error("POST /applications/checkout - failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /applications/checkout - finalized %d application(s)", len(result.Applications))
	handlers.RespondJSON(w, http.StatusOK, result)
}

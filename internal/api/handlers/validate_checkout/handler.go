package validate_checkout

import (
	"errors"
	"net/http"

	"github.com/friplass/booking-api/internal/api/handlers"
	checkoutHandler "github.com/friplass/booking-api/internal/api/handlers/checkout_partials"
	"github.com/friplass/booking-api/internal/api/middleware"
	checkoutUC "github.com/friplass/booking-api/internal/usecase/checkout"
)

const (
	msgInvalidBody = "invalid request body"
	msgNoPartials  = "no partial applications to validate"
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

// Handle POST /api/v1/applications/checkout/validate
// Same body as checkout; nothing is written.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionFromContext(r.Context())

	var body checkoutHandler.CheckoutRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /applications/checkout/validate - invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.useCase.Validate(r.Context(), body.ToUseCaseRequest(sessionID))
	if err != nil {
		switch {
		case errors.Is(err, checkoutUC.ErrNoPartials):
			h.logger.Warn("POST /applications/checkout/validate - session holds no drafts")
			handlers.RespondNotFound(w, msgNoPartials)
		default:
			h.logger.Error("POST /applications/checkout/validate - failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /applications/checkout/validate - valid=%t, %d application(s)", result.Valid, len(result.Applications))
	handlers.RespondJSON(w, http.StatusOK, result)
}

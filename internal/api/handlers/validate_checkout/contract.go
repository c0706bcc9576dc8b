package validate_checkout

import (
	"context"

	checkoutUC "github.com/friplass/booking-api/internal/usecase/checkout"
)

type CheckoutUseCase interface {
	Validate(ctx context.Context, req *checkoutUC.Request) (*checkoutUC.ValidateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

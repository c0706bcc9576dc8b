package get_resource_freetime

import (
	"context"

	getFreetime "github.com/friplass/booking-api/internal/usecase/get_freetime"
)

type FreetimeUseCase interface {
	ForResource(ctx context.Context, req *getFreetime.ResourceRequest) (*getFreetime.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_building_freetime

import (
	"context"

	getFreetime "github.com/friplass/booking-api/internal/usecase/get_freetime"
)

type FreetimeUseCase interface {
	ForBuilding(ctx context.Context, req *getFreetime.BuildingRequest) (*getFreetime.BuildingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

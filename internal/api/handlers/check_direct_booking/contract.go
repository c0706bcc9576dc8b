package check_direct_booking

import "context"

type ApplicationsService interface {
	IsDirectBookingEligible(ctx context.Context, id int64, sessionID, ssn string) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

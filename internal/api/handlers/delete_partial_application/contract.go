package delete_partial_application

import "context"

type ApplicationsService interface {
	DeletePartial(ctx context.Context, id int64, sessionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package application

import "errors"

var (
	// ErrApplicationNotFound is returned when the application does not exist
	ErrApplicationNotFound = errors.New("application.repository: application not found")

	// ErrNotDraft is returned when a draft-only operation hits a finalized application
	ErrNotDraft = errors.New("application.repository: application is not a draft")

	// ErrBuildQuery is returned when building a SQL statement fails
	ErrBuildQuery = errors.New("application.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails
	ErrExecQuery = errors.New("application.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("application.repository: failed to scan row")
)

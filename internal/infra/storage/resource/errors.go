package resource

import "errors"

var (
	// ErrResourceNotFound is returned when the resource does not exist
	ErrResourceNotFound = errors.New("resource.repository: resource not found")

	// ErrBuildQuery is returned when building a SQL statement fails
	ErrBuildQuery = errors.New("resource.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails
	ErrExecQuery = errors.New("resource.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("resource.repository: failed to scan row")
)

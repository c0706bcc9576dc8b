package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/pkg/dbmetrics"
	"github.com/friplass/booking-api/pkg/psqlbuilder"
)

// Repository reads resource records and their booking configuration.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the resource repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var resourceColumns = []string{
	"id",
	"name",
	"building_id",
	"activity_id",
	"active",
	"hidden_in_frontend",
	"deactivate_calendar",
	"simple_booking",
	"direct_booking",
	"booking_limit_number",
	"booking_limit_number_horizont",
	"booking_day_horizon",
	"booking_month_horizon",
	"booking_time_minutes",
	"booking_time_default_start",
	"booking_time_default_end",
	"capacity",
	"sort",
}

// GetByID loads one resource by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("bb_resource").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}
	return res, nil
}

// GetByApplicationID loads every resource attached to the application.
func (r *Repository) GetByApplicationID(ctx context.Context, applicationID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cols := make([]string, len(resourceColumns))
	for i, c := range resourceColumns {
		cols[i] = "r." + c
	}

	query, args, err := psqlbuilder.Select(cols...).
		From("bb_resource r").
		Join("bb_application_resource ar ON r.id = ar.resource_id").
		Where(squirrel.Eq{"ar.application_id": applicationID}).
		OrderBy("r.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByApplicationID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByApplicationID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanResources(rows)
}

// GetSimpleBookingResource loads one resource and verifies it is exposed for
// simple booking: active, calendar enabled, not hidden, simple booking on.
func (r *Repository) GetSimpleBookingResource(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("bb_resource").
		Where(squirrel.Eq{
			"id":                  id,
			"active":              true,
			"hidden_in_frontend":  false,
			"deactivate_calendar": false,
			"simple_booking":      true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSimpleBookingResource - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSimpleBookingResource - scan resource: %v", ErrScanRow, err)
	}
	return res, nil
}

// GetSimpleBookingResourcesForBuilding lists the building's resources exposed
// for simple booking, in frontend display order.
func (r *Repository) GetSimpleBookingResourcesForBuilding(ctx context.Context, buildingID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("bb_resource").
		Where(squirrel.Eq{
			"building_id":         buildingID,
			"active":              true,
			"hidden_in_frontend":  false,
			"deactivate_calendar": false,
			"simple_booking":      true,
		}).
		OrderBy("sort ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSimpleBookingResourcesForBuilding - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSimpleBookingResourcesForBuilding - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanResources(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var res domain.Resource
	var activityID, directBooking sql.NullInt64
	var limitNumber, limitHorizon, dayHorizon, monthHorizon sql.NullInt64
	var slotMinutes, dayStart, dayEnd, capacity, sort sql.NullInt64

	err := row.Scan(
		&res.ID,
		&res.Name,
		&res.BuildingID,
		&activityID,
		&res.Active,
		&res.HiddenInFrontend,
		&res.DeactivateCalendar,
		&res.SimpleBooking,
		&directBooking,
		&limitNumber,
		&limitHorizon,
		&dayHorizon,
		&monthHorizon,
		&slotMinutes,
		&dayStart,
		&dayEnd,
		&capacity,
		&sort,
	)
	if err != nil {
		return nil, err
	}

	if activityID.Valid {
		res.ActivityID = &activityID.Int64
	}
	if directBooking.Valid {
		res.DirectBooking = &directBooking.Int64
	}
	res.BookingLimitNumber = int(limitNumber.Int64)
	res.BookingLimitHorizonDays = int(limitHorizon.Int64)
	res.BookingDayHorizon = int(dayHorizon.Int64)
	res.BookingMonthHorizon = int(monthHorizon.Int64)
	if slotMinutes.Valid {
		v := int(slotMinutes.Int64)
		res.BookingTimeMinutes = &v
	}
	if dayStart.Valid {
		v := int(dayStart.Int64)
		res.BookingTimeDefaultStart = &v
	}
	if dayEnd.Valid {
		v := int(dayEnd.Int64)
		res.BookingTimeDefaultEnd = &v
	}
	if capacity.Valid {
		v := int(capacity.Int64)
		res.Capacity = &v
	}
	res.Sort = int(sort.Int64)

	return &res, nil
}

func scanResources(rows *sql.Rows) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan resource: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}
	return resources, nil
}

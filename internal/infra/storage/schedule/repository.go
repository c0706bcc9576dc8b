package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/pkg/dbmetrics"
	"github.com/friplass/booking-api/pkg/psqlbuilder"
)

// Repository reads the calendar occupants of resources and writes the
// schedule entities produced by direct booking.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the schedule repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetScheduledItems loads everything occupying time on the given resources
// within [from, to): events, allocations, bookings, blocks, and applications
// including drafts. Resource ids are aggregated per item.
//
// Callers widen the window themselves when they need edge coverage.
func (r *Repository) GetScheduledItems(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.ScheduledItem, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	const query = `
		SELECT be.id, 'event' AS type, be.from_, be.to_,
		       array_agg(DISTINCT ber.resource_id) AS resource_ids, '' AS status
		  FROM bb_event be
		  JOIN bb_event_resource ber ON be.id = ber.event_id
		 WHERE ber.resource_id = ANY($1)
		   AND be.active = 1
		   AND be.from_ < $3 AND be.to_ > $2
		 GROUP BY be.id, be.from_, be.to_
		UNION ALL
		SELECT ba.id, 'allocation' AS type, ba.from_, ba.to_,
		       array_agg(DISTINCT bar.resource_id), '' AS status
		  FROM bb_allocation ba
		  JOIN bb_allocation_resource bar ON ba.id = bar.allocation_id
		 WHERE bar.resource_id = ANY($1)
		   AND ba.active = 1
		   AND ba.from_ < $3 AND ba.to_ > $2
		 GROUP BY ba.id, ba.from_, ba.to_
		UNION ALL
		SELECT bo.id, 'booking' AS type, bo.from_, bo.to_,
		       array_agg(DISTINCT bor.resource_id), '' AS status
		  FROM bb_booking bo
		  JOIN bb_booking_resource bor ON bo.id = bor.booking_id
		 WHERE bor.resource_id = ANY($1)
		   AND bo.active = 1
		   AND bo.from_ < $3 AND bo.to_ > $2
		 GROUP BY bo.id, bo.from_, bo.to_
		UNION ALL
		SELECT bl.id, 'block' AS type, bl.from_, bl.to_,
		       ARRAY[bl.resource_id], COALESCE(bl.session_id, '') AS status
		  FROM bb_block bl
		 WHERE bl.resource_id = ANY($1)
		   AND bl.active = 1
		   AND bl.from_ < $3 AND bl.to_ > $2
		UNION ALL
		SELECT a.id, 'application' AS type, ad.from_, ad.to_,
		       array_agg(DISTINCT ar.resource_id), a.status
		  FROM bb_application a
		  JOIN bb_application_resource ar ON a.id = ar.application_id
		  JOIN bb_application_date ad ON a.id = ad.application_id
		 WHERE ar.resource_id = ANY($1)
		   AND a.active = 1
		   AND a.status <> 'REJECTED'
		   AND ad.from_ < $3 AND ad.to_ > $2
		 GROUP BY a.id, ad.from_, ad.to_, a.status
		 ORDER BY from_ ASC`

	rows, err := executor.QueryContext(ctx, query, pq.Array(resourceIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduledItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.ScheduledItem, 0)
	for rows.Next() {
		var item domain.ScheduledItem
		var itemType string
		var ids pq.Int64Array

		if err := rows.Scan(&item.ID, &itemType, &item.From, &item.To, &ids, &item.Status); err != nil {
			return nil, fmt.Errorf("%w: GetScheduledItems - scan item: %v", ErrScanRow, err)
		}
		item.Type = domain.ScheduledItemType(itemType)
		item.ResourceIDs = []int64(ids)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetScheduledItems - rows error: %v", ErrScanRow, err)
	}
	return items, nil
}

// CreateEventFromApplication materializes one accepted application date as a
// confirmed event, carrying over contact data and the resource set. Returns
// the event id.
func (r *Repository) CreateEventFromApplication(ctx context.Context, app *domain.Application, date domain.ApplicationDate) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bb_event").
		Columns(
			"active",
			"application_id",
			"activity_id",
			"building_id",
			"name",
			"organizer",
			"description",
			"equipment",
			"contact_name",
			"contact_email",
			"contact_phone",
			"customer_identifier_type",
			"customer_ssn",
			"customer_organization_number",
			"customer_organization_name",
			"from_",
			"to_",
			"completed",
			"is_public",
			"include_in_list",
			"reminder",
		).
		Values(
			1,
			app.ID,
			app.ActivityID,
			app.BuildingID,
			app.Name,
			app.Organizer,
			app.Description,
			app.Equipment,
			app.ContactName,
			app.ContactEmail,
			app.ContactPhone,
			app.CustomerIdentifierType,
			app.CustomerSSN,
			app.CustomerOrganizationNumber,
			app.CustomerOrganizationName,
			date.From,
			date.To,
			0,
			0,
			0,
			1,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateEventFromApplication - build insert query: %v", ErrBuildQuery, err)
	}

	var eventID int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&eventID); err != nil {
		return 0, fmt.Errorf("%w: CreateEventFromApplication - execute insert: %v", ErrExecQuery, err)
	}

	for _, resourceID := range app.ResourceIDs {
		query, args, err := psqlbuilder.Insert("bb_event_resource").
			Columns("event_id", "resource_id").
			Values(eventID, resourceID).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("%w: CreateEventFromApplication - build resource insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("%w: CreateEventFromApplication - insert resource: %v", ErrExecQuery, err)
		}
	}

	return eventID, nil
}

// AttachPurchaseOrdersToEvent repoints the application's purchase orders at
// the created event so payment follows the confirmed booking.
func (r *Repository) AttachPurchaseOrdersToEvent(ctx context.Context, applicationID, eventID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bb_purchase_order").
		Set("reservation_type", "event").
		Set("reservation_id", eventID).
		Where(squirrel.Eq{"application_id": applicationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachPurchaseOrdersToEvent - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AttachPurchaseOrdersToEvent - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

// BlockExists reports whether the session holds an active block on the
// resource for exactly [from, to].
func (r *Repository) BlockExists(ctx context.Context, sessionID string, resourceID int64, from, to time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bb_block").
		Where(squirrel.Eq{
			"session_id":  sessionID,
			"resource_id": resourceID,
			"active":      1,
			"from_":       from,
			"to_":         to,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: BlockExists - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: BlockExists - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: BlockExists - rows error: %v", ErrScanRow, err)
	}
	return exists, nil
}

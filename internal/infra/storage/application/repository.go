package application

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/pkg/dbmetrics"
	"github.com/friplass/booking-api/pkg/psqlbuilder"
)

// Repository persists booking applications and their associations.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the application repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var applicationColumns = []string{
	"id",
	"secret",
	"status",
	"parent_id",
	"active",
	"session_id",
	"customer_identifier_type",
	"customer_ssn",
	"customer_organization_number",
	"customer_organization_name",
	"owner_id",
	"contact_name",
	"contact_email",
	"contact_phone",
	"responsible_street",
	"responsible_zip_code",
	"responsible_city",
	"name",
	"organizer",
	"building_id",
	"activity_id",
	"description",
	"equipment",
	"created",
	"modified",
}

// GetPartialsBySession loads every draft owned by the session, with dates and
// resource ids attached, ordered by id. Inside a transaction the rows are
// locked with FOR UPDATE so a concurrent checkout of the same session
// serializes on them.
func (r *Repository) GetPartialsBySession(ctx context.Context, sessionID string) ([]*domain.Application, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(applicationColumns...).
		From("bb_application").
		Where(squirrel.Eq{"status": domain.StatusNewPartial}).
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPartialsBySession - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPartialsBySession - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	apps, err := r.scanApplications(rows)
	if err != nil {
		return nil, err
	}

	for _, app := range apps {
		if err := r.loadAssociations(ctx, app); err != nil {
			return nil, err
		}
	}

	return apps, nil
}

// GetByID loads a single application with dates and resource ids.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(applicationColumns...).
		From("bb_application").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	apps, err := r.scanApplications(rows)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrApplicationNotFound
	}

	app := apps[0]
	if err := r.loadAssociations(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// CreatePartial inserts a new draft for the session with its dates and
// resource associations. Returns the created application.
func (r *Repository) CreatePartial(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePartial - generate secret: %v", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Insert("bb_application").
		Columns(
			"secret",
			"status",
			"active",
			"session_id",
			"contact_name",
			"contact_email",
			"contact_phone",
			"responsible_street",
			"responsible_zip_code",
			"responsible_city",
			"name",
			"organizer",
			"building_id",
			"activity_id",
			"description",
			"equipment",
			"created",
			"modified",
		).
		Values(
			secret,
			domain.StatusNewPartial,
			true,
			app.SessionID,
			app.ContactName,
			app.ContactEmail,
			app.ContactPhone,
			app.ResponsibleStreet,
			app.ResponsibleZipCode,
			app.ResponsibleCity,
			app.Name,
			app.Organizer,
			app.BuildingID,
			app.ActivityID,
			app.Description,
			app.Equipment,
			squirrel.Expr("NOW()"),
			squirrel.Expr("NOW()"),
		).
		Suffix("RETURNING id, created, modified").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePartial - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&app.ID, &app.Created, &app.Modified); err != nil {
		return nil, fmt.Errorf("%w: CreatePartial - execute insert: %v", ErrExecQuery, err)
	}

	app.Secret = secret
	app.Status = domain.StatusNewPartial
	app.Active = true

	for _, resourceID := range app.ResourceIDs {
		query, args, err := psqlbuilder.Insert("bb_application_resource").
			Columns("application_id", "resource_id").
			Values(app.ID, resourceID).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: CreatePartial - build resource insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: CreatePartial - insert resource: %v", ErrExecQuery, err)
		}
	}

	for i := range app.Dates {
		date := &app.Dates[i]
		query, args, err := psqlbuilder.Insert("bb_application_date").
			Columns("application_id", "from_", "to_").
			Values(app.ID, date.From, date.To).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: CreatePartial - build date insert: %v", ErrBuildQuery, err)
		}
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&date.ID); err != nil {
			return nil, fmt.Errorf("%w: CreatePartial - insert date: %v", ErrExecQuery, err)
		}
		date.ApplicationID = app.ID
	}

	return app, nil
}

// Finalize stamps the checkout fields on a draft: contact and customer data,
// the new status, the parent group reference, and a cleared session id.
func (r *Repository) Finalize(ctx context.Context, id int64, stamp domain.FinalizationStamp) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bb_application").
		Set("status", stamp.Status).
		Set("parent_id", stamp.ParentID).
		Set("session_id", nil).
		Set("customer_identifier_type", stamp.CustomerIdentifierType).
		Set("customer_ssn", stamp.CustomerSSN).
		Set("customer_organization_number", stamp.CustomerOrganizationNumber).
		Set("customer_organization_name", stamp.CustomerOrganizationName).
		Set("contact_name", stamp.ContactName).
		Set("contact_email", stamp.ContactEmail).
		Set("contact_phone", stamp.ContactPhone).
		Set("responsible_street", stamp.ResponsibleStreet).
		Set("responsible_zip_code", stamp.ResponsibleZipCode).
		Set("responsible_city", stamp.ResponsibleCity).
		Set("name", stamp.Name).
		Set("organizer", stamp.Organizer).
		Set("modified", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Finalize - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Finalize - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Finalize - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// CountBySSNAndResource counts the customer's non-rejected, active
// applications attached to the resource within the trailing horizon days.
// Feeds the rolling booking-limit check.
func (r *Repository) CountBySSNAndResource(ctx context.Context, resourceID int64, ssn string, horizonDays int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bb_application a").
		Join("bb_application_resource ar ON a.id = ar.application_id").
		Where(squirrel.Eq{"ar.resource_id": resourceID}).
		Where(squirrel.Eq{"a.customer_ssn": ssn}).
		Where(squirrel.NotEq{"a.status": domain.StatusRejected}).
		Where(squirrel.Eq{"a.active": true}).
		Where(squirrel.Expr("a.created >= NOW() - (INTERVAL '1 day' * ?)", horizonDays)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountBySSNAndResource - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBySSNAndResource - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// CheckCollision reports whether [from, to] collides, boundary-inclusive,
// with any calendar occupant on any of the resources: active blocks (other
// sessions only), allocations, events, and finalized non-rejected
// applications whose session is null or different from excludeSessionID.
func (r *Repository) CheckCollision(ctx context.Context, resourceIDs []int64, from, to time.Time, excludeSessionID string) (bool, error) {
	if len(resourceIDs) == 0 {
		return false, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Boundary-inclusive predicate: either endpoint of one range inside the
	// other, endpoints included. $2=from, $3=to, $4=session.
	const query = `
		SELECT b.id, 'block' AS type
		  FROM bb_block b
		 WHERE b.resource_id = ANY($1)
		   AND b.active = 1
		   AND (b.from_ BETWEEN $2 AND $3 OR b.to_ BETWEEN $2 AND $3
		        OR $2 BETWEEN b.from_ AND b.to_ OR $3 BETWEEN b.from_ AND b.to_)
		   AND (b.session_id IS NULL OR b.session_id <> $4)
		UNION
		SELECT ba.id, 'allocation' AS type
		  FROM bb_allocation ba
		  JOIN bb_allocation_resource bar ON ba.id = bar.allocation_id
		 WHERE bar.resource_id = ANY($1)
		   AND ba.active = 1
		   AND (ba.from_ BETWEEN $2 AND $3 OR ba.to_ BETWEEN $2 AND $3
		        OR $2 BETWEEN ba.from_ AND ba.to_ OR $3 BETWEEN ba.from_ AND ba.to_)
		UNION
		SELECT be.id, 'event' AS type
		  FROM bb_event be
		  JOIN bb_event_resource ber ON be.id = ber.event_id
		 WHERE ber.resource_id = ANY($1)
		   AND be.active = 1
		   AND (be.from_ BETWEEN $2 AND $3 OR be.to_ BETWEEN $2 AND $3
		        OR $2 BETWEEN be.from_ AND be.to_ OR $3 BETWEEN be.from_ AND be.to_)
		UNION
		SELECT a.id, 'application' AS type
		  FROM bb_application a
		  JOIN bb_application_resource ar ON a.id = ar.application_id
		  JOIN bb_application_date ad ON a.id = ad.application_id
		 WHERE ar.resource_id = ANY($1)
		   AND a.active = 1
		   AND a.status NOT IN ('REJECTED', 'NEWPARTIAL1')
		   AND (a.session_id IS NULL OR a.session_id <> $4)
		   AND (ad.from_ BETWEEN $2 AND $3 OR ad.to_ BETWEEN $2 AND $3
		        OR $2 BETWEEN ad.from_ AND ad.to_ OR $3 BETWEEN ad.from_ AND ad.to_)
		LIMIT 1`

	rows, err := executor.QueryContext(ctx, query, pq.Array(resourceIDs), from, to, excludeSessionID)
	if err != nil {
		return false, fmt.Errorf("%w: CheckCollision - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	collides := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: CheckCollision - rows error: %v", ErrScanRow, err)
	}
	return collides, nil
}

// DeletePartial hard-deletes a draft and its associated rows. Finalized
// applications are never hard-deleted; attempting to returns ErrNotDraft.
func (r *Repository) DeletePartial(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var status domain.ApplicationStatus
	query, args, err := psqlbuilder.Select("status").
		From("bb_application").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeletePartial - build select query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrApplicationNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: DeletePartial - scan status: %v", ErrScanRow, err)
	}
	if status != domain.StatusNewPartial {
		return ErrNotDraft
	}

	// Cascade order matters: children before the application row.
	cascades := []struct {
		table string
		where squirrel.Sqlizer
	}{
		{"bb_purchase_order_line", squirrel.Expr(
			"order_id IN (SELECT id FROM bb_purchase_order WHERE application_id = ?)", id)},
		{"bb_purchase_order", squirrel.Eq{"application_id": id}},
		{"bb_application_comment", squirrel.Eq{"application_id": id}},
		{"bb_application_date", squirrel.Eq{"application_id": id}},
		{"bb_application_resource", squirrel.Eq{"application_id": id}},
		{"bb_application", squirrel.Eq{"id": id}},
	}

	for _, c := range cascades {
		query, args, err := psqlbuilder.Delete(c.table).Where(c.where).ToSql()
		if err != nil {
			return fmt.Errorf("%w: DeletePartial - build delete for %s: %v", ErrBuildQuery, c.table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: DeletePartial - delete from %s: %v", ErrExecQuery, c.table, err)
		}
	}

	return nil
}

// scanApplications reads application rows into domain structs.
func (r *Repository) scanApplications(rows *sql.Rows) ([]*domain.Application, error) {
	apps := make([]*domain.Application, 0)

	for rows.Next() {
		var app domain.Application
		var created, modified sql.NullTime
		var customerType sql.NullString

		err := rows.Scan(
			&app.ID,
			&app.Secret,
			&app.Status,
			&app.ParentID,
			&app.Active,
			&app.SessionID,
			&customerType,
			&app.CustomerSSN,
			&app.CustomerOrganizationNumber,
			&app.CustomerOrganizationName,
			&app.OwnerID,
			&app.ContactName,
			&app.ContactEmail,
			&app.ContactPhone,
			&app.ResponsibleStreet,
			&app.ResponsibleZipCode,
			&app.ResponsibleCity,
			&app.Name,
			&app.Organizer,
			&app.BuildingID,
			&app.ActivityID,
			&app.Description,
			&app.Equipment,
			&created,
			&modified,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan application: %v", ErrScanRow, err)
		}

		if customerType.Valid {
			ct := domain.CustomerType(customerType.String)
			app.CustomerIdentifierType = &ct
		}
		app.Created = created.Time
		app.Modified = modified.Time

		apps = append(apps, &app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}
	return apps, nil
}

// loadAssociations attaches dates and resource ids to the application.
func (r *Repository) loadAssociations(ctx context.Context, app *domain.Application) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "application_id", "from_", "to_").
		From("bb_application_date").
		Where(squirrel.Eq{"application_id": app.ID}).
		OrderBy("from_ ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadAssociations - build dates query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAssociations - query dates: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	app.Dates = app.Dates[:0]
	for rows.Next() {
		var date domain.ApplicationDate
		if err := rows.Scan(&date.ID, &date.ApplicationID, &date.From, &date.To); err != nil {
			return fmt.Errorf("%w: loadAssociations - scan date: %v", ErrScanRow, err)
		}
		app.Dates = append(app.Dates, date)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadAssociations - dates rows error: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select("resource_id").
		From("bb_application_resource").
		Where(squirrel.Eq{"application_id": app.ID}).
		OrderBy("resource_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadAssociations - build resources query: %v", ErrBuildQuery, err)
	}

	resourceRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAssociations - query resources: %v", ErrExecQuery, err)
	}
	defer resourceRows.Close()

	app.ResourceIDs = app.ResourceIDs[:0]
	for resourceRows.Next() {
		var resourceID int64
		if err := resourceRows.Scan(&resourceID); err != nil {
			return fmt.Errorf("%w: loadAssociations - scan resource id: %v", ErrScanRow, err)
		}
		app.ResourceIDs = append(app.ResourceIDs, resourceID)
	}
	if err := resourceRows.Err(); err != nil {
		return fmt.Errorf("%w: loadAssociations - resources rows error: %v", ErrScanRow, err)
	}

	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

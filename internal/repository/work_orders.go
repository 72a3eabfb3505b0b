package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workorder-api/internal/apperror"
	"workorder-api/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const workOrderSelect = `
	SELECT
		w.id, w.title, w.description, w.status, w.priority, w.location_id,
		w.assigned_to_user_id, w.created_by_user_id, w.created_at, w.updated_at,
		l.id, l.name, l.address, l.city, l.state_province, l.postal_code, l.country,
		l.latitude, l.longitude, l.created_at, l.updated_at
	FROM work_orders w
	LEFT JOIN locations l ON l.id = w.location_id
`

// joinedLocation holds the nullable side of the location join.
type joinedLocation struct {
	ID            *uuid.UUID
	Name          *string
	Address       *string
	City          *string
	StateProvince *string
	PostalCode    *string
	Country       *string
	Latitude      *float64
	Longitude     *float64
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

func (j joinedLocation) location() *models.Location {
	if j.ID == nil {
		return nil
	}
	return &models.Location{
		ID:            *j.ID,
		Name:          j.Name,
		Address:       j.Address,
		City:          j.City,
		StateProvince: j.StateProvince,
		PostalCode:    j.PostalCode,
		Country:       j.Country,
		Latitude:      j.Latitude,
		Longitude:     j.Longitude,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func scanWorkOrder(row pgx.Row) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	var loc joinedLocation
	err := row.Scan(
		&wo.ID,
		&wo.Title,
		&wo.Description,
		&wo.Status,
		&wo.Priority,
		&wo.LocationID,
		&wo.AssignedToUserID,
		&wo.CreatedByUserID,
		&wo.CreatedAt,
		&wo.UpdatedAt,
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.City,
		&loc.StateProvince,
		&loc.PostalCode,
		&loc.Country,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	wo.Location = loc.location()
	return &wo, nil
}

// filterClause builds the WHERE clause shared by the page and count queries.
func filterClause(f models.WorkOrderFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("w.%s = $%d", column, len(args)))
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}
	if f.Priority != "" {
		add("priority", string(f.Priority))
	}
	if f.AssignedTo != nil {
		add("assigned_to_user_id", *f.AssignedTo)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListWorkOrders returns one page of work orders with their locations embedded.
func (r *Repository) ListWorkOrders(ctx context.Context, f models.WorkOrderFilter, offset, limit int) ([]models.WorkOrder, error) {
	where, args := filterClause(f)
	args = append(args, limit, offset)
	sql := workOrderSelect + where +
		fmt.Sprintf(" ORDER BY w.created_at DESC, w.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, "failed to query work orders")
	}
	defer rows.Close()

	workOrders := []models.WorkOrder{}
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, translate(err, "failed to scan work order")
		}
		workOrders = append(workOrders, *wo)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "error iterating work orders")
	}
	return workOrders, nil
}

// CountWorkOrders returns the number of work orders matching f.
func (r *Repository) CountWorkOrders(ctx context.Context, f models.WorkOrderFilter) (int, error) {
	where, args := filterClause(f)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM work_orders w"+where, args...).Scan(&total); err != nil {
		return 0, translate(err, "failed to count work orders")
	}
	return total, nil
}

// GetWorkOrder returns the work order joined with its location, or nil when absent.
func (r *Repository) GetWorkOrder(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	wo, err := scanWorkOrder(r.db.QueryRow(ctx, workOrderSelect+" WHERE w.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, translate(err, "failed to get work order")
	}
	return wo, nil
}

// WorkOrderExists reports whether a work order with id exists.
func (r *Repository) WorkOrderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM work_orders WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, translate(err, "failed to check work order")
	}
	return exists, nil
}

// InsertWorkOrder stores wo and returns the generated id, or uuid.Nil when the insert
// produced no row.
func (r *Repository) InsertWorkOrder(ctx context.Context, wo models.NewWorkOrder) (uuid.UUID, error) {
	sql := `
		INSERT INTO work_orders (title, description, status, priority, location_id, assigned_to_user_id, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, sql,
		wo.Title,
		wo.Description,
		string(wo.Status),
		string(wo.Priority),
		wo.LocationID,
		wo.AssignedToUserID,
		wo.CreatedByUserID,
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return uuid.Nil, nil
		}
		return uuid.Nil, translate(err, "failed to insert work order")
	}
	return id, nil
}

// updatableColumns are the work order columns a partial update may set.
var updatableColumns = map[string]bool{
	"title":               true,
	"description":         true,
	"status":              true,
	"priority":            true,
	"location_id":         true,
	"assigned_to_user_id": true,
}

// UpdateWorkOrder applies changes to the work order and returns the affected row count.
func (r *Repository) UpdateWorkOrder(ctx context.Context, id uuid.UUID, changes []models.ColumnValue) (int64, error) {
	if len(changes) == 0 {
		return 0, nil
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	args = append(args, id)
	for _, c := range changes {
		if !updatableColumns[c.Column] {
			return 0, apperror.Validation(fmt.Sprintf("Field %q cannot be updated", c.Column))
		}
		args = append(args, normalizeValue(c.Value))
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c.Column), len(args)))
	}
	sets = append(sets, "updated_at = now()")

	sql := "UPDATE work_orders SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, translate(err, "failed to update work order")
	}
	return tag.RowsAffected(), nil
}

// DeleteWorkOrder removes the work order and returns the affected row count.
func (r *Repository) DeleteWorkOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM work_orders WHERE id = $1", id)
	if err != nil {
		return 0, translate(err, "failed to delete work order")
	}
	return tag.RowsAffected(), nil
}

// normalizeValue converts enum types to plain strings for the driver.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case models.WorkOrderStatus:
		return string(t)
	case models.WorkOrderPriority:
		return string(t)
	default:
		return v
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// UnitRepo reads and writes the 'order_item_units' table.
type UnitRepo struct{ DB *sql.DB }

func NewUnitRepo(db *sql.DB) *UnitRepo { return &UnitRepo{DB: db} }

func scanUnit(row rowScanner) (model.OrderItemUnit, error) {
	var u model.OrderItemUnit
	err := row.Scan(&u.ID, &u.OrderItemID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

// CreateBulk inserts n pending units for an item and returns them oldest
// first.  Call it inside a transaction so the batch is all or nothing.
func (r *UnitRepo) CreateBulk(ctx context.Context, itemID uint64, n int) ([]model.OrderItemUnit, error) {
	db := conn(ctx, r.DB)
	ids := make([]any, 0, n)
	for i := 0; i < n; i++ {
		res, err := db.ExecContext(ctx,
			`INSERT INTO order_item_units (order_item_id, status) VALUES (?, ?)`,
			itemID, string(model.UnitPending))
		if err != nil {
			return nil, fmt.Errorf("insert unit: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	if len(ids) == 0 {
		return []model.OrderItemUnit{}, nil
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, order_item_id, status, created_at, updated_at FROM order_item_units
		 WHERE id IN (`+placeholders(len(ids))+`) ORDER BY id ASC`, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.OrderItemUnit, 0, n)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ListByOrder returns every unit of an order keyed by item id, each slice
// oldest first.
func (r *UnitRepo) ListByOrder(ctx context.Context, orderID uint64) (map[uint64][]model.OrderItemUnit, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT u.id, u.order_item_id, u.status, u.created_at, u.updated_at
		 FROM order_item_units u JOIN order_items oi ON oi.id = u.order_item_id
		 WHERE oi.order_id = ? ORDER BY u.created_at ASC, u.id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	out := make(map[uint64][]model.OrderItemUnit)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out[u.OrderItemID] = append(out[u.OrderItemID], u)
	}
	return out, rows.Err()
}

// GetRefForUpdate resolves a unit through its item and order, scoped by
// tenant, and locks the unit row.
func (r *UnitRepo) GetRefForUpdate(ctx context.Context, tenantID, unitID uint64) (model.UnitRef, error) {
	var (
		ref      model.UnitRef
		waiterID sql.NullInt64
	)
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT u.id, u.order_item_id, u.status, u.created_at, u.updated_at,
		        o.id, o.status, o.waiter_id, oi.product_name
		 FROM order_item_units u
		 JOIN order_items oi ON oi.id = u.order_item_id
		 JOIN orders o ON o.id = oi.order_id
		 WHERE u.id = ? AND o.tenant_id = ?
		 FOR UPDATE`, unitID, tenantID).Scan(
		&ref.Unit.ID, &ref.Unit.OrderItemID, &ref.Unit.Status, &ref.Unit.CreatedAt, &ref.Unit.UpdatedAt,
		&ref.OrderID, &ref.OrderStatus, &waiterID, &ref.ProductName)
	if err != nil {
		return model.UnitRef{}, mapErr(err)
	}
	ref.WaiterID = uint64Ptr(waiterID)
	return ref, nil
}

// SetStatus changes the status of a unit and returns the stored row.
func (r *UnitRepo) SetStatus(ctx context.Context, unitID uint64, status model.UnitStatus) (model.OrderItemUnit, error) {
	db := conn(ctx, r.DB)
	if _, err := db.ExecContext(ctx,
		`UPDATE order_item_units SET status = ? WHERE id = ?`, string(status), unitID); err != nil {
		return model.OrderItemUnit{}, err
	}
	row := db.QueryRowContext(ctx,
		`SELECT id, order_item_id, status, created_at, updated_at FROM order_item_units WHERE id = ?`, unitID)
	return scanUnit(row)
}

// Delete removes a unit.
func (r *UnitRepo) Delete(ctx context.Context, unitID uint64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM order_item_units WHERE id = ?`, unitID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

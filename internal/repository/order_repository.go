package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// OrderRepo reads and writes the 'orders' table.  Every lookup is scoped by
// tenant.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// orderSelect joins the waiter first name and the table number.
const orderSelect = `SELECT o.id, o.tenant_id, o.table_id, o.waiter_id, o.customer_name, o.type, o.status,
	o.subtotal, o.tax, o.total, o.notes, o.created_at, o.updated_at, u.first_name, t.number
	FROM orders o
	LEFT JOIN users u ON u.id = o.waiter_id
	LEFT JOIN restaurant_tables t ON t.id = o.table_id`

func scanOrder(row rowScanner, extra ...any) (model.Order, error) {
	var (
		o                       model.Order
		tableID, waiterID, tnum sql.NullInt64
		customer, notes, waiter sql.NullString
	)
	dest := []any{&o.ID, &o.TenantID, &tableID, &waiterID, &customer, &o.Type, &o.Status,
		&o.Subtotal, &o.Tax, &o.Total, &notes, &o.CreatedAt, &o.UpdatedAt, &waiter, &tnum}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Order{}, mapErr(err)
	}
	o.TableID = uint64Ptr(tableID)
	o.WaiterID = uint64Ptr(waiterID)
	o.CustomerName = stringPtr(customer)
	o.Notes = stringPtr(notes)
	o.WaiterName = stringPtr(waiter)
	o.TableNumber = intPtr(tnum)
	return o, nil
}

// Create inserts a pending order with zero totals and returns it as stored.
func (r *OrderRepo) Create(ctx context.Context, o model.Order) (model.Order, error) {
	if o.Status == "" {
		o.Status = model.OrderPending
	}
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO orders (tenant_id, table_id, waiter_id, customer_name, type, status, subtotal, tax, total, notes)
		 VALUES (?,?,?,?,?,?,0,0,0,?)`,
		o.TenantID, nullable(o.TableID), nullable(o.WaiterID), nullable(o.CustomerName),
		string(o.Type), string(o.Status), nullable(o.Notes))
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	return r.Get(ctx, o.TenantID, uint64(id))
}

// Get returns an order of the tenant with its joined display fields.
func (r *OrderRepo) Get(ctx context.Context, tenantID, orderID uint64) (model.Order, error) {
	row := conn(ctx, r.DB).QueryRowContext(ctx,
		orderSelect+` WHERE o.id = ? AND o.tenant_id = ?`, orderID, tenantID)
	return scanOrder(row)
}

// GetForUpdate returns an order of the tenant and locks its row until the
// surrounding transaction ends.
func (r *OrderRepo) GetForUpdate(ctx context.Context, tenantID, orderID uint64) (model.Order, error) {
	var (
		o                 model.Order
		tableID, waiterID sql.NullInt64
		customer, notes   sql.NullString
	)
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, tenant_id, table_id, waiter_id, customer_name, type, status,
		        subtotal, tax, total, notes, created_at, updated_at
		 FROM orders WHERE id = ? AND tenant_id = ? FOR UPDATE`,
		orderID, tenantID).Scan(&o.ID, &o.TenantID, &tableID, &waiterID, &customer, &o.Type, &o.Status,
		&o.Subtotal, &o.Tax, &o.Total, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	o.TableID = uint64Ptr(tableID)
	o.WaiterID = uint64Ptr(waiterID)
	o.CustomerName = stringPtr(customer)
	o.Notes = stringPtr(notes)
	return o, nil
}

// List returns the tenant's orders newest first, each with its item count.
func (r *OrderRepo) List(ctx context.Context, tenantID uint64, f model.OrderFilter) ([]model.OrderSummary, error) {
	q := `SELECT o.id, o.tenant_id, o.table_id, o.waiter_id, o.customer_name, o.type, o.status,
	o.subtotal, o.tax, o.total, o.notes, o.created_at, o.updated_at, u.first_name, t.number,
	(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS items_count
	FROM orders o
	LEFT JOIN users u ON u.id = o.waiter_id
	LEFT JOIN restaurant_tables t ON t.id = o.table_id
	WHERE o.tenant_id = ?`
	args := []any{tenantID}
	if f.Status != nil {
		q += ` AND o.status = ?`
		args = append(args, string(*f.Status))
	}
	q += ` ORDER BY o.created_at DESC, o.id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := conn(ctx, r.DB).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]model.OrderSummary, 0)
	for rows.Next() {
		var count int
		o, err := scanOrder(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, model.OrderSummary{Order: o, ItemsCount: count})
	}
	return out, rows.Err()
}

// UpdateTotals writes the derived money fields.
func (r *OrderRepo) UpdateTotals(ctx context.Context, orderID uint64, t model.Totals) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE orders SET subtotal = ?, tax = ?, total = ? WHERE id = ?`,
		t.Subtotal, t.Tax, t.Total, orderID)
	return err
}

// SetStatus changes the status of an order.
func (r *OrderRepo) SetStatus(ctx context.Context, orderID uint64, status model.OrderStatus) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, string(status), orderID)
	return err
}

// Delete removes an order; items and units go with it.
func (r *OrderRepo) Delete(ctx context.Context, orderID uint64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

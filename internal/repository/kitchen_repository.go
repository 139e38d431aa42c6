package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// KitchenRepo runs the read-only kitchen queries.  Orders in a terminal
// state are excluded everywhere except where noted.
type KitchenRepo struct{ DB *sql.DB }

func NewKitchenRepo(db *sql.DB) *KitchenRepo { return &KitchenRepo{DB: db} }

const (
	popularProductsLimit = 10
	oldestPendingLimit   = 5
)

// ListUnits returns the units with the given status, oldest first.
func (r *KitchenRepo) ListUnits(ctx context.Context, tenantID uint64, status model.UnitStatus) ([]model.KitchenUnit, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT u.id, u.status, u.created_at,
		        oi.id, oi.product_name, oi.quantity, oi.notes,
		        o.id, o.customer_name, o.type, t.number, w.first_name, o.created_at
		 FROM order_item_units u
		 JOIN order_items oi ON oi.id = u.order_item_id
		 JOIN orders o ON o.id = oi.order_id
		 LEFT JOIN restaurant_tables t ON t.id = o.table_id
		 LEFT JOIN users w ON w.id = o.waiter_id
		 WHERE o.tenant_id = ? AND u.status = ? AND o.status NOT IN ('completed','cancelled')
		 ORDER BY u.created_at ASC, u.id ASC`, tenantID, string(status))
	if err != nil {
		return nil, fmt.Errorf("kitchen units: %w", err)
	}
	defer rows.Close()

	out := make([]model.KitchenUnit, 0)
	for rows.Next() {
		var (
			k                       model.KitchenUnit
			notes, customer, waiter sql.NullString
			tableNumber             sql.NullInt64
		)
		if err := rows.Scan(&k.UnitID, &k.UnitStatus, &k.UnitCreatedAt,
			&k.ItemID, &k.ProductName, &k.Quantity, &notes,
			&k.OrderID, &customer, &k.OrderType, &tableNumber, &waiter, &k.OrderCreatedAt); err != nil {
			return nil, err
		}
		k.ItemNotes = stringPtr(notes)
		k.CustomerName = stringPtr(customer)
		k.TableNumber = intPtr(tableNumber)
		k.WaiterName = stringPtr(waiter)
		out = append(out, k)
	}
	return out, rows.Err()
}

// Stats counts units per status across active orders.
func (r *KitchenRepo) Stats(ctx context.Context, tenantID uint64) (model.KitchenStats, error) {
	var s model.KitchenStats
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(u.status = 'pending'), 0),
		        COALESCE(SUM(u.status = 'preparing'), 0),
		        COALESCE(SUM(u.status = 'ready'), 0),
		        COUNT(DISTINCT o.id)
		 FROM order_item_units u
		 JOIN order_items oi ON oi.id = u.order_item_id
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.tenant_id = ? AND o.status NOT IN ('completed','cancelled')`, tenantID).
		Scan(&s.PendingUnits, &s.PreparingUnits, &s.ReadyUnits, &s.ActiveOrders)
	if err != nil {
		return model.KitchenStats{}, fmt.Errorf("kitchen stats: %w", err)
	}
	return s, nil
}

// PopularToday ranks products by quantity on today's (UTC) orders that were
// not cancelled.  Completed orders count.
func (r *KitchenRepo) PopularToday(ctx context.Context, tenantID uint64) ([]model.PopularProduct, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT oi.product_name, COUNT(*), COALESCE(SUM(oi.quantity), 0) AS total_quantity
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.tenant_id = ? AND DATE(o.created_at) = UTC_DATE() AND o.status <> 'cancelled'
		 GROUP BY oi.product_name
		 ORDER BY total_quantity DESC, oi.product_name ASC
		 LIMIT ?`, tenantID, popularProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	defer rows.Close()

	out := make([]model.PopularProduct, 0)
	for rows.Next() {
		var p model.PopularProduct
		if err := rows.Scan(&p.ProductName, &p.OrderCount, &p.TotalQuantity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// OldestPending returns the active orders whose pending units have waited
// the longest.
func (r *KitchenRepo) OldestPending(ctx context.Context, tenantID uint64) ([]model.PendingOrder, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT o.id, o.customer_name, t.number, COUNT(u.id), MIN(u.created_at) AS oldest_unit_time
		 FROM orders o
		 LEFT JOIN restaurant_tables t ON t.id = o.table_id
		 JOIN order_items oi ON oi.order_id = o.id
		 JOIN order_item_units u ON u.order_item_id = oi.id
		 WHERE o.tenant_id = ? AND o.status NOT IN ('completed','cancelled') AND u.status = 'pending'
		 GROUP BY o.id, o.customer_name, t.number
		 ORDER BY oldest_unit_time ASC
		 LIMIT ?`, tenantID, oldestPendingLimit)
	if err != nil {
		return nil, fmt.Errorf("oldest pending: %w", err)
	}
	defer rows.Close()

	out := make([]model.PendingOrder, 0)
	for rows.Next() {
		var (
			p           model.PendingOrder
			customer    sql.NullString
			tableNumber sql.NullInt64
		)
		if err := rows.Scan(&p.OrderID, &customer, &tableNumber, &p.PendingUnits, &p.OldestUnitTime); err != nil {
			return nil, err
		}
		p.CustomerName = stringPtr(customer)
		p.TableNumber = intPtr(tableNumber)
		out = append(out, p)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// ItemRepo reads and writes the 'order_items' table.  Items are reached
// through their order, so callers resolve the order's tenant first.
type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

const itemColumns = `id, order_id, product_id, product_name, quantity, price, subtotal, notes, created_at, updated_at`

func scanItem(row rowScanner) (model.OrderItem, error) {
	var (
		it        model.OrderItem
		productID sql.NullInt64
		notes     sql.NullString
	)
	err := row.Scan(&it.ID, &it.OrderID, &productID, &it.ProductName, &it.Quantity,
		&it.Price, &it.Subtotal, &notes, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return model.OrderItem{}, mapErr(err)
	}
	if productID.Valid {
		it.ProductID = uint64(productID.Int64)
	}
	it.Notes = stringPtr(notes)
	return it, nil
}

// Create inserts an item and returns it as stored.
func (r *ItemRepo) Create(ctx context.Context, it model.OrderItem) (model.OrderItem, error) {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, product_name, quantity, price, subtotal, notes)
		 VALUES (?,?,?,?,?,?,?)`,
		it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.Price, it.Subtotal, nullable(it.Notes))
	if err != nil {
		return model.OrderItem{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.OrderItem{}, err
	}
	return r.GetForOrder(ctx, it.OrderID, uint64(id))
}

// GetForOrder returns the item only when it belongs to orderID.
func (r *ItemRepo) GetForOrder(ctx context.Context, orderID, itemID uint64) (model.OrderItem, error) {
	row := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM order_items WHERE id = ? AND order_id = ?`, itemID, orderID)
	return scanItem(row)
}

// Update writes quantity, subtotal and notes of an item.
func (r *ItemRepo) Update(ctx context.Context, it model.OrderItem) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE order_items SET quantity = ?, subtotal = ?, notes = ? WHERE id = ?`,
		it.Quantity, it.Subtotal, nullable(it.Notes), it.ID)
	return err
}

// ListByOrder returns the items of an order, oldest first.
func (r *ItemRepo) ListByOrder(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = ? ORDER BY created_at ASC, id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	out := make([]model.OrderItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

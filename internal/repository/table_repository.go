package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// TableRepo reads and writes the 'restaurant_tables' table.  Status changes
// only happen as part of an order transaction.
type TableRepo struct{ DB *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{DB: db} }

// GetForUpdate loads a table of the tenant and locks the row until the
// surrounding transaction ends.
func (r *TableRepo) GetForUpdate(ctx context.Context, tenantID, tableID uint64) (model.Table, error) {
	var t model.Table
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, tenant_id, number, capacity, status, created_at, updated_at
		 FROM restaurant_tables WHERE id = ? AND tenant_id = ? FOR UPDATE`,
		tableID, tenantID).Scan(&t.ID, &t.TenantID, &t.Number, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, mapErr(err)
}

// SetStatus flips the occupancy of a table.
func (r *TableRepo) SetStatus(ctx context.Context, tableID uint64, status model.TableStatus) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE restaurant_tables SET status = ? WHERE id = ?`, string(status), tableID)
	return err
}

// Create inserts a table and fills in its id.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	if t.Status == "" {
		t.Status = model.TableAvailable
	}
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO restaurant_tables (tenant_id, number, capacity, status) VALUES (?,?,?,?)`,
		t.TenantID, t.Number, t.Capacity, string(t.Status))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

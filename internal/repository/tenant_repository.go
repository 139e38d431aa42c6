package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// TenantRepo reads and writes the 'tenants' table.
type TenantRepo struct{ DB *sql.DB }

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{DB: db} }

// Exists reports whether a tenant with id exists.
func (r *TenantRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT 1 FROM tenants WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Create inserts a tenant and fills in its id.
func (r *TenantRepo) Create(ctx context.Context, t *model.Tenant) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO tenants (name, nit, address, phone, email) VALUES (?,?,?,?,?)`,
		t.Name, nullable(t.NIT), nullable(t.Address), nullable(t.Phone), nullable(t.Email))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.IsActive = true
	return nil
}

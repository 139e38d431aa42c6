package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// ProductRepo reads the tenant catalog.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// GetByID returns a product of the tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, productID uint64) (model.Product, error) {
	var (
		p    model.Product
		desc sql.NullString
	)
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, tenant_id, name, description, price, available, created_at, updated_at
		 FROM products WHERE id = ? AND tenant_id = ?`,
		productID, tenantID).Scan(&p.ID, &p.TenantID, &p.Name, &desc, &p.Price, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Product{}, mapErr(err)
	}
	p.Description = stringPtr(desc)
	return p, nil
}

// Create inserts a product and fills in its id.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO products (tenant_id, name, description, price, available) VALUES (?,?,?,?,?)`,
		p.TenantID, p.Name, nullable(p.Description), p.Price, p.Available)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

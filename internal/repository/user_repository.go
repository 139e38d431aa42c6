package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// UserRepo reads and writes the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `u.id, u.tenant_id, t.name, u.username, u.email, u.password,
	u.first_name, u.last_name, u.role, u.is_active, u.created_at, u.updated_at`

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.TenantID, &u.TenantName, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

// Create inserts a user and returns it as stored.  Username and email are
// unique across tenants; a clash yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, nu model.NewUser) (model.User, error) {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO users (tenant_id, username, email, password, first_name, last_name, role)
		 VALUES (?,?,?,?,?,?,?)`,
		nu.TenantID, nu.Username, strings.ToLower(nu.Email), nu.PasswordHash, nu.FirstName, nu.LastName, string(nu.Role))
	if err != nil {
		return model.User{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetActiveByLogin finds an active user whose username or email equals
// identifier, in any tenant.
func (r *UserRepo) GetActiveByLogin(ctx context.Context, identifier string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	row := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN tenants t ON t.id = u.tenant_id
		 WHERE (u.username = ? OR u.email = ?) AND u.is_active = TRUE
		 LIMIT 1`,
		identifier, strings.ToLower(identifier))
	return scanUser(row)
}

// GetByID fetches a user by id together with the tenant name.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN tenants t ON t.id = u.tenant_id
		 WHERE u.id = ? LIMIT 1`, id)
	return scanUser(row)
}

// UsernameExists reports whether any tenant already uses username.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE username = ? LIMIT 1`, username)
}

// EmailExists reports whether any tenant already uses email.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE email = ? LIMIT 1`, strings.ToLower(email))
}

func (r *UserRepo) exists(ctx context.Context, q string, arg any) (bool, error) {
	var one int
	err := conn(ctx, r.DB).QueryRowContext(ctx, q, arg).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

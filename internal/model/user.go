package model

import "time"

// Tenant is a restaurant account.  Every other row in the schema points at a
// tenant and is never visible outside of it.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the restaurant.
//  NIT       – tax identifier (optional).
//  Address   – street address (optional).
//  Phone     – contact phone (optional).
//  Email     – contact email (optional).
//  IsActive  – whether the tenant is enabled.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Tenant struct {
	ID        uint64    `json:"id"`         // tenants.id
	Name      string    `json:"name"`       // tenants.name
	NIT       *string   `json:"nit"`        // tenants.nit (nullable)
	Address   *string   `json:"address"`    // tenants.address (nullable)
	Phone     *string   `json:"phone"`      // tenants.phone (nullable)
	Email     *string   `json:"email"`      // tenants.email (nullable)
	IsActive  bool      `json:"is_active"`  // tenants.is_active
	CreatedAt time.Time `json:"created_at"` // tenants.created_at
	UpdatedAt time.Time `json:"updated_at"` // tenants.updated_at
}

// User represents a staff account as stored in the `users` table.  Usernames
// and emails are unique across all tenants.  PasswordHash never leaves the
// server; it is excluded from JSON.
type User struct {
	ID           uint64    `json:"id"`          // users.id
	TenantID     uint64    `json:"tenant_id"`   // users.tenant_id
	TenantName   string    `json:"tenant_name"` // tenants.name (joined, read only)
	Username     string    `json:"username"`    // users.username
	Email        string    `json:"email"`       // users.email
	PasswordHash string    `json:"-"`           // users.password (bcrypt)
	FirstName    string    `json:"first_name"`  // users.first_name
	LastName     string    `json:"last_name"`   // users.last_name
	Role         Role      `json:"role"`        // users.role
	IsActive     bool      `json:"is_active"`   // users.is_active
	CreatedAt    time.Time `json:"created_at"`  // users.created_at
	UpdatedAt    time.Time `json:"updated_at"`  // users.updated_at
}

// NewUser carries the fields needed to insert a user.
type NewUser struct {
	TenantID     uint64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
}

// Identity is the authenticated caller resolved from a session token.  It is
// what handlers use to scope every query to a tenant.
type Identity struct {
	UserID   uint64
	TenantID uint64
	Role     Role
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an entry of a tenant's catalog.  Orders read it when an item is
// added and copy its name and price into the item.
type Product struct {
	ID          uint64          `json:"id"`
	TenantID    uint64          `json:"tenant_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

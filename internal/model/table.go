package model

import "time"

// TableStatus is the occupancy state of a dining table.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

// Table mirrors the `restaurant_tables` table.  Its status is never set
// directly by clients; it follows the life of the order opened against it.
type Table struct {
	ID        uint64      `json:"id"`         // restaurant_tables.id
	TenantID  uint64      `json:"tenant_id"`  // restaurant_tables.tenant_id
	Number    int         `json:"number"`     // restaurant_tables.number
	Capacity  int         `json:"capacity"`   // restaurant_tables.capacity
	Status    TableStatus `json:"status"`     // restaurant_tables.status
	CreatedAt time.Time   `json:"created_at"` // restaurant_tables.created_at
	UpdatedAt time.Time   `json:"updated_at"` // restaurant_tables.updated_at
}

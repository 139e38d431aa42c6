package model

import "time"

// KitchenUnit is one row of the kitchen display: a unit joined with its
// item, order, table and waiter.
type KitchenUnit struct {
	UnitID         uint64     `json:"unit_id"`
	UnitStatus     UnitStatus `json:"unit_status"`
	UnitCreatedAt  time.Time  `json:"unit_created_at"`
	ItemID         uint64     `json:"item_id"`
	ProductName    string     `json:"product_name"`
	Quantity       int        `json:"quantity"`
	ItemNotes      *string    `json:"item_notes"`
	OrderID        uint64     `json:"order_id"`
	CustomerName   *string    `json:"customer_name"`
	OrderType      OrderType  `json:"order_type"`
	TableNumber    *int       `json:"table_number"`
	WaiterName     *string    `json:"waiter_name"`
	OrderCreatedAt time.Time  `json:"order_created_at"`
}

// KitchenStats counts units of active orders per status.
type KitchenStats struct {
	PendingUnits   int `json:"pending_units"`
	PreparingUnits int `json:"preparing_units"`
	ReadyUnits     int `json:"ready_units"`
	ActiveOrders   int `json:"active_orders"`
}

// PopularProduct is a product ranked by quantity ordered today.
type PopularProduct struct {
	ProductName   string `json:"product_name"`
	OrderCount    int    `json:"order_count"`
	TotalQuantity int    `json:"total_quantity"`
}

// PendingOrder is an active order that still has units waiting.
type PendingOrder struct {
	OrderID        uint64    `json:"order_id"`
	CustomerName   *string   `json:"customer_name"`
	TableNumber    *int      `json:"table_number"`
	PendingUnits   int       `json:"pending_units"`
	OldestUnitTime time.Time `json:"oldest_unit_time"`
}

// Dashboard is the kitchen overview.
type Dashboard struct {
	Stats               KitchenStats     `json:"stats"`
	PopularProducts     []PopularProduct `json:"popular_products"`
	OldestPendingOrders []PendingOrder   `json:"oldest_pending_orders"`
}

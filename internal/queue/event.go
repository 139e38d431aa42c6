// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ publisher and consumer that carry them.
package queue

// UnitReadyQueue is the durable queue kitchen events are routed to.
const UnitReadyQueue = "kitchen.unit_ready"

// UnitReadyEvent is published after a unit has been marked ready and the
// change is committed.  It carries enough for a consumer to log or alert
// without querying the database.
type UnitReadyEvent struct {
	TenantID    uint64  `json:"tenant_id"`
	OrderID     uint64  `json:"order_id"`
	ItemID      uint64  `json:"item_id"`
	UnitID      uint64  `json:"unit_id"`
	WaiterID    *uint64 `json:"waiter_id"`
	ProductName string  `json:"product_name"`
	ReadyAt     string  `json:"ready_at"`
}

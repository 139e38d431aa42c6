package model

import "time"

// NotificationOrderReady is the type of the notification emitted when a
// unit reaches the ready state.
const NotificationOrderReady = "order_ready"

// Notification is an informational message for a user of a tenant.  UserID is
// nil when nobody in particular is addressed.
type Notification struct {
	ID        uint64    `json:"id"`
	TenantID  uint64    `json:"tenant_id"`
	UserID    *uint64   `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// NotificationRepo writes the 'notifications' table.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts an unread notification and fills in its id.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO notifications (tenant_id, user_id, title, message, type) VALUES (?,?,?,?,?)`,
		n.TenantID, nullable(n.UserID), n.Title, n.Message, n.Type)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	n.IsRead = false
	return nil
}

package service

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/queue"
)

// Transactor runs fn in one transaction carried by the context it receives.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TenantStore interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

type UserStore interface {
	Create(ctx context.Context, nu model.NewUser) (model.User, error)
	GetActiveByLogin(ctx context.Context, identifier string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
}

type TableStore interface {
	GetForUpdate(ctx context.Context, tenantID, tableID uint64) (model.Table, error)
	SetStatus(ctx context.Context, tableID uint64, status model.TableStatus) error
}

type ProductStore interface {
	GetByID(ctx context.Context, tenantID, productID uint64) (model.Product, error)
}

type OrderStore interface {
	Create(ctx context.Context, o model.Order) (model.Order, error)
	Get(ctx context.Context, tenantID, orderID uint64) (model.Order, error)
	GetForUpdate(ctx context.Context, tenantID, orderID uint64) (model.Order, error)
	List(ctx context.Context, tenantID uint64, f model.OrderFilter) ([]model.OrderSummary, error)
	UpdateTotals(ctx context.Context, orderID uint64, t model.Totals) error
	SetStatus(ctx context.Context, orderID uint64, status model.OrderStatus) error
	Delete(ctx context.Context, orderID uint64) error
}

type ItemStore interface {
	Create(ctx context.Context, it model.OrderItem) (model.OrderItem, error)
	GetForOrder(ctx context.Context, orderID, itemID uint64) (model.OrderItem, error)
	Update(ctx context.Context, it model.OrderItem) error
	ListByOrder(ctx context.Context, orderID uint64) ([]model.OrderItem, error)
}

type UnitStore interface {
	CreateBulk(ctx context.Context, itemID uint64, n int) ([]model.OrderItemUnit, error)
	ListByOrder(ctx context.Context, orderID uint64) (map[uint64][]model.OrderItemUnit, error)
	GetRefForUpdate(ctx context.Context, tenantID, unitID uint64) (model.UnitRef, error)
	SetStatus(ctx context.Context, unitID uint64, status model.UnitStatus) (model.OrderItemUnit, error)
	Delete(ctx context.Context, unitID uint64) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

type KitchenStore interface {
	ListUnits(ctx context.Context, tenantID uint64, status model.UnitStatus) ([]model.KitchenUnit, error)
	Stats(ctx context.Context, tenantID uint64) (model.KitchenStats, error)
	PopularToday(ctx context.Context, tenantID uint64) ([]model.PopularProduct, error)
	OldestPending(ctx context.Context, tenantID uint64) ([]model.PendingOrder, error)
}

// EventPublisher delivers kitchen events to the broker.
type EventPublisher interface {
	PublishUnitReady(ctx context.Context, ev queue.UnitReadyEvent) error
}

// Stores groups the persistence dependencies of the services.
type Stores struct {
	Tenants       TenantStore
	Users         UserStore
	Tokens        TokenStore
	Tables        TableStore
	Products      ProductStore
	Orders        OrderStore
	Items         ItemStore
	Units         UnitStore
	Notifications NotificationStore
	Kitchen       KitchenStore
}

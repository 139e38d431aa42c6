package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-orders/internal/logger"
	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/queue"
)

const (
	maxUnitsPerRequest = 100
	readyTitle         = "Product ready"
)

// StatusScope selects which unit statuses a caller may set.
type StatusScope int

const (
	// ScopeGeneral is used by the order routes: every unit status.
	ScopeGeneral StatusScope = iota
	// ScopeKitchen is used by the kitchen routes: delivery is not allowed.
	ScopeKitchen
)

func (s StatusScope) allowed() []model.UnitStatus {
	if s == ScopeKitchen {
		return model.KitchenUnitStatuses
	}
	return model.UnitStatuses
}

// UnitService drives the preparation units of order items.
type UnitService struct {
	tx            Transactor
	orders        OrderStore
	items         ItemStore
	units         UnitStore
	notifications NotificationStore
	events        EventPublisher
	strict        bool
	log           *logger.Logger
}

// NewUnitService builds a UnitService.  With strict set, status changes must
// follow pending → preparing → ready → delivered one step at a time.  events
// may be nil.
func NewUnitService(tx Transactor, s Stores, events EventPublisher, strict bool, log *logger.Logger) *UnitService {
	return &UnitService{
		tx:            tx,
		orders:        s.Orders,
		items:         s.Items,
		units:         s.Units,
		notifications: s.Notifications,
		events:        events,
		strict:        strict,
		log:           log.WithComponent("units"),
	}
}

// Create adds quantity pending units to an item.  A zero quantity means one.
func (s *UnitService) Create(ctx context.Context, tenantID, orderID, itemID uint64, quantity int) ([]model.OrderItemUnit, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > maxUnitsPerRequest {
		return nil, Validation(fmt.Sprintf("quantity must be between 1 and %d", maxUnitsPerRequest))
	}

	var out []model.OrderItemUnit
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return notFoundOr(err, "order not found")
		}
		it, err := s.items.GetForOrder(ctx, o.ID, itemID)
		if err != nil {
			return notFoundOr(err, "item not found")
		}
		if out, err = s.units.CreateBulk(ctx, it.ID, quantity); err != nil {
			return internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus changes the status of a unit.  Reaching ready records one
// notification for the order's waiter in the same transaction and, after
// commit, publishes a best-effort event.
func (s *UnitService) SetStatus(ctx context.Context, tenantID, unitID uint64, status string, scope StatusScope) (model.OrderItemUnit, error) {
	allowed := scope.allowed()
	next, ok := model.ParseUnitStatus(status, allowed)
	if !ok {
		return model.OrderItemUnit{}, Validation("status must be one of: " + model.JoinUnitStatuses(allowed))
	}

	var (
		out model.OrderItemUnit
		ref model.UnitRef
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ref, err = s.units.GetRefForUpdate(ctx, tenantID, unitID)
		if err != nil {
			return notFoundOr(err, "unit not found")
		}
		if s.strict && ref.Unit.Status != next && !ref.Unit.Status.CanAdvanceTo(next) {
			return InvalidState(fmt.Sprintf("cannot change unit from %s to %s", ref.Unit.Status, next))
		}
		if out, err = s.units.SetStatus(ctx, unitID, next); err != nil {
			return internal(err)
		}
		if next != model.UnitReady {
			return nil
		}
		n := &model.Notification{
			TenantID: tenantID,
			UserID:   ref.WaiterID,
			Title:    readyTitle,
			Message:  fmt.Sprintf(`"%s" is ready to serve`, ref.ProductName),
			Type:     model.NotificationOrderReady,
		}
		return internal(s.notifications.Create(ctx, n))
	})
	if err != nil {
		return model.OrderItemUnit{}, err
	}

	if next == model.UnitReady {
		s.publishReady(ctx, tenantID, ref, out)
	}
	return out, nil
}

// Delete removes a unit regardless of its status.
func (s *UnitService) Delete(ctx context.Context, tenantID, unitID uint64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.units.GetRefForUpdate(ctx, tenantID, unitID); err != nil {
			return notFoundOr(err, "unit not found")
		}
		return notFoundOr(s.units.Delete(ctx, unitID), "unit not found")
	})
}

func (s *UnitService) publishReady(ctx context.Context, tenantID uint64, ref model.UnitRef, u model.OrderItemUnit) {
	if s.events == nil {
		return
	}
	ev := queue.UnitReadyEvent{
		TenantID:    tenantID,
		OrderID:     ref.OrderID,
		ItemID:      u.OrderItemID,
		UnitID:      u.ID,
		WaiterID:    ref.WaiterID,
		ProductName: ref.ProductName,
		ReadyAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishUnitReady(ctx, ev); err != nil {
		s.log.Warn("unit ready event not published", "unit_id", u.ID, "error", err)
	}
}

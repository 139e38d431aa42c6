package service

import (
	"context"
	"strings"

	"github.com/iliyamo/restaurant-orders/internal/logger"
	"github.com/iliyamo/restaurant-orders/internal/model"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// OrderService manages orders and their items.  Every multi-step change runs
// in one transaction with the order (and table) row locked.
type OrderService struct {
	tx       Transactor
	orders   OrderStore
	items    ItemStore
	units    UnitStore
	tables   TableStore
	products ProductStore
	log      *logger.Logger
}

func NewOrderService(tx Transactor, s Stores, log *logger.Logger) *OrderService {
	return &OrderService{
		tx:       tx,
		orders:   s.Orders,
		items:    s.Items,
		units:    s.Units,
		tables:   s.Tables,
		products: s.Products,
		log:      log.WithComponent("orders"),
	}
}

// OpenOrderInput is the body of an open order request.
type OpenOrderInput struct {
	TableID      *uint64 `json:"table_id"`
	CustomerName *string `json:"customer_name"`
	Type         string  `json:"type"`
	Notes        *string `json:"notes"`
}

// Open creates a pending order for the caller and occupies its table.
func (s *OrderService) Open(ctx context.Context, id model.Identity, in OpenOrderInput) (model.Order, error) {
	typ, ok := model.ParseOrderType(strings.TrimSpace(in.Type))
	if !ok {
		return model.Order{}, Validation("type must be one of: dine_in, takeout, delivery")
	}
	if typ == model.OrderDineIn && in.TableID == nil {
		return model.Order{}, Validation("table_id is required")
	}

	var out model.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if in.TableID != nil {
			table, err := s.tables.GetForUpdate(ctx, id.TenantID, *in.TableID)
			if err != nil {
				return notFoundOr(err, "table not found")
			}
			if table.Status != model.TableAvailable {
				return InvalidState("table is not available")
			}
		}
		waiter := id.UserID
		o, err := s.orders.Create(ctx, model.Order{
			TenantID:     id.TenantID,
			TableID:      in.TableID,
			WaiterID:     &waiter,
			CustomerName: in.CustomerName,
			Type:         typ,
			Status:       model.OrderPending,
			Notes:        in.Notes,
		})
		if err != nil {
			return internal(err)
		}
		if in.TableID != nil {
			if err := s.tables.SetStatus(ctx, *in.TableID, model.TableOccupied); err != nil {
				return internal(err)
			}
		}
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	s.log.Info("order opened", "tenant_id", id.TenantID, "order_id", out.ID)
	return out, nil
}

// ListOrdersInput filters and pages the order list.  A zero Limit means the
// default.
type ListOrdersInput struct {
	Status string
	Limit  int
	Offset int
}

// List returns a page of the tenant's orders, newest first, and the
// effective filter.
func (s *OrderService) List(ctx context.Context, tenantID uint64, in ListOrdersInput) ([]model.OrderSummary, model.OrderFilter, error) {
	f := model.OrderFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Limit < 0 || in.Offset < 0 {
		return nil, f, Validation("limit and offset must not be negative")
	}
	if f.Limit == 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if in.Status != "" {
		st, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return nil, f, Validation("unknown order status")
		}
		f.Status = &st
	}
	list, err := s.orders.List(ctx, tenantID, f)
	if err != nil {
		return nil, f, Internal(err)
	}
	return list, f, nil
}

// Get returns an order with its items and their units.
func (s *OrderService) Get(ctx context.Context, tenantID, orderID uint64) (model.OrderDetail, error) {
	o, err := s.orders.Get(ctx, tenantID, orderID)
	if err != nil {
		return model.OrderDetail{}, notFoundOr(err, "order not found")
	}
	items, err := s.items.ListByOrder(ctx, o.ID)
	if err != nil {
		return model.OrderDetail{}, Internal(err)
	}
	units, err := s.units.ListByOrder(ctx, o.ID)
	if err != nil {
		return model.OrderDetail{}, Internal(err)
	}
	details := make([]model.ItemDetail, len(items))
	for i, it := range items {
		details[i] = model.ItemDetail{OrderItem: it, Units: units[it.ID]}
		if details[i].Units == nil {
			details[i].Units = []model.OrderItemUnit{}
		}
	}
	return model.OrderDetail{Order: o, Items: details}, nil
}

// AddItemInput is the body of an add item request.
type AddItemInput struct {
	ProductID uint64  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Notes     *string `json:"notes"`
}

// AddItem appends a product to an open order, copying the product's current
// name and price into the item.
func (s *OrderService) AddItem(ctx context.Context, tenantID, orderID uint64, in AddItemInput) (model.OrderItem, error) {
	if in.ProductID == 0 {
		return model.OrderItem{}, Validation("product_id and quantity are required")
	}
	if in.Quantity < 1 {
		return model.OrderItem{}, Validation("quantity must be at least 1")
	}

	var out model.OrderItem
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.lockOpenOrder(ctx, tenantID, orderID, "cannot add items to a completed or cancelled order")
		if err != nil {
			return err
		}
		p, err := s.products.GetByID(ctx, tenantID, in.ProductID)
		if err != nil {
			return notFoundOr(err, "product not found")
		}
		if !p.Available {
			return InvalidState("product is not available")
		}
		it, err := s.items.Create(ctx, model.OrderItem{
			OrderID:     o.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    in.Quantity,
			Price:       p.Price,
			Subtotal:    model.LineSubtotal(p.Price, in.Quantity),
			Notes:       in.Notes,
		})
		if err != nil {
			return internal(err)
		}
		if err := s.recomputeTotals(ctx, o.ID); err != nil {
			return err
		}
		out = it
		return nil
	})
	if err != nil {
		return model.OrderItem{}, err
	}
	return out, nil
}

// UpdateItemInput changes quantity and/or notes.  Nil fields keep their
// current value.
type UpdateItemInput struct {
	Quantity *int    `json:"quantity"`
	Notes    *string `json:"notes"`
}

// UpdateItem edits an item of an open order.  The subtotal is recomputed
// from the price stored on the item, not the current catalog price.
func (s *OrderService) UpdateItem(ctx context.Context, tenantID, orderID, itemID uint64, in UpdateItemInput) (model.OrderItem, error) {
	if in.Quantity != nil && *in.Quantity < 1 {
		return model.OrderItem{}, Validation("quantity must be at least 1")
	}

	var out model.OrderItem
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.lockOpenOrder(ctx, tenantID, orderID, "cannot modify items of a completed or cancelled order")
		if err != nil {
			return err
		}
		it, err := s.items.GetForOrder(ctx, o.ID, itemID)
		if err != nil {
			return notFoundOr(err, "item not found")
		}
		if in.Quantity != nil {
			it.Quantity = *in.Quantity
		}
		if in.Notes != nil {
			it.Notes = in.Notes
		}
		it.Subtotal = model.LineSubtotal(it.Price, it.Quantity)
		if err := s.items.Update(ctx, it); err != nil {
			return internal(err)
		}
		if err := s.recomputeTotals(ctx, o.ID); err != nil {
			return err
		}
		if out, err = s.items.GetForOrder(ctx, o.ID, it.ID); err != nil {
			return internal(err)
		}
		return nil
	})
	if err != nil {
		return model.OrderItem{}, err
	}
	return out, nil
}

// Close completes an open order and frees its table.
func (s *OrderService) Close(ctx context.Context, tenantID, orderID uint64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return notFoundOr(err, "order not found")
		}
		if !o.Status.CanTransitionTo(model.OrderCompleted) {
			return InvalidState("cannot close an order that is " + string(o.Status))
		}
		if err := s.orders.SetStatus(ctx, o.ID, model.OrderCompleted); err != nil {
			return internal(err)
		}
		return s.releaseTable(ctx, o)
	})
	if err != nil {
		return err
	}
	s.log.Info("order closed", "tenant_id", tenantID, "order_id", orderID)
	return nil
}

// Delete removes an order that is not completed, together with its items and
// units, and frees its table.
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID uint64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return notFoundOr(err, "order not found")
		}
		if o.Status == model.OrderCompleted {
			return InvalidState("cannot delete a completed order")
		}
		if err := s.releaseTable(ctx, o); err != nil {
			return err
		}
		return notFoundOr(s.orders.Delete(ctx, o.ID), "order not found")
	})
	if err != nil {
		return err
	}
	s.log.Info("order deleted", "tenant_id", tenantID, "order_id", orderID)
	return nil
}

// lockOpenOrder loads and locks an order, failing with InvalidState(msg)
// when it is terminal.
func (s *OrderService) lockOpenOrder(ctx context.Context, tenantID, orderID uint64, msg string) (model.Order, error) {
	o, err := s.orders.GetForUpdate(ctx, tenantID, orderID)
	if err != nil {
		return model.Order{}, notFoundOr(err, "order not found")
	}
	if o.Status.IsTerminal() {
		return model.Order{}, InvalidState(msg)
	}
	return o, nil
}

func (s *OrderService) releaseTable(ctx context.Context, o model.Order) error {
	if o.TableID == nil {
		return nil
	}
	return internal(s.tables.SetStatus(ctx, *o.TableID, model.TableAvailable))
}

// recomputeTotals derives subtotal, tax and total from the stored items.
func (s *OrderService) recomputeTotals(ctx context.Context, orderID uint64) error {
	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return internal(err)
	}
	return internal(s.orders.UpdateTotals(ctx, orderID, model.ComputeTotals(items)))
}

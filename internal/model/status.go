package model

import "strings"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions is the forward graph of order states.  Any open state may
// be completed or cancelled; terminal states have no outgoing edge.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCompleted, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCompleted, OrderCancelled},
	OrderReady:     {OrderDelivered, OrderCompleted, OrderCancelled},
	OrderDelivered: {OrderCompleted, OrderCancelled},
}

// ParseOrderStatus reports whether s is a known order status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	switch st {
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderCompleted, OrderCancelled:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further item or unit mutation is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo reports whether next is a forward edge from s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// UnitStatus is the kitchen state of a single unit of an order item.
type UnitStatus string

const (
	UnitPending   UnitStatus = "pending"
	UnitPreparing UnitStatus = "preparing"
	UnitReady     UnitStatus = "ready"
	UnitDelivered UnitStatus = "delivered"
)

// UnitStatuses is every status a unit may hold, in canonical order.
var UnitStatuses = []UnitStatus{UnitPending, UnitPreparing, UnitReady, UnitDelivered}

// KitchenUnitStatuses is the subset the kitchen works with.  Delivery is the
// waiter's job.
var KitchenUnitStatuses = []UnitStatus{UnitPending, UnitPreparing, UnitReady}

var unitTransitions = map[UnitStatus]UnitStatus{
	UnitPending:   UnitPreparing,
	UnitPreparing: UnitReady,
	UnitReady:     UnitDelivered,
}

// ParseUnitStatus reports whether s is one of allowed.
func ParseUnitStatus(s string, allowed []UnitStatus) (UnitStatus, bool) {
	for _, a := range allowed {
		if UnitStatus(s) == a {
			return a, true
		}
	}
	return "", false
}

// CanAdvanceTo reports whether next is the single forward step after s.
func (s UnitStatus) CanAdvanceTo(next UnitStatus) bool {
	n, ok := unitTransitions[s]
	return ok && n == next
}

// JoinUnitStatuses renders statuses as a comma separated list for messages.
func JoinUnitStatuses(ss []UnitStatus) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// OrderType distinguishes where the order is consumed.
type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderTakeout  OrderType = "takeout"
	OrderDelivery OrderType = "delivery"
)

// ParseOrderType defaults an empty value to dine_in.
func ParseOrderType(s string) (OrderType, bool) {
	if s == "" {
		return OrderDineIn, true
	}
	t := OrderType(s)
	switch t {
	case OrderDineIn, OrderTakeout, OrderDelivery:
		return t, true
	}
	return "", false
}

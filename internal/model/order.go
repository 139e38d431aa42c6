package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is applied to the subtotal of every order.
var TaxRate = decimal.RequireFromString("0.19")

// moneyPlaces is the number of fractional digits kept for money.
const moneyPlaces = 2

// Order mirrors the `orders` table.  Subtotal, Tax and Total are derived from
// the order's items and are only written by the totals recomputation.
//
// Fields:
//  TableID    – table the order was opened on (nil for takeout/delivery).
//  WaiterID   – user who opened the order.
//  WaiterName – users.first_name of the waiter (joined, read only).
//  TableNumber– restaurant_tables.number (joined, read only).
type Order struct {
	ID           uint64          `json:"id"`
	TenantID     uint64          `json:"tenant_id"`
	TableID      *uint64         `json:"table_id"`
	WaiterID     *uint64         `json:"waiter_id"`
	CustomerName *string         `json:"customer_name"`
	Type         OrderType       `json:"type"`
	Status       OrderStatus     `json:"status"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	Notes        *string         `json:"notes"`
	WaiterName   *string         `json:"waiter_name,omitempty"`
	TableNumber  *int            `json:"table_number,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderSummary is a row of the order list.
type OrderSummary struct {
	Order
	ItemsCount int `json:"items_count"`
}

// OrderDetail is an order with its items, each carrying its units.
type OrderDetail struct {
	Order
	Items []ItemDetail `json:"items"`
}

// ItemDetail is an item of the order detail.  Units is never nil so an item
// without units renders as "units": [].
type ItemDetail struct {
	OrderItem
	Units []OrderItemUnit `json:"units"`
}

// OrderFilter narrows and pages the order list.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}

// OrderItem mirrors the `order_items` table.  ProductName and Price are
// snapshots of the product taken when the item was added; later catalog
// changes do not affect them.
type OrderItem struct {
	ID          uint64          `json:"id"`
	OrderID     uint64          `json:"order_id"`
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItemUnit mirrors the `order_item_units` table: one physical unit of an
// item moving through the kitchen.
type OrderItemUnit struct {
	ID          uint64     `json:"id"`
	OrderItemID uint64     `json:"order_item_id"`
	Status      UnitStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UnitRef is a unit resolved together with the order it belongs to.  It is
// what the unit lifecycle needs to scope, validate and notify.
type UnitRef struct {
	Unit        OrderItemUnit
	OrderID     uint64
	OrderStatus OrderStatus
	WaiterID    *uint64
	ProductName string
}

// Totals are the derived money fields of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineSubtotal is price × quantity.
func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyPlaces)
}

// ComputeTotals sums item subtotals and applies TaxRate.  Tax is rounded to
// cents and Total is always Subtotal + Tax.
func ComputeTotals(items []OrderItem) Totals {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(it.Subtotal)
	}
	sub = sub.Round(moneyPlaces)
	tax := sub.Mul(TaxRate).Round(moneyPlaces)
	return Totals{Subtotal: sub, Tax: tax, Total: sub.Add(tax)}
}

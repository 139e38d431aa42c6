package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/service"
)

type OrderService interface {
	Open(ctx context.Context, id model.Identity, in service.OpenOrderInput) (model.Order, error)
	List(ctx context.Context, tenantID uint64, in service.ListOrdersInput) ([]model.OrderSummary, model.OrderFilter, error)
	Get(ctx context.Context, tenantID, orderID uint64) (model.OrderDetail, error)
	AddItem(ctx context.Context, tenantID, orderID uint64, in service.AddItemInput) (model.OrderItem, error)
	UpdateItem(ctx context.Context, tenantID, orderID, itemID uint64, in service.UpdateItemInput) (model.OrderItem, error)
	Close(ctx context.Context, tenantID, orderID uint64) error
	Delete(ctx context.Context, tenantID, orderID uint64) error
}

type UnitService interface {
	Create(ctx context.Context, tenantID, orderID, itemID uint64, quantity int) ([]model.OrderItemUnit, error)
	SetStatus(ctx context.Context, tenantID, unitID uint64, status string, scope service.StatusScope) (model.OrderItemUnit, error)
	Delete(ctx context.Context, tenantID, unitID uint64) error
}

// OrderHandler serves the /orders routes, including items and units.
type OrderHandler struct {
	orders OrderService
	units  UnitService
}

func NewOrderHandler(orders OrderService, units UnitService) *OrderHandler {
	return &OrderHandler{orders: orders, units: units}
}

type unitsReq struct {
	Quantity int `json:"quantity"`
}

type statusReq struct {
	Status string `json:"status"`
}

// Create: POST /orders
func (h *OrderHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req service.OpenOrderInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	o, err := h.orders.Open(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "order created", "order": o})
}

// List: GET /orders?status=&limit=&offset=
func (h *OrderHandler) List(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, f, err := h.orders.List(ctx, id.TenantID, service.ListOrdersInput{
		Status: c.QueryParam("status"), Limit: limit, Offset: offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"orders":     list,
		"pagination": echo.Map{"limit": f.Limit, "offset": f.Offset, "count": len(list)},
	})
}

// Get: GET /orders/:id
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.orders.Get(ctx, id.TenantID, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"order": d})
}

// AddItem: POST /orders/:id/items
func (h *OrderHandler) AddItem(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.AddItemInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	it, err := h.orders.AddItem(ctx, id.TenantID, orderID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "item added", "item": it})
}

// UpdateItem: PATCH /orders/:id/items/:itemId
func (h *OrderHandler) UpdateItem(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return err
	}
	var req service.UpdateItemInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	it, err := h.orders.UpdateItem(ctx, id.TenantID, orderID, itemID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item updated", "item": it})
}

// CreateUnits: POST /orders/:id/items/:itemId/units
func (h *OrderHandler) CreateUnits(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return err
	}
	var req unitsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	units, err := h.units.Create(ctx, id.TenantID, orderID, itemID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("%d unit(s) created", len(units)),
		"units":   units,
	})
}

// UpdateUnitStatus: PATCH /orders/items/units/:unitId
func (h *OrderHandler) UpdateUnitStatus(c echo.Context) error {
	return setUnitStatus(c, h.units, service.ScopeGeneral)
}

// DeleteUnit: DELETE /orders/items/units/:unitId
func (h *OrderHandler) DeleteUnit(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	unitID, err := parseID(c, "unitId")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.units.Delete(ctx, id.TenantID, unitID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unit deleted"})
}

// Close: POST /orders/:id/close
func (h *OrderHandler) Close(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.orders.Close(ctx, id.TenantID, orderID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order closed"})
}

// Delete: DELETE /orders/:id
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.orders.Delete(ctx, id.TenantID, orderID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order deleted"})
}

// setUnitStatus is shared by the order and kitchen routes; scope decides
// which statuses are accepted.
func setUnitStatus(c echo.Context, units UnitService, scope service.StatusScope) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	unitID, err := parseID(c, "unitId")
	if err != nil {
		return err
	}
	var req statusReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := units.SetStatus(ctx, id.TenantID, unitID, req.Status, scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unit status updated", "unit": u})
}

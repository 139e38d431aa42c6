package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/service"
)

type KitchenService interface {
	Units(ctx context.Context, tenantID uint64, status string) ([]model.KitchenUnit, model.UnitStatus, error)
	Dashboard(ctx context.Context, tenantID uint64) (model.Dashboard, error)
}

// KitchenHandler serves the /kitchen routes.
type KitchenHandler struct {
	kitchen KitchenService
	units   UnitService
}

func NewKitchenHandler(kitchen KitchenService, units UnitService) *KitchenHandler {
	return &KitchenHandler{kitchen: kitchen, units: units}
}

// Units: GET /kitchen/units?status=pending
func (h *KitchenHandler) Units(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	units, st, err := h.kitchen.Units(ctx, id.TenantID, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"units": units, "count": len(units), "status": st})
}

// UpdateUnitStatus: PATCH /kitchen/units/:unitId/status
func (h *KitchenHandler) UpdateUnitStatus(c echo.Context) error {
	return setUnitStatus(c, h.units, service.ScopeKitchen)
}

// Dashboard: GET /kitchen/dashboard
func (h *KitchenHandler) Dashboard(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.kitchen.Dashboard(ctx, id.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/handler"
	"github.com/iliyamo/restaurant-orders/internal/middleware"
	"github.com/iliyamo/restaurant-orders/internal/model"
)

// RegisterKitchen registers the kitchen display endpoints for admin and
// kitchen staff.
func RegisterKitchen(api *echo.Group, k *handler.KitchenHandler, authn echo.MiddlewareFunc) {
	g := api.Group("/kitchen", authn, middleware.RequireRole(model.RoleAdmin, model.RoleKitchen))

	g.GET("/units", k.Units)
	g.PATCH("/units/:unitId/status", k.UpdateUnitStatus)
	g.GET("/dashboard", k.Dashboard)
}

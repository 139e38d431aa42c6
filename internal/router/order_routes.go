package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/handler"
	"github.com/iliyamo/restaurant-orders/internal/middleware"
	"github.com/iliyamo/restaurant-orders/internal/model"
)

// RegisterOrders registers the order, item and unit endpoints.  Every route
// requires a session; mutating routes are further gated by role.
func RegisterOrders(api *echo.Group, o *handler.OrderHandler, authn echo.MiddlewareFunc) {
	g := api.Group("/orders", authn)

	staff := middleware.RequireRole(model.RoleAdmin, model.RoleWaiter)

	// ---- Orders ----
	g.POST("", o.Create, staff)
	g.GET("", o.List)
	g.GET("/:id", o.Get)
	g.POST("/:id/close", o.Close, middleware.RequireRole(model.RoleAdmin, model.RoleWaiter, model.RoleCashier))
	g.DELETE("/:id", o.Delete, middleware.RequireRole(model.RoleAdmin))

	// ---- Items ----
	g.POST("/:id/items", o.AddItem, staff)
	g.PATCH("/:id/items/:itemId", o.UpdateItem, staff)

	// ---- Units ----
	g.POST("/:id/items/:itemId/units", o.CreateUnits, staff)
	g.PATCH("/items/units/:unitId", o.UpdateUnitStatus,
		middleware.RequireRole(model.RoleAdmin, model.RoleWaiter, model.RoleKitchen))
	g.DELETE("/items/units/:unitId", o.DeleteUnit, staff)
}

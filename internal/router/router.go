package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/handler"
)

// Handlers groups everything the route table dispatches to.
type Handlers struct {
	Auth    *handler.AuthHandler
	Orders  *handler.OrderHandler
	Kitchen *handler.KitchenHandler
}

// Register mounts every route under /api.  authn resolves bearer tokens and
// limiter throttles the unauthenticated auth endpoints.
func Register(e *echo.Echo, h Handlers, authn, limiter echo.MiddlewareFunc) {
	api := e.Group("/api")
	api.GET("/health", handler.Health)

	RegisterAuth(api, h.Auth, authn, limiter)
	RegisterOrders(api, h.Orders, authn)
	RegisterKitchen(api, h.Kitchen, authn)
}

// RegisterAuth registers the session endpoints.  Login, register and refresh
// are rate limited; logout only needs the refresh token in the body.
func RegisterAuth(api *echo.Group, a *handler.AuthHandler, authn, limiter echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/login", a.Login, limiter)
	g.POST("/register", a.Register, limiter)
	g.POST("/refresh", a.Refresh, limiter)
	g.POST("/logout", a.Logout)

	g.GET("/me", a.Me, authn)
}

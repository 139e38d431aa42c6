package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/model"
)

// RequireRole aborts with 403 unless the authenticated caller's role is one
// of roles.  It must run after Authenticate.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok || !id.Role.In(roles...) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":   "forbidden",
					"message": "this action requires one of the roles: " + model.JoinRoles(roles),
				})
			}
			return next(c)
		}
	}
}

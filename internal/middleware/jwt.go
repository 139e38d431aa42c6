package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/service"
)

// SessionResolver turns a bearer token into the caller's identity.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate returns an Echo middleware that validates the Bearer access
// token and stores the resolved identity on the context.  Handlers read it
// with IdentityFrom.
func Authenticate(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "unauthorized",
					"message": "the Authorization header must carry a Bearer token",
				})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "unauthorized",
					"message": "the token must not be empty",
				})
			}

			id, err := resolver.ResolveSession(c.Request().Context(), raw)
			if err != nil {
				if service.KindOf(err) == service.KindInternal {
					c.Logger().Error(err)
					return c.JSON(http.StatusInternalServerError, echo.Map{
						"error":   "internal_error",
						"message": "internal server error",
					})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": message(err)})
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

func message(err error) string {
	var se *service.Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "invalid token"
}

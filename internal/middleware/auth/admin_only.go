package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/instamart/backend/internal/models"
)

// AdminOnly gates mutating catalog routes: 401 without a session, 403 for any
// non-admin role, regardless of the payload.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, err := m.identify(c)
		if err != nil {
			return err
		}
		if ident.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		c.Set(identityKey, ident)
		return next(c)
	}
}

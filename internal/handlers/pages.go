package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/instamart/backend/internal/models"
	"github.com/instamart/backend/internal/service/session"
)

// PageHandler sends browsers to the right page for their session. Page
// rendering itself is served elsewhere; this is routing glue only.
type PageHandler struct {
	Sessions *session.Service
}

func (h *PageHandler) Home(c echo.Context) error {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	ident, err := h.Sessions.Validate(c.Request().Context(), cookie.Value)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	if ident.Role == models.RoleAdmin {
		return c.Redirect(http.StatusFound, "/store")
	}
	return c.Redirect(http.StatusFound, "/shop")
}

package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/instamart/backend/internal/service/session"
)

const identityKey = "identity"

// Middleware resolves the session cookie into a request-scoped Identity.
type Middleware struct {
	Sessions *session.Service
}

// RequireLogin rejects requests without a valid, unrevoked session.
func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, err := m.identify(c)
		if err != nil {
			return err
		}
		c.Set(identityKey, ident)
		return next(c)
	}
}

func (m *Middleware) identify(c echo.Context) (*session.Identity, error) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
	}
	ident, err := m.Sessions.Validate(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}
	return ident, nil
}

// CurrentIdentity returns the identity set by the middleware chain.
func CurrentIdentity(c echo.Context) (*session.Identity, error) {
	ident, ok := c.Get(identityKey).(*session.Identity)
	if !ok || ident == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return ident, nil
}

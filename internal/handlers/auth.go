package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/instamart/backend/internal/hash"
	"github.com/instamart/backend/internal/logging"
	"github.com/instamart/backend/internal/models"
	"github.com/instamart/backend/internal/mykafka"
	"github.com/instamart/backend/internal/service/session"
)

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Service
	Producer *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		l.Warn("register_failed", "status", 400, "reason", "missing_credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		l.Warn("register_failed", "status", 400, "reason", "invalid_role")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash the password")
	}

	var existing models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	} else {
		l.Warn("register_failed", "status", 409, "reason", "user_exists")
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "user_events", map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("register_success", "status", 201, "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"id": user.ID, "username": user.Username, "role": user.Role,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	token, exp, err := h.Sessions.Issue(ctx, &user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create session")
	}
	c.SetCookie(session.CreateCookie(token, exp))

	publish(c, h.Producer, "user_events", map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"id": user.ID, "username": user.Username, "role": user.Role,
		"is_admin": user.Role == models.RoleAdmin,
	})
}

// LogOut revokes the session behind the cookie when there is one. It succeeds
// either way.
func (h *AuthHandler) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if err := h.Sessions.Revoke(ctx, cookie.Value); err != nil {
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke session", "error", err)
		}
	}

	c.SetCookie(session.DeleteCookie())
	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

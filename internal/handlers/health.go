package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB *gorm.DB
}

func (h *HealthHandler) Check(c echo.Context) error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "store unavailable")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "store unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

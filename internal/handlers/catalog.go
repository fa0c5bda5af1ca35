package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/instamart/backend/internal/middleware/auth"
	"github.com/instamart/backend/internal/models"
	"github.com/instamart/backend/internal/mykafka"
)

type CatalogHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type CreateItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity uint    `json:"quantity"`
	Image    string  `json:"image"`
}

// UpdateItemRequest uses pointers so absent fields are left unchanged.
type UpdateItemRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *uint    `json:"quantity"`
	Image    *string  `json:"image"`
}

func (h *CatalogHandler) ListItems(c echo.Context) error {
	var items []models.Item
	if err := h.DB.WithContext(c.Request().Context()).Order("id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list items")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) CreateItem(c echo.Context) error {
	ident, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price cannot be negative")
	}

	item := models.Item{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Image:    req.Image,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create item")
	}

	publish(c, h.Producer, "item_events", map[string]any{
		"type":   "item_created",
		"userID": ident.UserID,
		"itemID": item.ID,
		"name":   item.Name,
	})
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateItem(c echo.Context) error {
	ident, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Price != nil && *req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price cannot be negative")
	}

	ctx := c.Request().Context()
	var item models.Item
	if err := h.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load item")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Image != nil {
		item.Image = *req.Image
	}

	if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update item")
	}

	publish(c, h.Producer, "item_events", map[string]any{
		"type":   "item_updated",
		"userID": ident.UserID,
		"itemID": item.ID,
		"name":   item.Name,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) DeleteItem(c echo.Context) error {
	ident, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.WithContext(c.Request().Context()).Delete(&models.Item{}, id)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete item")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}

	publish(c, h.Producer, "item_events", map[string]any{
		"type":   "item_deleted",
		"userID": ident.UserID,
		"itemID": id,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted"})
}

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

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type CartLineView struct {
	ID       uint    `json:"id"`
	ItemID   uint    `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity uint    `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type CartView struct {
	Items []CartLineView `json:"items"`
	Total float64        `json:"total"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ident, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var lines []models.CartLine
	if err := h.DB.WithContext(ctx).Where("user_id = ?", ident.UserID).Order("id ASC").Find(&lines).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}

	view := CartView{Items: make([]CartLineView, 0, len(lines))}
	for _, line := range lines {
		var item models.Item
		if err := h.DB.WithContext(ctx).First(&item, line.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
		}
		subtotal := item.Price * float64(line.Quantity)
		view.Items = append(view.Items, CartLineView{
			ID:       line.ID,
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		view.Total += subtotal
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ident, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var req struct {
		ItemID   uint `json:"item_id"`
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()
	var item models.Item
	if err := h.DB.WithContext(ctx).First(&item, req.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load item")
	}

	// Stock is deliberately not checked here; checkout is the only gate.
	line := models.CartLine{
		UserID:   ident.UserID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	}
	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartLine{}).
			Where("user_id = ? AND item_id = ?", ident.UserID, req.ItemID).
			Update("quantity", gorm.Expr("quantity + ?", req.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND item_id = ?", ident.UserID, req.ItemID).First(&line).Error
		}
		return tx.Create(&line).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":     "cart_line_added",
		"userID":   ident.UserID,
		"itemID":   req.ItemID,
		"quantity": line.Quantity,
	})
	return c.JSON(http.StatusOK, line)
}

// RemoveCartLine deletes by (line id, owner). A line owned by someone else
// yields the same 404 as a missing one.
func (h *CartHandler) RemoveCartLine(c echo.Context) error {
	ident, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.WithContext(c.Request().Context()).
		Where("id = ? AND user_id = ?", id, ident.UserID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete cart line")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "cart line not found")
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":   "cart_line_removed",
		"userID": ident.UserID,
		"lineID": id,
	})
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

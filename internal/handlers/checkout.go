package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/instamart/backend/internal/logging"
	"github.com/instamart/backend/internal/middleware/auth"
	"github.com/instamart/backend/internal/models"
	"github.com/instamart/backend/internal/mykafka"
)

type CheckoutHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// Checkout converts the caller's cart into an order inside one transaction:
// every stock check must pass before any decrement survives. The decrement is
// a guarded update so a concurrent checkout of the same item cannot push
// stock below zero.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ident, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	var (
		order      models.Order
		orderItems []models.OrderItem
	)

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Where("user_id = ?", ident.UserID).Order("id ASC").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		var total float64
		orderItems = make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			var item models.Item
			if err := tx.First(&item, line.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "item no longer exists")
				}
				return err
			}
			if item.Quantity < line.Quantity {
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("not enough stock for %s", item.Name))
			}

			res := tx.Model(&models.Item{}).
				Where("id = ? AND quantity >= ?", item.ID, line.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Depleted between the read and the update.
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("not enough stock for %s", item.Name))
			}

			total += item.Price * float64(line.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				UserID:    ident.UserID,
				ItemID:    item.ID,
				Quantity:  line.Quantity,
				UnitPrice: item.Price,
			})
		}

		order = models.Order{
			UserID:    ident.UserID,
			CreatedAt: time.Now().Unix(),
			Total:     total,
			Status:    "new",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
			if err := tx.Create(&orderItems[i]).Error; err != nil {
				return err
			}
		}

		return tx.Where("user_id = ?", ident.UserID).Delete(&models.CartLine{}).Error
	})

	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			l.Warn("checkout_rejected", "status", he.Code, "reason", he.Message)
			return he
		}
		l.Error("checkout_failed", "status", 500, "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_created",
		"userID":  ident.UserID,
		"orderID": order.ID,
		"total":   order.Total,
	})

	l.Info("checkout_success", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusOK, echo.Map{
		"message":  fmt.Sprintf("order placed, total %.2f", order.Total),
		"total":    order.Total,
		"order_id": order.ID,
	})
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/canteenhq/canteen/internal/models"
	"github.com/canteenhq/canteen/internal/mykafka"
	"github.com/canteenhq/canteen/internal/service/token"
	"github.com/canteenhq/canteen/internal/status"
)

const (
	// TaxRate and ServiceFee are applied on top of the cart subtotal at
	// checkout.
	TaxRate    = 0.08
	ServiceFee = 2.00

	// PrepEstimateMinutes is stamped on an order when the kitchen starts
	// preparing it.
	PrepEstimateMinutes = 15
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// CreateOrder is the checkout: it turns the caller's cart into a pending
// order and clears the cart, all in one transaction. The cart snapshot
// prices are authoritative; the catalog is not re-read.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var order models.Order
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Where("user_id = ?", userID).Find(&lines).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if len(lines) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "your cart is empty")
		}

		var subtotal float64
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			subtotal += line.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				Price:      line.Price,
			})
		}

		order = models.Order{
			PublicID:    "ORD-" + uuid.NewString(),
			UserID:      userID,
			Items:       items,
			TotalAmount: subtotal + subtotal*TaxRate + ServiceFee,
			Status:      status.Pending,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return nil
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, order.PublicID, map[string]any{
		"type":    "order_created",
		"orderID": order.PublicID,
		"userID":  userID,
		"total":   order.TotalAmount,
	})
	return c.JSON(http.StatusCreated, order)
}

// ListUserOrders returns the caller's order history, newest first.
func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var order models.Order
	if err := h.DB.Preload("Items").
		Where("public_id = ?", c.Param("id")).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if order.UserID != userID && token.Role(c) != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus moves an order along the lifecycle. Edges not in the
// transition table are rejected, so a completed or cancelled order can never
// change again.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	var req struct {
		Status status.Status `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var order models.Order
	if err := h.DB.Where("public_id = ?", c.Param("id")).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := status.Transition(order.Status, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	order.Status = req.Status
	if req.Status == status.Preparing {
		order.EstimatedMinutes = PrepEstimateMinutes
	}
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, order.PublicID, map[string]any{
		"type":    "order_status_updated",
		"orderID": order.PublicID,
		"status":  order.Status,
	})

	if err := h.DB.Preload("Items").First(&order, order.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, order)
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/canteenhq/canteen/internal/models"
	"github.com/canteenhq/canteen/internal/mykafka"
	"github.com/canteenhq/canteen/internal/service/token"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type cartResponse struct {
	Items      []models.CartLine `json:"items"`
	TotalItems uint              `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

func buildCartResponse(items []models.CartLine) cartResponse {
	resp := cartResponse{Items: items}
	for _, line := range items {
		resp.TotalItems += line.Quantity
		resp.TotalPrice += line.Price * float64(line.Quantity)
	}
	return resp
}

func (h *CartHandler) publish(c echo.Context, userID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicCartEvents, fmt.Sprint(userID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CartHandler) lines(userID uint) ([]models.CartLine, error) {
	var items []models.CartLine
	err := h.DB.Where("user_id = ?", userID).Order("id").Find(&items).Error
	return items, err
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.lines(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, buildCartResponse(items))
}

// AddToCart puts one unit of a menu item into the cart, snapshotting its
// display fields. Adding an item already in the cart is a no-op; only an
// explicit quantity update changes the count.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		MenuItemID string `json:"menu_item_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MenuItemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "menu_item_id is required")
	}

	var existing models.CartLine
	tx := h.DB.Where("user_id = ? AND menu_item_id = ?", userID, req.MenuItemID).First(&existing)
	if tx.Error == nil {
		return c.JSON(http.StatusOK, existing)
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, tx.Error.Error())
	}

	var item models.MenuItem
	if err := h.DB.Where("id = ?", req.MenuItemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !item.Available {
		return echo.NewHTTPError(http.StatusBadRequest, "menu item is not available")
	}

	line := models.CartLine{
		UserID:     userID,
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Image:      item.Image,
		Category:   item.Category,
		Quantity:   1,
	}
	if err := h.DB.Create(&line).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, userID, map[string]any{
		"type":   "cart_item_added",
		"userID": userID,
		"itemID": item.ID,
	})
	return c.JSON(http.StatusCreated, line)
}

// UpdateQuantity sets a line's quantity. Zero or below removes the line, so
// a stored quantity is always positive.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	itemID := c.Param("id")
	var line models.CartLine
	if err := h.DB.Where("user_id = ? AND menu_item_id = ?", userID, itemID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not in cart")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Quantity <= 0 {
		if err := h.DB.Delete(&line).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.publish(c, userID, map[string]any{
			"type":   "cart_item_removed",
			"userID": userID,
			"itemID": itemID,
		})
		return c.JSON(http.StatusOK, echo.Map{"removed": itemID})
	}

	line.Quantity = uint(req.Quantity)
	if err := h.DB.Save(&line).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, userID, map[string]any{
		"type":     "cart_quantity_updated",
		"userID":   userID,
		"itemID":   itemID,
		"quantity": line.Quantity,
	})
	return c.JSON(http.StatusOK, line)
}

// RemoveItem drops a line no matter its quantity. Removing an absent item is
// not an error.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	itemID := c.Param("id")
	if err := h.DB.
		Where("user_id = ? AND menu_item_id = ?", userID, itemID).
		Delete(&models.CartLine{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, userID, map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"itemID": itemID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return c.NoContent(http.StatusNoContent)
}

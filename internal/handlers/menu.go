package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/canteenhq/canteen/internal/cache"
	"github.com/canteenhq/canteen/internal/models"
	"github.com/canteenhq/canteen/internal/mykafka"
	"github.com/canteenhq/canteen/internal/service/search"
)

type MenuHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Cache    *cache.MenuCache
	ES       *elasticsearch.Client
	Index    string
}

func (h *MenuHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicMenuEvents, fmt.Sprint(event["itemID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// afterMutation keeps the cache and search index in step with the catalog.
// Both are best-effort: a cold cache or stale index never fails the request.
func (h *MenuHandler) afterMutation(c echo.Context, item *models.MenuItem, deleted bool) {
	ctx := c.Request().Context()
	if err := h.Cache.Invalidate(ctx); err != nil {
		c.Logger().Errorf("menu cache invalidate error: %v", err)
	}
	if h.ES == nil || item == nil {
		return
	}
	var err error
	if deleted {
		err = search.DeleteItem(ctx, h.ES, h.Index, item.ID)
	} else {
		err = search.IndexItem(ctx, h.ES, h.Index, *item)
	}
	if err != nil {
		c.Logger().Errorf("menu index error: %v", err)
	}
}

func (h *MenuHandler) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	if items, ok := h.Cache.Get(ctx); ok {
		return c.JSON(http.StatusOK, items)
	}

	var items []models.MenuItem
	if err := h.DB.Order("category, name").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.Cache.Set(ctx, items); err != nil {
		c.Logger().Errorf("menu cache set error: %v", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetMenuItem(c echo.Context) error {
	var item models.MenuItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) GetMenuByCategory(c echo.Context) error {
	category := c.Param("category")
	if !models.ValidCategory(category) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}

	var items []models.MenuItem
	if err := h.DB.Where("category = ?", category).Order("name").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) CreateMenuItem(c echo.Context) error {
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Image       string   `json:"image"`
		Category    string   `json:"category"`
		Available   bool     `json:"available"`
		Ingredients []string `json:"ingredients"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be non-negative")
	}
	if !models.ValidCategory(req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}

	item := models.MenuItem{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Available:   req.Available,
		Ingredients: req.Ingredients,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.afterMutation(c, &item, false)
	h.publish(c, map[string]any{
		"type":   "menu_item_created",
		"itemID": item.ID,
		"name":   item.Name,
	})
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) UpdateMenuItem(c echo.Context) error {
	var item models.MenuItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Image       string   `json:"image"`
		Category    string   `json:"category"`
		Available   bool     `json:"available"`
		Ingredients []string `json:"ingredients"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be non-negative")
	}
	if !models.ValidCategory(req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Image = req.Image
	item.Category = req.Category
	item.Available = req.Available
	item.Ingredients = req.Ingredients

	if err := h.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.afterMutation(c, &item, false)
	h.publish(c, map[string]any{
		"type":   "menu_item_updated",
		"itemID": item.ID,
		"name":   item.Name,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c echo.Context) error {
	id := c.Param("id")
	if err := h.DB.Delete(&models.MenuItem{}, "id = ?", id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.afterMutation(c, &models.MenuItem{ID: id}, true)
	h.publish(c, map[string]any{
		"type":   "menu_item_deleted",
		"itemID": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) UpdateAvailability(c echo.Context) error {
	var req struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var item models.MenuItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	item.Available = req.Available
	if err := h.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.afterMutation(c, &item, false)
	h.publish(c, map[string]any{
		"type":      "menu_item_availability",
		"itemID":    item.ID,
		"available": item.Available,
	})
	return c.JSON(http.StatusOK, item)
}

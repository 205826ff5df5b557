package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/canteenhq/canteen/internal/models"
)

func TestGetMenu(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &MenuHandler{DB: db}

	seedMenuItem(t, db, "Grilled Chicken Sandwich", 12.99, true)
	seedMenuItem(t, db, "French Fries", 4.49, true)

	rec, c := newJSONContext(t, e, http.MethodGet, "/api/menu", nil, 0, "")
	require.NoError(t, h.GetMenu(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
}

func TestGetMenuByCategory(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &MenuHandler{DB: db}

	lunch := seedMenuItem(t, db, "Caesar Salad Bowl", 10.49, true)
	drink := models.MenuItem{ID: "bev-1", Name: "Iced Coffee", Description: "cold brew", Price: 3.99, Category: models.CategoryBeverages, Available: true}
	require.NoError(t, db.Create(&drink).Error)

	rec, c := newJSONContext(t, e, http.MethodGet, "/api/menu/category/lunch", nil, 0, "")
	c.SetParamNames("category")
	c.SetParamValues("lunch")
	require.NoError(t, h.GetMenuByCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, lunch.ID, items[0].ID)

	// unknown categories are rejected, not silently empty
	_, c = newJSONContext(t, e, http.MethodGet, "/api/menu/category/dinner", nil, 0, "")
	c.SetParamNames("category")
	c.SetParamValues("dinner")
	err := h.GetMenuByCategory(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCreateMenuItemValidation(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &MenuHandler{DB: db}

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"category": "lunch", "price": 5.0}},
		{"negative price", map[string]any{"name": "Soup", "category": "lunch", "price": -1.0}},
		{"bad category", map[string]any{"name": "Soup", "category": "dinner", "price": 5.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, c := newJSONContext(t, e, http.MethodPost, "/api/menu", tc.body, 3, "admin")
			err := h.CreateMenuItem(c)
			require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
		})
	}

	rec, c := newJSONContext(t, e, http.MethodPost, "/api/menu", map[string]any{
		"name":        "Tomato Soup",
		"description": "with basil",
		"price":       5.49,
		"category":    "lunch",
		"available":   true,
		"ingredients": []string{"tomato", "basil"},
	}, 3, "admin")
	require.NoError(t, h.CreateMenuItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.NotEmpty(t, item.ID)
	require.Equal(t, []string{"tomato", "basil"}, item.Ingredients)
}

func TestUpdateMenuItem(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &MenuHandler{DB: db}
	item := seedMenuItem(t, db, "Pancake Stack", 8.99, true)

	rec, c := newJSONContext(t, e, http.MethodPut, "/api/menu/"+item.ID, map[string]any{
		"name":        "Pancake Stack XL",
		"description": "five pancakes",
		"price":       9.99,
		"category":    "breakfast",
		"available":   true,
	}, 3, "admin")
	c.SetParamNames("id")
	c.SetParamValues(item.ID)
	require.NoError(t, h.UpdateMenuItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.MenuItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&stored).Error)
	require.Equal(t, "Pancake Stack XL", stored.Name)
	require.InDelta(t, 9.99, stored.Price, 1e-9)
	require.Equal(t, models.CategoryBreakfast, stored.Category)

	_, c = newJSONContext(t, e, http.MethodPut, "/api/menu/missing", map[string]any{
		"name": "x", "category": "lunch", "price": 1.0,
	}, 3, "admin")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	err := h.UpdateMenuItem(c)
	require.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestUpdateAvailability(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &MenuHandler{DB: db}
	item := seedMenuItem(t, db, "Breakfast Burrito", 9.49, true)

	rec, c := newJSONContext(t, e, http.MethodPatch, "/api/menu/"+item.ID+"/availability", map[string]bool{"available": false}, 3, "admin")
	c.SetParamNames("id")
	c.SetParamValues(item.ID)
	require.NoError(t, h.UpdateAvailability(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.MenuItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&stored).Error)
	require.False(t, stored.Available)
}

func TestDeleteMenuItem(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &MenuHandler{DB: db}
	item := seedMenuItem(t, db, "Veggie Spring Rolls", 6.49, true)

	rec, c := newJSONContext(t, e, http.MethodDelete, "/api/menu/"+item.ID, nil, 3, "admin")
	c.SetParamNames("id")
	c.SetParamValues(item.ID)
	require.NoError(t, h.DeleteMenuItem(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	require.Zero(t, count)
}

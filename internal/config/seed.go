package config

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteenhq/canteen/internal/models"
)

// SeedMenu populates an empty catalog with the default canteen menu so a
// fresh deployment has something to sell.
func SeedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.MenuItem{
		{Name: "Grilled Chicken Sandwich", Description: "Juicy grilled chicken with fresh vegetables", Price: 12.99, Category: models.CategoryLunch, Available: true, Ingredients: []string{"chicken", "lettuce", "tomato", "bread"}},
		{Name: "Pancake Stack", Description: "Fluffy pancakes with maple syrup and butter", Price: 8.99, Category: models.CategoryBreakfast, Available: true, Ingredients: []string{"flour", "eggs", "milk", "maple syrup"}},
		{Name: "Fresh Orange Juice", Description: "Squeezed to order", Price: 4.99, Category: models.CategoryBeverages, Available: true, Ingredients: []string{"oranges"}},
		{Name: "Veggie Spring Rolls", Description: "Crispy rolls with sweet chili dip", Price: 6.49, Category: models.CategorySnacks, Available: true, Ingredients: []string{"cabbage", "carrot", "rice paper"}},
		{Name: "Caesar Salad Bowl", Description: "Romaine, parmesan and garlic croutons", Price: 10.49, Category: models.CategoryLunch, Available: true, Ingredients: []string{"romaine", "parmesan", "croutons"}},
		{Name: "Breakfast Burrito", Description: "Scrambled eggs, cheese and salsa", Price: 9.49, Category: models.CategoryBreakfast, Available: false, Ingredients: []string{"eggs", "cheese", "tortilla", "salsa"}},
		{Name: "Iced Coffee", Description: "Cold brew over ice", Price: 3.99, Category: models.CategoryBeverages, Available: true, Ingredients: []string{"coffee", "ice"}},
		{Name: "French Fries", Description: "Golden and salted", Price: 4.49, Category: models.CategorySnacks, Available: true, Ingredients: []string{"potatoes", "salt"}},
	}
	for i := range items {
		items[i].ID = uuid.NewString()
	}
	return db.Create(&items).Error
}

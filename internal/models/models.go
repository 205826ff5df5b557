package models

import (
	"time"

	"github.com/canteenhq/canteen/internal/status"
)

const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategorySnacks    = "snacks"
	CategoryBeverages = "beverages"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategorySnacks, CategoryBeverages:
		return true
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `gorm:"not null"        json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type MenuItem struct {
	ID          string   `gorm:"primaryKey"                json:"id"`
	Name        string   `gorm:"not null"                  json:"name"`
	Description string   `gorm:"not null"                  json:"description"`
	Price       float64  `gorm:"not null;check:price >= 0" json:"price"`
	Image       string   `json:"image"`
	Category    string   `gorm:"index;not null"            json:"category"`
	Available   bool     `gorm:"default:true"              json:"available"`
	Ingredients []string `gorm:"serializer:json"           json:"ingredients,omitempty"`
}

// CartLine snapshots the menu item's display fields at add time, so a later
// catalog edit does not change what the user already put in the cart.
type CartLine struct {
	ID         uint    `gorm:"primaryKey"                                json:"-"`
	UserID     uint    `gorm:"not null;uniqueIndex:idx_cart_user_item"   json:"user_id"`
	MenuItemID string  `gorm:"not null;uniqueIndex:idx_cart_user_item"   json:"id"`
	Name       string  `gorm:"not null"                                  json:"name"`
	Price      float64 `gorm:"not null"                                  json:"price"`
	Image      string  `json:"image"`
	Category   string  `json:"category"`
	Quantity   uint    `gorm:"not null;check:quantity > 0"               json:"quantity"`
}

type Order struct {
	ID               uint          `gorm:"primaryKey;autoIncrement" json:"-"`
	PublicID         string        `gorm:"uniqueIndex;not null"     json:"id"`
	UserID           uint          `gorm:"index;not null"           json:"user_id"`
	Items            []OrderItem   `gorm:"foreignKey:OrderID"       json:"items"`
	TotalAmount      float64       `gorm:"not null"                 json:"total_amount"`
	Status           status.Status `gorm:"not null"                 json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	EstimatedMinutes uint          `json:"estimated_time,omitempty"`
}

type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	OrderID    uint    `gorm:"index;not null" json:"-"`
	MenuItemID string  `gorm:"not null"   json:"menu_item_id"`
	Quantity   uint    `gorm:"not null"   json:"quantity"`
	Price      float64 `gorm:"not null"   json:"price"`
}

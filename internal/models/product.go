package models

import "time"

type Product struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	SKU         string  `gorm:"size:60" json:"sku"`
	Description string  `gorm:"size:255" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2)" json:"price"`
	Stock       int     `gorm:"default:0" json:"stock"`
	MinStock    int     `gorm:"default:0" json:"min_stock"`
	Active      bool    `gorm:"default:true" json:"active"`
	ImageURL    string  `gorm:"size:512" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StockMovement struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	SalonID   uint  `gorm:"index" json:"salon_id"`
	ProductID uint  `gorm:"index" json:"product_id"`
	UserID    *uint `json:"user_id"`

	Type           string `gorm:"size:20;not null" json:"type"`
	Quantity       int    `json:"quantity"`
	QuantityBefore int    `json:"quantity_before"`
	QuantityAfter  int    `json:"quantity_after"`
	Reason         string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

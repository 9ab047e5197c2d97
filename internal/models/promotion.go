package models

import "time"

type Promotion struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"uniqueIndex:idx_promotion_code" json:"salon_id"`

	Code        string `gorm:"size:40;not null;uniqueIndex:idx_promotion_code" json:"code"`
	Description string `gorm:"size:255" json:"description"`

	DiscountType  string  `gorm:"size:10;not null" json:"discount_type"`
	DiscountValue float64 `gorm:"type:decimal(10,2)" json:"discount_value"`

	// nil means every service
	ServiceID *uint `json:"service_id"`

	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
	MaxUses   int        `gorm:"default:0" json:"max_uses"`
	UsedCount int        `gorm:"default:0" json:"used_count"`
	Active    bool       `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

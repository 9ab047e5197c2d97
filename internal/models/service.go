package models

import "time"

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `gorm:"not null" json:"duration_min"`
	Price       float64 `gorm:"type:decimal(10,2)" json:"price"`
	Category    string  `gorm:"size:50" json:"category"`
	Active      bool    `gorm:"default:true" json:"active"`
	ImageURL    string  `gorm:"size:512" json:"image_url"`

	DepositRequired   bool    `gorm:"default:false" json:"deposit_required"`
	DepositPercentage float64 `gorm:"type:decimal(5,2);default:0" json:"deposit_percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

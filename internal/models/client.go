package models

import "time"

// Cliente sem login, identificado pelo WhatsApp dentro do salão
type Client struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"uniqueIndex:idx_client_whatsapp" json:"salon_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	WhatsApp string `gorm:"size:20;not null;uniqueIndex:idx_client_whatsapp" json:"whatsapp"`
	Email    string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

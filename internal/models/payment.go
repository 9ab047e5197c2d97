package models

import "time"

type Payment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	AppointmentID uint        `gorm:"index" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Amount   float64 `gorm:"type:decimal(10,2)" json:"amount"`
	Method   string  `gorm:"size:20" json:"method"`
	Provider string  `gorm:"size:30" json:"provider"`

	ExternalRef string `gorm:"size:64;uniqueIndex" json:"external_ref"`
	ProviderRef string `gorm:"size:64;index" json:"provider_ref"`
	CheckoutURL string `gorm:"size:512" json:"checkout_url,omitempty"`

	Status     string     `gorm:"size:20;default:'pending'" json:"status"`
	PaidAt     *time.Time `json:"paid_at"`
	RefundedAt *time.Time `json:"refunded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

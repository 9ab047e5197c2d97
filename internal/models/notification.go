package models

import "time"

type Notification struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	ClientID      *uint `json:"client_id"`
	AppointmentID *uint `gorm:"index" json:"appointment_id"`

	Channel   string `gorm:"size:20" json:"channel"`
	Recipient string `gorm:"size:120" json:"recipient"`
	Kind      string `gorm:"size:40" json:"kind"`
	Message   string `gorm:"type:text" json:"message"`

	Status   string     `gorm:"size:20;index;default:'pending'" json:"status"`
	Attempts int        `gorm:"default:0" json:"attempts"`
	Error    string     `gorm:"type:text" json:"error,omitempty"`
	SentAt   *time.Time `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Reminder struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	SalonID       uint `gorm:"index" json:"salon_id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	RemindAt time.Time `gorm:"index" json:"remind_at"`
	Status   string    `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

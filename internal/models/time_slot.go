package models

import "time"

// TimeSlot is unique per (service, date, start_time, employee).
type TimeSlot struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	ServiceID  uint  `gorm:"uniqueIndex:idx_time_slot_unique" json:"service_id"`
	EmployeeID *uint `gorm:"uniqueIndex:idx_time_slot_unique" json:"employee_id"`

	Date      string `gorm:"size:10;uniqueIndex:idx_time_slot_unique;index" json:"date"`
	StartTime string `gorm:"size:5;uniqueIndex:idx_time_slot_unique" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	Status        string `gorm:"size:20;default:'available'" json:"status"`
	AppointmentID *uint  `gorm:"index" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

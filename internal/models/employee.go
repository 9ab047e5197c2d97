package models

import "time"

type Employee struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Phone       string `gorm:"size:20" json:"phone"`
	Specialties string `gorm:"size:255" json:"specialties"`
	Active      bool   `gorm:"default:true" json:"active"`
	PhotoURL    string `gorm:"size:512" json:"photo_url"`

	Services  []Service          `gorm:"many2many:employee_services;" json:"services,omitempty"`
	Schedules []EmployeeSchedule `json:"schedules,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OffersService reports whether the preloaded Services contain serviceID.
func (e *Employee) OffersService(serviceID uint) bool {
	for _, s := range e.Services {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}

type EmployeeSchedule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	EmployeeID uint `gorm:"index" json:"employee_id"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

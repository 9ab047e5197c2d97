package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	EmployeeID *uint     `gorm:"index" json:"employee_id"`
	Employee   *Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee,omitempty"`

	ScheduledAt time.Time `gorm:"index" json:"scheduled_at"`
	EndsAt      time.Time `json:"ends_at"`

	Status string `gorm:"size:20;index;default:'pending_deposit'" json:"status"`

	Price       float64 `gorm:"type:decimal(10,2)" json:"price"`
	Discount    float64 `gorm:"type:decimal(10,2);default:0" json:"discount"`
	PromotionID *uint   `json:"promotion_id"`

	DepositAmount float64 `gorm:"type:decimal(10,2);default:0" json:"deposit_amount"`
	DepositPaid   bool    `gorm:"default:false" json:"deposit_paid"`

	RescheduleCount int `gorm:"default:0" json:"reschedule_count"`

	Notes        string     `gorm:"size:255" json:"notes"`
	CancelReason string     `gorm:"size:100" json:"cancel_reason,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FinalPrice is the price after the promotion discount.
func (a *Appointment) FinalPrice() float64 {
	p := a.Price - a.Discount
	if p < 0 {
		return 0
	}
	return p
}

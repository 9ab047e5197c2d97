package dto

import (
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	EndsAt       time.Time `json:"ends_at"`
	Status       string    `json:"status"`
	ClientName   string    `json:"client_name"`
	ClientPhone  string    `json:"client_whatsapp"`
	ServiceName  string    `json:"service_name"`
	EmployeeID   *uint     `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	FinalPrice   float64   `json:"final_price"`
	DepositPaid  bool      `json:"deposit_paid"`
}

func NewAppointmentListDTO(ap *models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:          ap.ID,
		ScheduledAt: ap.ScheduledAt,
		EndsAt:      ap.EndsAt,
		Status:      ap.Status,
		ClientName:  ap.Client.Name,
		ClientPhone: ap.Client.WhatsApp,
		ServiceName: ap.Service.Name,
		EmployeeID:  ap.EmployeeID,
		FinalPrice:  ap.FinalPrice(),
		DepositPaid: ap.DepositPaid,
	}
	if ap.Employee != nil {
		out.EmployeeName = ap.Employee.Name
	}
	return out
}

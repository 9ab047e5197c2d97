package payment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type ListFilter struct {
	SalonID       uint
	AppointmentID uint
	Status        string
	From          time.Time
	To            time.Time
}

type Repository interface {
	GetAppointment(ctx context.Context, salonID, appointmentID uint) (*models.Appointment, error)

	CreatePayment(ctx context.Context, p *models.Payment) error
	UpdatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, salonID, paymentID uint) (*models.Payment, error)

	// GetPaymentByExternalRef locks the row for the rest of the transaction.
	GetPaymentByExternalRef(ctx context.Context, ref string) (*models.Payment, error)

	// PendingForAppointment returns an open online checkout, if any.
	PendingForAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error)

	// SettledForAppointment returns a completed payment, if any.
	SettledForAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error)

	ListPayments(ctx context.Context, filter ListFilter) ([]models.Payment, error)

	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

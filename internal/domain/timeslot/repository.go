package timeslot

import (
	"context"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

// ListFilter narrows ListSlots. Zero values are ignored; Unassigned selects
// slots without employee.
type ListFilter struct {
	SalonID    uint
	ServiceID  uint
	EmployeeID *uint
	Unassigned bool
	Date       string
	Status     string
}

type Repository interface {
	GetSalonByID(ctx context.Context, id uint) (*models.Salon, error)
	GetService(ctx context.Context, salonID, serviceID uint) (*models.Service, error)
	GetEmployee(ctx context.Context, salonID, employeeID uint) (*models.Employee, error)

	// InsertSlots skips rows colliding with the unique key and returns how
	// many were inserted.
	InsertSlots(ctx context.Context, slots []models.TimeSlot) (int64, error)

	ListSlots(ctx context.Context, filter ListFilter) ([]models.TimeSlot, error)
	GetSlot(ctx context.Context, salonID, slotID uint) (*models.TimeSlot, error)
	UpdateSlot(ctx context.Context, slot *models.TimeSlot) error

	// ListDayAppointments returns every appointment of the salon
	// scheduled in [start, end), cancelled ones included.
	ListDayAppointments(ctx context.Context, salonID uint, start, end time.Time) ([]models.Appointment, error)
}

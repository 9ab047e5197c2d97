package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

// ListFilter narrows ListAppointments. Zero values are ignored.
type ListFilter struct {
	SalonID    uint
	EmployeeID *uint
	ClientID   *uint
	Status     string
	From       time.Time
	To         time.Time
}

// Version is the stored state a change was computed from. UpdateAppointment
// writes only while the row still matches it and fails with invalid_state
// otherwise.
type Version struct {
	Status          string
	RescheduleCount int
}

func VersionOf(ap *models.Appointment) Version {
	return Version{Status: ap.Status, RescheduleCount: ap.RescheduleCount}
}

// Overlap scope: an appointment with an employee competes with that
// employee's appointments and with unassigned ones; an unassigned
// appointment competes with every appointment of the salon.
type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	// -------- Service / Employee --------
	GetService(
		ctx context.Context,
		salonID uint,
		serviceID uint,
	) (*models.Service, error)

	// GetEmployee preloads Services and Schedules.
	GetEmployee(
		ctx context.Context,
		salonID uint,
		employeeID uint,
	) (*models.Employee, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		salonID uint,
		name string,
		whatsapp string,
		email string,
	) (*models.Client, error)

	// -------- Promotion --------
	GetPromotionByCode(
		ctx context.Context,
		salonID uint,
		code string,
	) (*models.Promotion, error)

	IncrementPromotionUsage(
		ctx context.Context,
		promotionID uint,
	) error

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// FindConflicts locks and returns the non-cancelled appointments of the
	// scope overlapping [start, end), ignoring excludeID.
	FindConflicts(
		ctx context.Context,
		salonID uint,
		employeeID *uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) ([]models.Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		from Version,
	) error

	ListExpiredPendingDeposits(
		ctx context.Context,
		createdBefore time.Time,
		limit int,
	) ([]models.Appointment, error)

	// -------- Availability --------
	ListBusy(
		ctx context.Context,
		salonID uint,
		employeeID *uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListBlockedSlots(
		ctx context.Context,
		salonID uint,
		employeeID *uint,
		date string,
	) ([]models.TimeSlot, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	// -------- Time slot reconciliation --------
	// ReserveSlot fails with slot_blocked when the matching slot is blocked
	// or cancelled.
	ReserveSlot(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ReleaseSlot(
		ctx context.Context,
		appointmentID uint,
	) error

	// -------- Transaction --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}

package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

type RescheduleInput struct {
	SalonID       uint
	AppointmentID uint

	Date string
	Time string

	// EmployeeID nil keeps the current employee.
	EmployeeID *uint

	// ClientWhatsApp must match the booking when set (public API).
	ClientWhatsApp string

	ActorID *uint
}

type RescheduleAppointment struct {
	Deps
}

func NewRescheduleAppointment(d Deps) *RescheduleAppointment {
	return &RescheduleAppointment{Deps: d}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	shop, err := uc.Repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	policy := domain.PolicyFor(shop, uc.Rules)

	ap, err := uc.loadAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := checkClient(ap, in.ClientWhatsApp); err != nil {
		return nil, err
	}

	// status e limite antes de validar o novo horário
	if err := domain.CanTransition(domain.Status(ap.Status), domain.StatusRescheduled); err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(ap.RescheduleCount, policy.MaxReschedules); err != nil {
		return nil, err
	}

	start, err := timezone.ParseDateTime(shop.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	now := uc.now().In(start.Location())
	if err := domain.CheckLeadTime(start, now, policy.MinAdvance); err != nil {
		return nil, err
	}

	service, err := uc.loadService(ctx, in.SalonID, ap.ServiceID)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	if err := domain.CheckBusinessHours(start, end, policy.Hours); err != nil {
		return nil, err
	}

	employeeID := ap.EmployeeID
	if in.EmployeeID != nil {
		employeeID = in.EmployeeID
	}

	var emp *models.Employee
	if employeeID != nil {
		emp, err = uc.loadEmployee(ctx, in.SalonID, *employeeID, service.ID)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckEmployeeSchedule(start, end, emp.Schedules); err != nil {
			return nil, err
		}
	}

	oldStart := ap.ScheduledAt
	from := domain.VersionOf(ap)

	if err := domain.Reschedule(ap, start, end, employeeID, policy.MaxReschedules); err != nil {
		return nil, err
	}
	ap.Salon = *shop

	err = uc.withBookingLock(ctx, in.SalonID, start, func(tx domain.Repository) error {
		if err := assertFree(ctx, tx, ap); err != nil {
			return err
		}
		if err := assertNotBlocked(ctx, tx, ap, start.Location()); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap, from); err != nil {
			return err
		}
		if err := tx.ReleaseSlot(ctx, ap.ID); err != nil {
			return err
		}
		return tx.ReserveSlot(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	ap.Service = *service
	ap.Employee = emp

	uc.afterChange(ctx, shop, ap, domain.EventRescheduled, in.ActorID, oldStart, start)

	return ap, nil
}

// checkClient guards the public self-service endpoints.
func checkClient(ap *models.Appointment, whatsapp string) error {
	whatsapp = strings.TrimSpace(whatsapp)
	if whatsapp == "" {
		return nil
	}
	if ap.Client.WhatsApp != whatsapp {
		return httperr.ErrBusiness(domain.CodeClientMismatch)
	}
	return nil
}

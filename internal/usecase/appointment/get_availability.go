package appointment

import (
	"context"
	"log"
	"time"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	SalonID    uint
	ServiceID  uint
	EmployeeID *uint
	Date       string
}

type GetAvailability struct {
	Deps
}

func NewGetAvailability(d Deps) *GetAvailability {
	return &GetAvailability{Deps: d}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.TimeSlot, error) {

	shop, err := uc.Repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	policy := domain.PolicyFor(shop, uc.Rules)

	day, err := timezone.ParseDate(shop.Timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	service, err := uc.loadService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	var emp *models.Employee
	if in.EmployeeID != nil {
		emp, err = uc.loadEmployee(ctx, in.SalonID, *in.EmployeeID, service.ID)
		if err != nil {
			return nil, err
		}
	}

	field := cache.Field(service.ID, in.EmployeeID)
	if uc.Cache != nil {
		var cached []domain.TimeSlot
		hit, err := uc.Cache.Get(ctx, in.SalonID, in.Date, field, &cached)
		if err != nil {
			log.Printf("availability cache get salon=%d: %v", in.SalonID, err)
		}
		if hit {
			return cached, nil
		}
	}

	// --------------------------------------------------
	// Janelas do dia (horário comercial ∩ escala)
	// --------------------------------------------------
	var schedules []models.EmployeeSchedule
	if emp != nil {
		schedules = emp.Schedules
	}
	windows := domain.DayWindows(day, policy.Hours, schedules, emp != nil)
	if len(windows) == 0 {
		return []domain.TimeSlot{}, nil
	}

	// --------------------------------------------------
	// Ocupação: agendamentos + slots bloqueados
	// --------------------------------------------------
	dayStart, dayEnd := timezone.DayBounds(day)

	appointments, err := uc.Repo.ListBusy(ctx, in.SalonID, in.EmployeeID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.Window, 0, len(appointments))
	for _, ap := range appointments {
		busy = append(busy, domain.Window{Start: ap.ScheduledAt, End: ap.EndsAt})
	}

	blocked, err := uc.Repo.ListBlockedSlots(ctx, in.SalonID, in.EmployeeID, in.Date)
	if err != nil {
		return nil, err
	}
	for i := range blocked {
		start, end, err := timeslot.Bounds(&blocked[i], day.Location())
		if err != nil {
			continue
		}
		busy = append(busy, domain.Window{Start: start, End: end})
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	notBefore := uc.now().Add(policy.MinAdvance)

	slots := domain.FreeSlots(windows, duration, busy, notBefore)

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, in.SalonID, in.Date, field, slots); err != nil {
			log.Printf("availability cache set salon=%d: %v", in.SalonID, err)
		}
	}

	return slots, nil
}

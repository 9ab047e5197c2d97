package timeslot

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	apdomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

// Invalidator drops cached availability of salon days.
type Invalidator interface {
	Invalidate(ctx context.Context, salonID uint, dates ...string) error
}

type Service struct {
	repo  domain.Repository
	cache Invalidator
	audit *audit.Dispatcher
	rules config.BusinessRules
}

func NewService(
	repo domain.Repository,
	cache Invalidator,
	audit *audit.Dispatcher,
	rules config.BusinessRules,
) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		audit: audit,
		rules: rules,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ======================================================
// GENERATE
// ======================================================

type GenerateInput struct {
	SalonID    uint
	ServiceID  uint
	EmployeeID *uint
	From       string
	To         string
	ActorID    *uint
}

type GenerateResult struct {
	Days      int   `json:"days"`
	Generated int   `json:"generated"`
	Inserted  int64 `json:"inserted"`
	Reserved  int   `json:"reserved"`
}

// GenerateRange materializes the slots of every day in [From, To]. Existing
// slots are kept as they are.
func (s *Service) GenerateRange(ctx context.Context, in GenerateInput) (*GenerateResult, error) {

	shop, err := s.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	policy := apdomain.PolicyFor(shop, s.rules)

	from, err := timezone.ParseDate(shop.Timezone, in.From)
	if err != nil {
		return nil, httperr.ErrBusiness(apdomain.CodeInvalidDateOrTime)
	}
	to, err := timezone.ParseDate(shop.Timezone, in.To)
	if err != nil {
		return nil, httperr.ErrBusiness(apdomain.CodeInvalidDateOrTime)
	}
	if to.Before(from) || to.Sub(from) > domain.MaxRangeDays*24*time.Hour {
		return nil, httperr.ErrBusiness(domain.CodeInvalidRange)
	}

	service, err := s.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if isNotFound(err) || (err == nil && !service.Active) {
		return nil, httperr.ErrBusiness(apdomain.CodeServiceNotFound)
	}
	if err != nil {
		return nil, err
	}

	var emp *models.Employee
	if in.EmployeeID != nil {
		emp, err = s.repo.GetEmployee(ctx, in.SalonID, *in.EmployeeID)
		if isNotFound(err) {
			return nil, httperr.ErrBusiness(apdomain.CodeEmployeeNotFound)
		}
		if err != nil {
			return nil, err
		}
		if !emp.OffersService(service.ID) {
			return nil, httperr.ErrBusiness(apdomain.CodeServiceNotOffered)
		}
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	out := &GenerateResult{}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		out.Days++

		var schedules []models.EmployeeSchedule
		if emp != nil {
			schedules = emp.Schedules
		}
		windows := apdomain.DayWindows(day, policy.Hours, schedules, emp != nil)

		slots := domain.Generate(in.SalonID, service.ID, in.EmployeeID, windows, duration)
		if len(slots) == 0 {
			continue
		}

		dayStart, dayEnd := timezone.DayBounds(day)
		apps, err := s.repo.ListDayAppointments(ctx, in.SalonID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		for i := range slots {
			if domain.Reconcile(&slots[i], day.Location(), apps) {
				out.Reserved++
			}
		}

		inserted, err := s.repo.InsertSlots(ctx, slots)
		if err != nil {
			return nil, err
		}
		out.Generated += len(slots)
		out.Inserted += inserted
	}

	s.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "time_slots_generated",
		Entity:   "time_slot",
		Metadata: out,
	})

	return out, nil
}

// ======================================================
// RECONCILE
// ======================================================

type ReconcileInput struct {
	SalonID    uint
	ServiceID  uint
	EmployeeID *uint
	Date       string
}

// Reconcile re-derives slot status of one day from its appointments and
// returns how many slots changed.
func (s *Service) Reconcile(ctx context.Context, in ReconcileInput) (int, error) {

	shop, err := s.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return 0, err
	}

	day, err := timezone.ParseDate(shop.Timezone, in.Date)
	if err != nil {
		return 0, httperr.ErrBusiness(apdomain.CodeInvalidDateOrTime)
	}

	slots, err := s.repo.ListSlots(ctx, domain.ListFilter{
		SalonID:    in.SalonID,
		ServiceID:  in.ServiceID,
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
	})
	if err != nil {
		return 0, err
	}

	dayStart, dayEnd := timezone.DayBounds(day)
	apps, err := s.repo.ListDayAppointments(ctx, in.SalonID, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range slots {
		if !domain.Reconcile(&slots[i], day.Location(), apps) {
			continue
		}
		if err := s.repo.UpdateSlot(ctx, &slots[i]); err != nil {
			return changed, err
		}
		changed++
	}

	return changed, nil
}

// ======================================================
// MANUAL TRANSITIONS
// ======================================================

func (s *Service) Block(ctx context.Context, salonID, slotID uint, actorID *uint) (*models.TimeSlot, error) {
	return s.transition(ctx, salonID, slotID, actorID, "time_slot_blocked", domain.Block)
}

func (s *Service) Unblock(ctx context.Context, salonID, slotID uint, actorID *uint) (*models.TimeSlot, error) {
	return s.transition(ctx, salonID, slotID, actorID, "time_slot_unblocked", domain.Unblock)
}

func (s *Service) Cancel(ctx context.Context, salonID, slotID uint, actorID *uint) (*models.TimeSlot, error) {
	return s.transition(ctx, salonID, slotID, actorID, "time_slot_cancelled", domain.Cancel)
}

func (s *Service) transition(
	ctx context.Context,
	salonID uint,
	slotID uint,
	actorID *uint,
	action string,
	apply func(slot *models.TimeSlot) error,
) (*models.TimeSlot, error) {

	slot, err := s.repo.GetSlot(ctx, salonID, slotID)
	if isNotFound(err) {
		return nil, httperr.ErrBusiness(domain.CodeSlotNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := apply(slot); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, salonID, slot.Date); err != nil {
			log.Printf("availability cache invalidate salon=%d: %v", salonID, err)
		}
	}

	s.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   actorID,
		Action:   action,
		Entity:   "time_slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}

// ======================================================
// LIST
// ======================================================

func (s *Service) List(ctx context.Context, f domain.ListFilter) ([]models.TimeSlot, error) {
	if f.Date != "" {
		if _, err := time.Parse(timezone.DateLayout, f.Date); err != nil {
			return nil, httperr.ErrBusiness(apdomain.CodeInvalidDateOrTime)
		}
	}
	if f.Status != "" {
		switch domain.Status(f.Status) {
		case domain.StatusAvailable, domain.StatusReserved, domain.StatusBlocked, domain.StatusCancelled:
		default:
			return nil, httperr.ErrBusiness(domain.CodeInvalidState)
		}
	}
	return s.repo.ListSlots(ctx, f)
}

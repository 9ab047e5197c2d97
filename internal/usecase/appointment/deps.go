package appointment

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/nail-scheduler/internal/metrics"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

// AvailabilityCache is satisfied by cache.AvailabilityCache and cache.Nop.
type AvailabilityCache interface {
	Get(ctx context.Context, salonID uint, date, field string, dst any) (bool, error)
	Set(ctx context.Context, salonID uint, date, field string, v any) error
	Invalidate(ctx context.Context, salonID uint, dates ...string) error
}

// Notifier reacts to appointment lifecycle events (messages, reminders).
type Notifier interface {
	AppointmentChanged(ctx context.Context, event string, ap *models.Appointment)
}

// Deps is shared by every appointment use case.
type Deps struct {
	Repo     domain.Repository
	Locker   lock.Locker
	Cache    AvailabilityCache
	Notifier Notifier
	Audit    *audit.Dispatcher
	Rules    config.BusinessRules
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// loadAppointment maps a missing row to appointment_not_found.
func (d Deps) loadAppointment(ctx context.Context, salonID, id uint) (*models.Appointment, error) {
	ap, err := d.Repo.GetAppointment(ctx, salonID, id)
	if isNotFound(err) {
		return nil, httperr.ErrBusiness(domain.CodeAppointmentNotFound)
	}
	return ap, err
}

func (d Deps) loadService(ctx context.Context, salonID, serviceID uint) (*models.Service, error) {
	service, err := d.Repo.GetService(ctx, salonID, serviceID)
	if isNotFound(err) {
		return nil, httperr.ErrBusiness(domain.CodeServiceNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, httperr.ErrBusiness(domain.CodeServiceNotFound)
	}
	return service, nil
}

// loadEmployee requires an active employee offering serviceID.
func (d Deps) loadEmployee(ctx context.Context, salonID, employeeID, serviceID uint) (*models.Employee, error) {
	emp, err := d.Repo.GetEmployee(ctx, salonID, employeeID)
	if isNotFound(err) {
		return nil, httperr.ErrBusiness(domain.CodeEmployeeNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !emp.Active {
		return nil, httperr.ErrBusiness(domain.CodeEmployeeUnavailable)
	}
	if !emp.OffersService(serviceID) {
		return nil, httperr.ErrBusiness(domain.CodeServiceNotOffered)
	}
	return emp, nil
}

// withBookingLock serializes booking changes of one salon day and runs fn
// inside a transaction.
func (d Deps) withBookingLock(
	ctx context.Context,
	salonID uint,
	day time.Time,
	fn func(tx domain.Repository) error,
) error {
	key := lock.BookingKey(salonID, day.Format(timezone.DateLayout))

	err := d.Locker.WithLock(ctx, key, func(ctx context.Context) error {
		return d.Repo.Transaction(ctx, fn)
	})

	switch {
	case errors.Is(err, lock.ErrLockNotAcquired):
		metrics.BookingLockContention.Inc()
		return httperr.ErrBusiness(domain.CodeSlotBeingBooked)
	case httperr.IsExclusionConflict(err):
		return httperr.ErrBusiness(domain.CodeTimeConflict)
	}
	return err
}

// assertFree fails with time_conflict when the range overlaps another
// appointment of the scope. Must run inside the transaction.
func assertFree(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
) error {
	conflicts, err := tx.FindConflicts(ctx, ap.SalonID, ap.EmployeeID, ap.ScheduledAt, ap.EndsAt, ap.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return httperr.ErrBusiness(domain.CodeTimeConflict)
	}
	return nil
}

// assertNotBlocked fails with slot_blocked when the range overlaps a slot the
// salon blocked for the scope. Must run inside the transaction.
func assertNotBlocked(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	loc *time.Location,
) error {
	start := ap.ScheduledAt.In(loc)

	blocked, err := tx.ListBlockedSlots(ctx, ap.SalonID, ap.EmployeeID, start.Format(timezone.DateLayout))
	if err != nil {
		return err
	}
	for i := range blocked {
		from, to, err := timeslot.Bounds(&blocked[i], loc)
		if err != nil {
			log.Printf("blocked slot %d has invalid bounds: %v", blocked[i].ID, err)
			continue
		}
		if domain.Overlaps(ap.ScheduledAt, ap.EndsAt, from, to) {
			return httperr.ErrBusiness(domain.CodeSlotBlocked)
		}
	}
	return nil
}

// afterChange drops cached availability of the touched days and fans the
// event out to audit and notifier.
func (d Deps) afterChange(
	ctx context.Context,
	shop *models.Salon,
	ap *models.Appointment,
	event string,
	actorID *uint,
	days ...time.Time,
) {
	loc := timezone.Location(shop.Timezone)

	dates := make([]string, 0, len(days))
	for _, day := range days {
		dates = append(dates, day.In(loc).Format(timezone.DateLayout))
	}
	if d.Cache != nil {
		if err := d.Cache.Invalidate(ctx, shop.ID, dates...); err != nil {
			log.Printf("availability cache invalidate salon=%d: %v", shop.ID, err)
		}
	}

	metrics.AppointmentEvents.WithLabelValues(event).Inc()

	d.Audit.Dispatch(audit.Event{
		SalonID:  shop.ID,
		UserID:   actorID,
		Action:   event,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"status":       ap.Status,
			"scheduled_at": ap.ScheduledAt,
		},
	})

	if d.Notifier != nil {
		d.Notifier.AppointmentChanged(ctx, event, ap)
	}
}

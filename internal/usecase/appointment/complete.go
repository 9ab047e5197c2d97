package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type CompleteAppointment struct {
	Deps
}

func NewCompleteAppointment(d Deps) *CompleteAppointment {
	return &CompleteAppointment{Deps: d}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	salonID uint,
	actorID *uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.transition(ctx, salonID, actorID, appointmentID, domain.EventCompleted, domain.Complete)
}

type MarkNoShow struct {
	Deps
}

func NewMarkNoShow(d Deps) *MarkNoShow {
	return &MarkNoShow{Deps: d}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	salonID uint,
	actorID *uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.transition(ctx, salonID, actorID, appointmentID, domain.EventNoShow, domain.MarkNoShow)
}

// transition runs a status action that keeps the time range occupied.
func (d Deps) transition(
	ctx context.Context,
	salonID uint,
	actorID *uint,
	appointmentID uint,
	event string,
	action func(ap *models.Appointment, now time.Time) error,
) (*models.Appointment, error) {

	shop, err := d.Repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	ap, err := d.loadAppointment(ctx, salonID, appointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.VersionOf(ap)
	if err := action(ap, d.now()); err != nil {
		return nil, err
	}

	if err := d.Repo.UpdateAppointment(ctx, ap, from); err != nil {
		return nil, err
	}

	d.afterChange(ctx, shop, ap, event, actorID, ap.ScheduledAt)

	return ap, nil
}

package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type ConfirmInput struct {
	SalonID       uint
	AppointmentID uint

	// DepositPaid marks the deposit as settled (payment flow).
	DepositPaid bool

	ActorID *uint
}

type ConfirmAppointment struct {
	Deps
}

func NewConfirmAppointment(d Deps) *ConfirmAppointment {
	return &ConfirmAppointment{Deps: d}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	in ConfirmInput,
) (*models.Appointment, error) {

	shop, err := uc.Repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.loadAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.VersionOf(ap)
	if err := domain.Confirm(ap, uc.now()); err != nil {
		return nil, err
	}
	if in.DepositPaid {
		ap.DepositPaid = true
	}

	if err := uc.Repo.UpdateAppointment(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.afterChange(ctx, shop, ap, domain.EventConfirmed, in.ActorID, ap.ScheduledAt)

	return ap, nil
}

// ConfirmDeposit confirms an appointment whose deposit was settled.
func (uc *ConfirmAppointment) ConfirmDeposit(ctx context.Context, salonID, appointmentID uint) error {
	_, err := uc.Execute(ctx, ConfirmInput{
		SalonID:       salonID,
		AppointmentID: appointmentID,
		DepositPaid:   true,
	})
	return err
}

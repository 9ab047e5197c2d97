package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type CancelInput struct {
	SalonID       uint
	AppointmentID uint
	Reason        string

	// Public requests must match the client's whatsapp and respect the
	// minimum lead time.
	Public         bool
	ClientWhatsApp string

	ActorID *uint
}

type CancelAppointment struct {
	Deps
}

func NewCancelAppointment(d Deps) *CancelAppointment {
	return &CancelAppointment{Deps: d}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (*models.Appointment, error) {

	shop, err := uc.Repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.loadAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	if in.Public {
		if strings.TrimSpace(in.ClientWhatsApp) == "" {
			return nil, httperr.ErrBusiness(domain.CodeClientMismatch)
		}
		if err := checkClient(ap, in.ClientWhatsApp); err != nil {
			return nil, err
		}
		policy := domain.PolicyFor(shop, uc.Rules)
		if ap.ScheduledAt.Before(now.Add(policy.MinAdvance)) {
			return nil, httperr.ErrBusiness(domain.CodeTooLateToCancel)
		}
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "cancelled_by_salon"
		if in.Public {
			reason = "cancelled_by_client"
		}
	}

	if err := uc.cancel(ctx, ap, now, reason); err != nil {
		return nil, err
	}

	uc.afterChange(ctx, shop, ap, domain.EventCancelled, in.ActorID, ap.ScheduledAt)

	return ap, nil
}

// cancel applies the transition and frees the slot in one transaction.
func (d Deps) cancel(ctx context.Context, ap *models.Appointment, now time.Time, reason string) error {
	from := domain.VersionOf(ap)
	if err := domain.Cancel(ap, now, reason); err != nil {
		return err
	}

	return d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.UpdateAppointment(ctx, ap, from); err != nil {
			return err
		}
		return tx.ReleaseSlot(ctx, ap.ID)
	})
}

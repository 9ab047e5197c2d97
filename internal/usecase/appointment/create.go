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

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	SalonID    uint
	ServiceID  uint
	EmployeeID *uint

	ClientName     string
	ClientWhatsApp string
	ClientEmail    string

	Date          string
	Time          string
	Notes         string
	PromotionCode string

	// ActorID is the staff user creating the booking, nil for the public API.
	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	Deps
}

func NewCreateAppointment(d Deps) *CreateAppointment {
	return &CreateAppointment{Deps: d}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Salão
	// --------------------------------------------------
	shop, err := uc.Repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	policy := domain.PolicyFor(shop, uc.Rules)

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone do salão
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(shop.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	now := uc.now().In(start.Location())

	// --------------------------------------------------
	// 3️⃣ Antecedência mínima
	// --------------------------------------------------
	if err := domain.CheckLeadTime(start, now, policy.MinAdvance); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Serviço + horário comercial
	// --------------------------------------------------
	service, err := uc.loadService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	if err := domain.CheckBusinessHours(start, end, policy.Hours); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Profissional (opcional)
	// --------------------------------------------------
	var emp *models.Employee
	if in.EmployeeID != nil {
		emp, err = uc.loadEmployee(ctx, in.SalonID, *in.EmployeeID, service.ID)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckEmployeeSchedule(start, end, emp.Schedules); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 6️⃣ Cliente (get or create pelo WhatsApp)
	// --------------------------------------------------
	client, err := uc.Repo.GetOrCreateClient(
		ctx,
		in.SalonID,
		strings.TrimSpace(in.ClientName),
		strings.TrimSpace(in.ClientWhatsApp),
		strings.TrimSpace(in.ClientEmail),
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Promoção
	// --------------------------------------------------
	var promo *models.Promotion
	var discount float64
	if code := domain.NormalizeCode(in.PromotionCode); code != "" {
		promo, err = uc.Repo.GetPromotionByCode(ctx, in.SalonID, code)
		if isNotFound(err) {
			return nil, httperr.ErrBusiness(domain.CodePromotionNotFound)
		}
		if err != nil {
			return nil, err
		}
		discount, err = domain.PromotionDiscount(promo, service.ID, service.Price, now)
		if err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 8️⃣ Sinal + status inicial
	// --------------------------------------------------
	ap := &models.Appointment{
		SalonID:     in.SalonID,
		Salon:       *shop,
		ServiceID:   service.ID,
		ClientID:    client.ID,
		EmployeeID:  in.EmployeeID,
		ScheduledAt: start,
		EndsAt:      end,
		Price:       service.Price,
		Discount:    discount,
		Notes:       in.Notes,
	}
	if promo != nil {
		ap.PromotionID = &promo.ID
	}
	if service.DepositRequired {
		ap.DepositAmount = domain.DepositAmount(ap.FinalPrice(), service.DepositPercentage)
	}

	ap.Status = string(domain.InitialStatus(ap.DepositAmount > 0))
	if ap.Status == string(domain.StatusConfirmed) {
		ap.ConfirmedAt = &now
	}

	// --------------------------------------------------
	// 9️⃣ Conflito + gravação (lock + transação)
	// --------------------------------------------------
	err = uc.withBookingLock(ctx, in.SalonID, start, func(tx domain.Repository) error {
		if err := assertFree(ctx, tx, ap); err != nil {
			return err
		}
		if err := assertNotBlocked(ctx, tx, ap, start.Location()); err != nil {
			return err
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		if err := tx.ReserveSlot(ctx, ap); err != nil {
			return err
		}
		if promo != nil {
			return tx.IncrementPromotionUsage(ctx, promo.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ap.Service = *service
	ap.Client = *client
	ap.Employee = emp

	// --------------------------------------------------
	// 🔟 Cache, auditoria e notificação
	// --------------------------------------------------
	uc.afterChange(ctx, shop, ap, domain.EventCreated, in.ActorID, start)

	return ap, nil
}

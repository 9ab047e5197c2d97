package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/metrics"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

// Confirmer moves a pending_deposit appointment to confirmed.
type Confirmer interface {
	ConfirmDeposit(ctx context.Context, salonID, appointmentID uint) error
}

type Service struct {
	repo      domain.Repository
	gateway   domain.Gateway
	confirmer Confirmer
	audit     *audit.Dispatcher
	now       func() time.Time
}

// NewService accepts a nil gateway when online payments are disabled.
func NewService(
	repo domain.Repository,
	gateway domain.Gateway,
	confirmer Confirmer,
	audit *audit.Dispatcher,
) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		confirmer: confirmer,
		audit:     audit,
		now:       time.Now,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ======================================================
// CREATE DEPOSIT
// ======================================================

type CreateDepositInput struct {
	SalonID       uint
	AppointmentID uint
	Method        string
	ActorID       *uint
}

func (s *Service) CreateDeposit(ctx context.Context, in CreateDepositInput) (*models.Payment, error) {

	method := strings.ToLower(strings.TrimSpace(in.Method))
	if !domain.ValidMethod(method) {
		return nil, httperr.ErrBusiness(domain.CodeInvalidMethod)
	}

	ap, err := s.repo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
	if isNotFound(err) {
		return nil, httperr.ErrBusiness(apdomain.CodeAppointmentNotFound)
	}
	if err != nil {
		return nil, err
	}

	if ap.Status != string(apdomain.StatusPendingDeposit) || ap.DepositPaid || ap.DepositAmount <= 0 {
		return nil, httperr.ErrBusiness(domain.CodeNotAwaitingDeposit)
	}

	p := &models.Payment{
		SalonID:       in.SalonID,
		AppointmentID: ap.ID,
		Amount:        ap.DepositAmount,
		Method:        method,
		ExternalRef:   uuid.NewString(),
	}

	// --------------------------------------------------
	// Balcão: registra pago e confirma na hora
	// --------------------------------------------------
	if domain.IsManual(method) {
		// a settled payment whose confirmation failed is reused, not charged twice
		settled, err := s.repo.SettledForAppointment(ctx, ap.ID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}

		if settled != nil {
			p = settled
		} else {
			now := s.now()
			p.Provider = domain.ProviderManual
			p.Status = string(domain.StatusCompleted)
			p.PaidAt = &now

			if err := s.repo.CreatePayment(ctx, p); err != nil {
				return nil, err
			}
			s.dispatch(in.SalonID, in.ActorID, "payment_received", p)
		}

		if err := s.confirmer.ConfirmDeposit(ctx, in.SalonID, ap.ID); err != nil {
			return nil, err
		}
		return p, nil
	}

	// --------------------------------------------------
	// Online: checkout no provedor
	// --------------------------------------------------
	if s.gateway == nil {
		return nil, httperr.ErrBusiness(domain.CodeGatewayDisabled)
	}

	open, err := s.repo.PendingForAppointment(ctx, ap.ID)
	if err == nil && open != nil {
		return open, nil
	}
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	checkout, err := s.gateway.CreateCheckout(ctx, domain.CheckoutRequest{
		ExternalRef: p.ExternalRef,
		Title:       fmt.Sprintf("Sinal - %s", ap.Service.Name),
		Amount:      p.Amount,
	})
	if err != nil {
		return nil, err
	}

	// until the first notification ProviderRef holds the checkout id
	p.Provider = s.gateway.Name()
	p.ProviderRef = checkout.ProviderRef
	p.CheckoutURL = checkout.URL
	p.Status = string(domain.StatusPending)

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	s.dispatch(in.SalonID, in.ActorID, "payment_checkout_created", p)
	return p, nil
}

// ======================================================
// WEBHOOK
// ======================================================

// HandleNotification syncs a provider payment. Replayed notifications leave
// the stored payment untouched but still confirm its appointment.
func (s *Service) HandleNotification(ctx context.Context, providerPaymentID string) (*models.Payment, error) {
	if s.gateway == nil {
		return nil, httperr.ErrBusiness(domain.CodeGatewayDisabled)
	}
	if strings.TrimSpace(providerPaymentID) == "" {
		return nil, httperr.ErrBusiness(domain.CodeInvalidNotification)
	}

	remote, err := s.gateway.GetPayment(ctx, providerPaymentID)
	if err != nil {
		return nil, err
	}
	if remote.ExternalRef == "" {
		return nil, httperr.ErrBusiness(domain.CodeInvalidNotification)
	}

	next := domain.FromProvider(remote.Status)

	var p *models.Payment
	changed := false

	err = s.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		p, err = tx.GetPaymentByExternalRef(ctx, remote.ExternalRef)
		if isNotFound(err) {
			return httperr.ErrBusiness(domain.CodePaymentNotFound)
		}
		if err != nil {
			return err
		}

		if !domain.CanMove(domain.Status(p.Status), next) {
			return nil
		}

		now := s.now()
		p.Status = string(next)
		p.ProviderRef = remote.ID
		switch next {
		case domain.StatusCompleted:
			p.PaidAt = &now
		case domain.StatusRefunded:
			p.RefundedAt = &now
		}
		changed = true

		return tx.UpdatePayment(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.dispatch(p.SalonID, nil, "payment_"+p.Status, p)
	}

	// redeliveries retry a confirmation that failed after the payment committed
	if domain.Status(p.Status) == domain.StatusCompleted {
		err := s.confirmer.ConfirmDeposit(ctx, p.SalonID, p.AppointmentID)
		if httperr.IsBusiness(err, apdomain.CodeInvalidState) {
			if changed {
				// appointment expired or was cancelled meanwhile; refund is manual
				log.Printf("payment %d settled for appointment %d no longer pending", p.ID, p.AppointmentID)
			}
			return p, nil
		}
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// ======================================================
// REFUND
// ======================================================

func (s *Service) Refund(ctx context.Context, salonID, paymentID uint, actorID *uint) (*models.Payment, error) {
	p, err := s.repo.GetPayment(ctx, salonID, paymentID)
	if isNotFound(err) {
		return nil, httperr.ErrBusiness(domain.CodePaymentNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := domain.CanRefund(domain.Status(p.Status)); err != nil {
		return nil, err
	}

	if p.Provider != domain.ProviderManual {
		if s.gateway == nil {
			return nil, httperr.ErrBusiness(domain.CodeGatewayDisabled)
		}
		if err := s.gateway.Refund(ctx, p.ProviderRef); err != nil {
			return nil, err
		}
	}

	now := s.now()
	p.Status = string(domain.StatusRefunded)
	p.RefundedAt = &now

	if err := s.repo.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	s.dispatch(salonID, actorID, "payment_refunded", p)
	return p, nil
}

// ======================================================
// LIST
// ======================================================

func (s *Service) List(ctx context.Context, f domain.ListFilter) ([]models.Payment, error) {
	if f.Status != "" && !domain.Status(f.Status).Valid() {
		return nil, httperr.ErrBusiness(apdomain.CodeInvalidState)
	}
	return s.repo.ListPayments(ctx, f)
}

func (s *Service) dispatch(salonID uint, actorID *uint, action string, p *models.Payment) {
	metrics.PaymentEvents.WithLabelValues(action).Inc()

	s.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   actorID,
		Action:   action,
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]any{
			"appointment_id": p.AppointmentID,
			"amount":         p.Amount,
			"method":         p.Method,
		},
	})
}

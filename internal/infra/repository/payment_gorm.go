package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) GetAppointment(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *PaymentGormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PaymentGormRepository) UpdatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *PaymentGormRepository) GetPayment(
	ctx context.Context,
	salonID uint,
	paymentID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", paymentID, salonID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) GetPaymentByExternalRef(
	ctx context.Context,
	ref string,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("external_ref = ?", ref).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) PendingForAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ? AND method = ? AND status IN ?",
			appointmentID,
			domain.MethodOnline,
			[]string{string(domain.StatusPending), string(domain.StatusProcessing)},
		).
		Order("created_at DESC").
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) SettledForAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ? AND status = ?", appointmentID, string(domain.StatusCompleted)).
		Order("paid_at DESC").
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) ListPayments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Payment, error) {

	q := r.db.WithContext(ctx).Where("salon_id = ?", f.SalonID)

	if f.AppointmentID != 0 {
		q = q.Where("appointment_id = ?", f.AppointmentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	var payments []models.Payment
	if err := q.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentGormRepository{db: tx})
	})
}

var _ domain.Repository = (*PaymentGormRepository)(nil)

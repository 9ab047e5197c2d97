package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

// --------------------------------------------------
// Notifications
// --------------------------------------------------

func (r *NotificationGormRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationGormRepository) UpdateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *NotificationGormRepository) PendingNotifications(
	ctx context.Context,
	maxAttempts int,
	limit int,
) ([]models.Notification, error) {

	var out []models.Notification
	err := r.db.WithContext(ctx).
		Where("status = ? AND attempts < ?", domain.StatusPending, maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *NotificationGormRepository) ListNotifications(
	ctx context.Context,
	salonID uint,
	status string,
	limit int,
) ([]models.Notification, error) {

	q := r.db.WithContext(ctx).Where("salon_id = ?", salonID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var out []models.Notification
	err := q.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *NotificationGormRepository) ReplaceReminders(
	ctx context.Context,
	appointmentID uint,
	reminders []models.Reminder,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cancelReminders(tx, appointmentID); err != nil {
			return err
		}
		if len(reminders) == 0 {
			return nil
		}
		return tx.Create(&reminders).Error
	})
}

func (r *NotificationGormRepository) CancelReminders(ctx context.Context, appointmentID uint) error {
	return cancelReminders(r.db.WithContext(ctx), appointmentID)
}

func cancelReminders(db *gorm.DB, appointmentID uint) error {
	return db.Model(&models.Reminder{}).
		Where("appointment_id = ? AND status = ?", appointmentID, domain.StatusPending).
		Update("status", domain.StatusCancelled).Error
}

func (r *NotificationGormRepository) DueReminders(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Reminder, error) {

	var out []models.Reminder
	err := r.db.WithContext(ctx).
		Where("status = ? AND remind_at <= ?", domain.StatusPending, now).
		Order("remind_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *NotificationGormRepository) MarkReminder(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *NotificationGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Salon").
		Preload("Client").
		Preload("Service").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

var _ domain.Repository = (*NotificationGormRepository)(nil)

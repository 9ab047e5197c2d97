package notification

import (
	"context"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type Repository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	UpdateNotification(ctx context.Context, n *models.Notification) error
	PendingNotifications(ctx context.Context, maxAttempts, limit int) ([]models.Notification, error)
	ListNotifications(ctx context.Context, salonID uint, status string, limit int) ([]models.Notification, error)

	ReplaceReminders(ctx context.Context, appointmentID uint, reminders []models.Reminder) error
	CancelReminders(ctx context.Context, appointmentID uint) error
	DueReminders(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error)
	MarkReminder(ctx context.Context, id uint, status string) error

	// GetAppointment loads salon, client and service, without salon scope.
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
}

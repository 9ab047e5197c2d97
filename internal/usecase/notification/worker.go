package notification

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/nail-scheduler/internal/metrics"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

const batchSize = 100

// Sender delivers one notification through its channel.
type Sender interface {
	Send(ctx context.Context, n *models.Notification) error
}

// LogSender only writes the message to the log. It is the default while no
// WhatsApp or e-mail provider is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, n *models.Notification) error {
	log.Printf("[notification] %s -> %s: %s", n.Channel, n.Recipient, n.Message)
	return nil
}

type Worker struct {
	repo   domain.Repository
	sender Sender
	rules  config.BusinessRules
	Now    func() time.Time
}

func NewWorker(repo domain.Repository, sender Sender, rules config.BusinessRules) *Worker {
	if sender == nil {
		sender = LogSender{}
	}
	return &Worker{repo: repo, sender: sender, rules: rules, Now: time.Now}
}

// ProcessDueReminders turns every due reminder into a pending notification.
// Reminders of appointments that no longer expect the client are cancelled.
func (w *Worker) ProcessDueReminders(ctx context.Context) (int, error) {
	due, err := w.repo.DueReminders(ctx, w.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, r := range due {
		ap, err := w.repo.GetAppointment(ctx, r.AppointmentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.mark(ctx, r.ID, domain.StatusCancelled)
			continue
		}
		if err != nil {
			return queued, err
		}

		if !domain.WantsReminders(ap.Status) {
			w.mark(ctx, r.ID, domain.StatusCancelled)
			continue
		}

		text, _ := domain.Message(domain.KindReminder, ap)
		if err := enqueue(ctx, w.repo, domain.KindReminder, text, ap); err != nil {
			return queued, err
		}

		w.mark(ctx, r.ID, domain.StatusSent)
		queued++
	}

	return queued, nil
}

// DispatchPending sends queued notifications. A failed send stays pending
// until MaxSendAttempts is reached, then it is marked failed.
func (w *Worker) DispatchPending(ctx context.Context) (sent int, err error) {
	pending, err := w.repo.PendingNotifications(ctx, w.rules.MaxSendAttempts, batchSize)
	if err != nil {
		return 0, err
	}

	for i := range pending {
		n := &pending[i]
		n.Attempts++

		if sendErr := w.sender.Send(ctx, n); sendErr != nil {
			metrics.NotificationsSent.WithLabelValues(n.Channel, "error").Inc()
			n.Error = sendErr.Error()
			if n.Attempts >= w.rules.MaxSendAttempts {
				n.Status = domain.StatusFailed
			}
			log.Printf("[notification] send id=%d attempt=%d: %v", n.ID, n.Attempts, sendErr)
		} else {
			metrics.NotificationsSent.WithLabelValues(n.Channel, "ok").Inc()
			now := w.Now()
			n.Status = domain.StatusSent
			n.SentAt = &now
			n.Error = ""
			sent++
		}

		if err := w.repo.UpdateNotification(ctx, n); err != nil {
			return sent, err
		}
	}

	return sent, nil
}

// List returns the salon outbox, newest first.
func (w *Worker) List(ctx context.Context, salonID uint, status string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return w.repo.ListNotifications(ctx, salonID, status, limit)
}

func (w *Worker) mark(ctx context.Context, id uint, status string) {
	if err := w.repo.MarkReminder(ctx, id, status); err != nil {
		log.Printf("[notification] mark reminder=%d %s: %v", id, status, err)
	}
}

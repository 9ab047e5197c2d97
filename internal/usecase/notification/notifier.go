package notification

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	apdomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

// Notifier queues client messages and keeps reminders in sync with the
// appointment lifecycle. Failures are logged, never returned: a booking
// must not fail because a message could not be queued.
type Notifier struct {
	repo  domain.Repository
	rules config.BusinessRules
	Now   func() time.Time
}

func NewNotifier(repo domain.Repository, rules config.BusinessRules) *Notifier {
	return &Notifier{repo: repo, rules: rules, Now: time.Now}
}

func (n *Notifier) AppointmentChanged(ctx context.Context, event string, ap *models.Appointment) {
	if ap == nil {
		return
	}

	n.queueMessage(ctx, event, ap)

	switch event {
	case apdomain.EventCreated, apdomain.EventConfirmed, apdomain.EventRescheduled:
		if domain.WantsReminders(ap.Status) {
			n.scheduleReminders(ctx, ap)
		}
	case apdomain.EventCancelled, apdomain.EventCompleted, apdomain.EventNoShow:
		if err := n.repo.CancelReminders(ctx, ap.ID); err != nil {
			log.Printf("[notification] cancel reminders appointment=%d: %v", ap.ID, err)
		}
	}
}

func (n *Notifier) queueMessage(ctx context.Context, kind string, ap *models.Appointment) {
	text, ok := domain.Message(kind, ap)
	if !ok {
		return
	}
	if err := enqueue(ctx, n.repo, kind, text, ap); err != nil {
		log.Printf("[notification] queue %s appointment=%d: %v", kind, ap.ID, err)
	}
}

func (n *Notifier) scheduleReminders(ctx context.Context, ap *models.Appointment) {
	times := domain.ReminderTimes(ap.ScheduledAt, n.rules.ReminderOffsets, n.Now())

	reminders := make([]models.Reminder, 0, len(times))
	for _, at := range times {
		reminders = append(reminders, models.Reminder{
			SalonID:       ap.SalonID,
			AppointmentID: ap.ID,
			RemindAt:      at,
			Status:        domain.StatusPending,
		})
	}

	// a reschedule replaces whatever was planned for the old time
	if err := n.repo.ReplaceReminders(ctx, ap.ID, reminders); err != nil {
		log.Printf("[notification] schedule reminders appointment=%d: %v", ap.ID, err)
	}
}

// enqueue stores a pending notification on the client's preferred channel.
// Clients without contact data are skipped.
func enqueue(ctx context.Context, repo domain.Repository, kind, text string, ap *models.Appointment) error {
	channel, recipient, ok := domain.PickChannel(&ap.Client)
	if !ok {
		return nil
	}

	appointmentID := ap.ID
	clientID := ap.ClientID

	return repo.CreateNotification(ctx, &models.Notification{
		SalonID:       ap.SalonID,
		ClientID:      &clientID,
		AppointmentID: &appointmentID,
		Channel:       channel,
		Recipient:     recipient,
		Kind:          kind,
		Message:       text,
		Status:        domain.StatusPending,
	})
}

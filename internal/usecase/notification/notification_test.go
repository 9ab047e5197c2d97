package notification

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	apdomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

// --------------------------------------------------
// Fake repository
// --------------------------------------------------

type fakeRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
	reminders     []models.Reminder
	appointments  map[uint]*models.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: map[uint]*models.Appointment{}}
}

func (f *fakeRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uint(len(f.notifications) + 1)
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeRepo) UpdateNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications[n.ID-1] = *n
	return nil
}

func (f *fakeRepo) PendingNotifications(_ context.Context, maxAttempts, limit int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.Status == domain.StatusPending && n.Attempts < maxAttempts {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListNotifications(_ context.Context, salonID uint, status string, _ int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.SalonID == salonID && (status == "" || n.Status == status) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) ReplaceReminders(_ context.Context, appointmentID uint, rs []models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelLocked(appointmentID)
	for _, r := range rs {
		r.ID = uint(len(f.reminders) + 1)
		f.reminders = append(f.reminders, r)
	}
	return nil
}

func (f *fakeRepo) CancelReminders(_ context.Context, appointmentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelLocked(appointmentID)
	return nil
}

func (f *fakeRepo) cancelLocked(appointmentID uint) {
	for i := range f.reminders {
		if f.reminders[i].AppointmentID == appointmentID && f.reminders[i].Status == domain.StatusPending {
			f.reminders[i].Status = domain.StatusCancelled
		}
	}
}

func (f *fakeRepo) DueReminders(_ context.Context, now time.Time, _ int) ([]models.Reminder, error) {
	var out []models.Reminder
	for _, r := range f.reminders {
		if r.Status == domain.StatusPending && !r.RemindAt.After(now) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out, nil
}

func (f *fakeRepo) MarkReminder(_ context.Context, id uint, status string) error {
	f.reminders[id-1].Status = status
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) pendingReminders(appointmentID uint) []models.Reminder {
	var out []models.Reminder
	for _, r := range f.reminders {
		if r.AppointmentID == appointmentID && r.Status == domain.StatusPending {
			out = append(out, r)
		}
	}
	return out
}

type flakySender struct {
	failures int
	sent     []string
}

func (s *flakySender) Send(_ context.Context, n *models.Notification) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("gateway timeout")
	}
	s.sent = append(s.sent, n.Recipient)
	return nil
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

var now = time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC)

func appointmentAt(start time.Time, status apdomain.Status) *models.Appointment {
	return &models.Appointment{
		ID:          10,
		SalonID:     1,
		ClientID:    3,
		ScheduledAt: start,
		EndsAt:      start.Add(time.Hour),
		Status:      string(status),
		Client:      models.Client{ID: 3, Name: "Ana", WhatsApp: "11999990000"},
		Service:     models.Service{Name: "Manicure"},
		Salon:       models.Salon{Timezone: "America/Sao_Paulo"},
	}
}

func newNotifier(repo *fakeRepo) *Notifier {
	n := NewNotifier(repo, config.DefaultBusinessRules())
	n.Now = func() time.Time { return now }
	return n
}

// --------------------------------------------------
// Notifier
// --------------------------------------------------

func TestNotifier_ConfirmedSchedulesReminders(t *testing.T) {
	repo := newFakeRepo()
	ap := appointmentAt(now.Add(48*time.Hour), apdomain.StatusConfirmed)

	newNotifier(repo).AppointmentChanged(context.Background(), apdomain.EventCreated, ap)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, domain.ChannelWhatsApp, repo.notifications[0].Channel)
	assert.Equal(t, apdomain.EventCreated, repo.notifications[0].Kind)

	rs := repo.pendingReminders(ap.ID)
	require.Len(t, rs, 2)
	assert.Equal(t, ap.ScheduledAt.Add(-24*time.Hour), rs[0].RemindAt)
	assert.Equal(t, ap.ScheduledAt.Add(-2*time.Hour), rs[1].RemindAt)
}

func TestNotifier_PendingDepositWaitsForConfirmation(t *testing.T) {
	repo := newFakeRepo()
	ap := appointmentAt(now.Add(48*time.Hour), apdomain.StatusPendingDeposit)

	newNotifier(repo).AppointmentChanged(context.Background(), apdomain.EventCreated, ap)

	assert.Len(t, repo.notifications, 1)
	assert.Empty(t, repo.pendingReminders(ap.ID))
}

func TestNotifier_RescheduleReplacesReminders(t *testing.T) {
	repo := newFakeRepo()
	n := newNotifier(repo)
	ap := appointmentAt(now.Add(48*time.Hour), apdomain.StatusConfirmed)
	n.AppointmentChanged(context.Background(), apdomain.EventConfirmed, ap)

	// moved to 3h from now: only the 2h reminder is still ahead
	ap.ScheduledAt = now.Add(3 * time.Hour)
	ap.Status = string(apdomain.StatusRescheduled)
	n.AppointmentChanged(context.Background(), apdomain.EventRescheduled, ap)

	rs := repo.pendingReminders(ap.ID)
	require.Len(t, rs, 1)
	assert.Equal(t, now.Add(time.Hour), rs[0].RemindAt)
}

func TestNotifier_CancelDropsReminders(t *testing.T) {
	repo := newFakeRepo()
	n := newNotifier(repo)
	ap := appointmentAt(now.Add(48*time.Hour), apdomain.StatusConfirmed)
	n.AppointmentChanged(context.Background(), apdomain.EventConfirmed, ap)

	ap.Status = string(apdomain.StatusCancelled)
	n.AppointmentChanged(context.Background(), apdomain.EventCancelled, ap)

	assert.Empty(t, repo.pendingReminders(ap.ID))
	assert.Len(t, repo.notifications, 2)
}

func TestNotifier_NoContactNoMessage(t *testing.T) {
	repo := newFakeRepo()
	ap := appointmentAt(now.Add(48*time.Hour), apdomain.StatusConfirmed)
	ap.Client = models.Client{Name: "Sem contato"}

	newNotifier(repo).AppointmentChanged(context.Background(), apdomain.EventConfirmed, ap)

	assert.Empty(t, repo.notifications)
	assert.Len(t, repo.pendingReminders(ap.ID), 2)
}

// --------------------------------------------------
// Worker
// --------------------------------------------------

func TestWorker_ProcessDueReminders(t *testing.T) {
	repo := newFakeRepo()
	ap := appointmentAt(now.Add(3*time.Hour), apdomain.StatusConfirmed)
	repo.appointments[ap.ID] = ap

	cancelled := appointmentAt(now.Add(3*time.Hour), apdomain.StatusCancelled)
	cancelled.ID = 11
	repo.appointments[cancelled.ID] = cancelled

	require.NoError(t, repo.ReplaceReminders(context.Background(), ap.ID, []models.Reminder{
		{AppointmentID: ap.ID, RemindAt: now.Add(-time.Minute), Status: domain.StatusPending},
		{AppointmentID: ap.ID, RemindAt: now.Add(time.Hour), Status: domain.StatusPending},
	}))
	require.NoError(t, repo.ReplaceReminders(context.Background(), cancelled.ID, []models.Reminder{
		{AppointmentID: cancelled.ID, RemindAt: now.Add(-time.Minute), Status: domain.StatusPending},
	}))

	w := NewWorker(repo, nil, config.DefaultBusinessRules())
	w.Now = func() time.Time { return now }

	queued, err := w.ProcessDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, queued)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, domain.KindReminder, repo.notifications[0].Kind)
	assert.Contains(t, repo.notifications[0].Message, "Lembrete")

	assert.Equal(t, domain.StatusSent, repo.reminders[0].Status)
	assert.Equal(t, domain.StatusPending, repo.reminders[1].Status)
	assert.Equal(t, domain.StatusCancelled, repo.reminders[2].Status)
}

func TestWorker_DispatchRetriesThenFails(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.CreateNotification(context.Background(), &models.Notification{
		SalonID: 1, Channel: domain.ChannelWhatsApp, Recipient: "11999990000", Status: domain.StatusPending,
	}))

	sender := &flakySender{failures: 5}
	w := NewWorker(repo, sender, config.DefaultBusinessRules())
	w.Now = func() time.Time { return now }

	for i := 0; i < 4; i++ {
		_, err := w.DispatchPending(context.Background())
		require.NoError(t, err)
	}

	n := repo.notifications[0]
	assert.Equal(t, domain.StatusFailed, n.Status)
	assert.Equal(t, 3, n.Attempts)
	assert.Equal(t, "gateway timeout", n.Error)
	assert.Empty(t, sender.sent)
}

func TestWorker_DispatchRecovers(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.CreateNotification(context.Background(), &models.Notification{
		SalonID: 1, Channel: domain.ChannelEmail, Recipient: "ana@example.com", Status: domain.StatusPending,
	}))

	sender := &flakySender{failures: 1}
	w := NewWorker(repo, sender, config.DefaultBusinessRules())
	w.Now = func() time.Time { return now }

	sent, err := w.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	sent, err = w.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	n := repo.notifications[0]
	assert.Equal(t, domain.StatusSent, n.Status)
	assert.Equal(t, 2, n.Attempts)
	require.NotNil(t, n.SentAt)
	assert.Empty(t, n.Error)
}

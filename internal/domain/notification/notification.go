package notification

import (
	"fmt"
	"sort"
	"time"

	apdomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

const KindReminder = "appointment_reminder"

// PickChannel prefers whatsapp and falls back to email.
func PickChannel(c *models.Client) (channel, recipient string, ok bool) {
	switch {
	case c.WhatsApp != "":
		return ChannelWhatsApp, c.WhatsApp, true
	case c.Email != "":
		return ChannelEmail, c.Email, true
	}
	return "", "", false
}

// ReminderTimes returns start minus each offset (minutes), dropping the ones
// not after now, earliest first.
func ReminderTimes(start time.Time, offsetsMin []int, now time.Time) []time.Time {
	var out []time.Time
	for _, off := range offsetsMin {
		if off <= 0 {
			continue
		}
		at := start.Add(-time.Duration(off) * time.Minute)
		if at.After(now) {
			out = append(out, at)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// WantsReminders reports statuses that still expect the client to show up.
func WantsReminders(status string) bool {
	switch apdomain.Status(status) {
	case apdomain.StatusConfirmed, apdomain.StatusRescheduled:
		return true
	}
	return false
}

// Message renders the text sent for an appointment event.
func Message(kind string, ap *models.Appointment) (string, bool) {
	loc := timezone.Location(ap.Salon.Timezone)
	when := ap.ScheduledAt.In(loc).Format("02/01 às 15:04")
	service := ap.Service.Name
	name := ap.Client.Name

	switch kind {
	case apdomain.EventCreated:
		if ap.Status == string(apdomain.StatusPendingDeposit) {
			return fmt.Sprintf(
				"Olá %s! Recebemos seu pedido de %s para %s. Pague o sinal de R$ %.2f para confirmar.",
				name, service, when, ap.DepositAmount,
			), true
		}
		return fmt.Sprintf("Olá %s! Seu horário de %s está marcado para %s.", name, service, when), true
	case apdomain.EventConfirmed:
		return fmt.Sprintf("Olá %s! Seu horário de %s em %s está confirmado.", name, service, when), true
	case apdomain.EventRescheduled:
		return fmt.Sprintf("Olá %s! Seu horário de %s foi remarcado para %s.", name, service, when), true
	case apdomain.EventCancelled:
		if ap.CancelReason == apdomain.ReasonDepositExpired {
			return fmt.Sprintf("Olá %s! Seu pedido de %s para %s foi cancelado por falta do sinal.", name, service, when), true
		}
		return fmt.Sprintf("Olá %s! Seu horário de %s em %s foi cancelado.", name, service, when), true
	case KindReminder:
		return fmt.Sprintf("Lembrete: %s, seu horário de %s é em %s. Até lá!", name, service, when), true
	}
	return "", false
}

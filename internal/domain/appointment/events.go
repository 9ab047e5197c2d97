package appointment

// Events emitted to the audit log and the notifier.
const (
	EventCreated     = "appointment_created"
	EventConfirmed   = "appointment_confirmed"
	EventRescheduled = "appointment_rescheduled"
	EventCancelled   = "appointment_cancelled"
	EventCompleted   = "appointment_completed"
	EventNoShow      = "appointment_no_show"
)

// ReasonDepositExpired marks appointments cancelled by the expiry job.
const ReasonDepositExpired = "deposit_expired"

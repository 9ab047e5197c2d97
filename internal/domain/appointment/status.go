package appointment

import "github.com/BruksfildServices01/nail-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingDeposit Status = "pending_deposit"
	StatusConfirmed      Status = "confirmed"
	StatusRescheduled    Status = "rescheduled"
	StatusCancelled      Status = "cancelled"
	StatusNoShow         Status = "no_show"
	StatusCompleted      Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPendingDeposit: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow},
	StatusRescheduled:    {StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingDeposit, StatusConfirmed, StatusRescheduled,
		StatusCancelled, StatusNoShow, StatusCompleted:
		return true
	}
	return false
}

// BlocksTime reports whether an appointment in this status occupies its
// time range for overlap checks.
func (s Status) BlocksTime() bool {
	return s != StatusCancelled
}

func (s Status) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness(CodeInvalidState)
}

// InitialStatus define o status de um agendamento recém-criado
func InitialStatus(depositRequired bool) Status {
	if depositRequired {
		return StatusPendingDeposit
	}
	return StatusConfirmed
}

package appointment

import (
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelReason = reason
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// MarkNoShow only applies once the appointment start has passed.
func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusNoShow); err != nil {
		return err
	}
	if now.Before(ap.ScheduledAt) {
		return httperr.ErrBusiness(CodeTooEarly)
	}

	ap.Status = string(StatusNoShow)
	return nil
}

// Reschedule moves the appointment and counts the move against maxReschedules.
func Reschedule(
	ap *models.Appointment,
	start time.Time,
	end time.Time,
	employeeID *uint,
	maxReschedules int,
) error {
	if err := CanTransition(Status(ap.Status), StatusRescheduled); err != nil {
		return err
	}
	if err := CanReschedule(ap.RescheduleCount, maxReschedules); err != nil {
		return err
	}
	if start.Equal(ap.ScheduledAt) && sameEmployee(ap.EmployeeID, employeeID) {
		return httperr.ErrBusiness(CodeSameSchedule)
	}

	ap.ScheduledAt = start
	ap.EndsAt = end
	ap.EmployeeID = employeeID
	ap.Employee = nil
	ap.Status = string(StatusRescheduled)
	ap.RescheduleCount++
	return nil
}

func CanReschedule(count, max int) error {
	if count >= max {
		return httperr.ErrBusiness(CodeRescheduleLimit)
	}
	return nil
}

func sameEmployee(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

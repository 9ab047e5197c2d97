package timeslot

import (
	"time"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusCancelled Status = "cancelled"
	StatusBlocked   Status = "blocked"
)

const (
	CodeSlotNotFound = "slot_not_found"
	CodeSlotReserved = "slot_reserved"
	CodeInvalidState = "invalid_state"
	CodeInvalidRange = "invalid_range"
)

// MaxRangeDays caps a single generation request.
const MaxRangeDays = 62

// Generate materializes fixed-step slots of duration inside the windows.
func Generate(
	salonID uint,
	serviceID uint,
	employeeID *uint,
	windows []domain.Window,
	duration time.Duration,
) []models.TimeSlot {
	var out []models.TimeSlot
	if duration <= 0 {
		return out
	}

	for _, w := range windows {
		for cur := w.Start; !cur.Add(duration).After(w.End); cur = cur.Add(duration) {
			out = append(out, models.TimeSlot{
				SalonID:    salonID,
				ServiceID:  serviceID,
				EmployeeID: employeeID,
				Date:       cur.Format(timezone.DateLayout),
				StartTime:  cur.Format(timezone.ClockLayout),
				EndTime:    cur.Add(duration).Format(timezone.ClockLayout),
				Status:     string(StatusAvailable),
			})
		}
	}

	return out
}

// Bounds resolves the slot's date/clock strings in loc.
func Bounds(slot *models.TimeSlot, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(timezone.DateLayout, slot.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := timezone.At(day, slot.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := timezone.At(day, slot.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Reconcile derives the status a slot should have given the appointments of
// its day. Blocked and cancelled slots are left alone. It reports whether the
// slot changed.
func Reconcile(slot *models.TimeSlot, loc *time.Location, appointments []models.Appointment) bool {
	switch Status(slot.Status) {
	case StatusBlocked, StatusCancelled:
		return false
	}

	start, end, err := Bounds(slot, loc)
	if err != nil {
		return false
	}

	var holder *models.Appointment
	for i := range appointments {
		ap := &appointments[i]
		if !domain.Status(ap.Status).BlocksTime() {
			continue
		}
		if !competes(slot.EmployeeID, ap.EmployeeID) {
			continue
		}
		if domain.Overlaps(start, end, ap.ScheduledAt, ap.EndsAt) {
			holder = ap
			if slot.AppointmentID != nil && *slot.AppointmentID == ap.ID {
				break
			}
		}
	}

	if holder == nil {
		if Status(slot.Status) == StatusAvailable && slot.AppointmentID == nil {
			return false
		}
		slot.Status = string(StatusAvailable)
		slot.AppointmentID = nil
		return true
	}

	if Status(slot.Status) == StatusReserved && slot.AppointmentID != nil && *slot.AppointmentID == holder.ID {
		return false
	}
	id := holder.ID
	slot.Status = string(StatusReserved)
	slot.AppointmentID = &id
	return true
}

// competes mirrors the appointment overlap scope.
func competes(slotEmployee, apEmployee *uint) bool {
	if slotEmployee == nil || apEmployee == nil {
		return true
	}
	return *slotEmployee == *apEmployee
}

// ===============================
// Manual transitions
// ===============================

func Block(slot *models.TimeSlot) error {
	switch Status(slot.Status) {
	case StatusAvailable:
		slot.Status = string(StatusBlocked)
		return nil
	case StatusReserved:
		return httperr.ErrBusiness(CodeSlotReserved)
	}
	return httperr.ErrBusiness(CodeInvalidState)
}

func Unblock(slot *models.TimeSlot) error {
	if Status(slot.Status) != StatusBlocked {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	slot.Status = string(StatusAvailable)
	return nil
}

func Cancel(slot *models.TimeSlot) error {
	switch Status(slot.Status) {
	case StatusReserved:
		return httperr.ErrBusiness(CodeSlotReserved)
	case StatusCancelled:
		return httperr.ErrBusiness(CodeInvalidState)
	}
	slot.Status = string(StatusCancelled)
	return nil
}

package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

var loc = time.FixedZone("BRT", -3*60*60)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 9, hour, min, 0, 0, loc)
}

func uintPtr(v uint) *uint { return &v }

func TestGenerate(t *testing.T) {
	windows := []domain.Window{
		{Start: at(9, 0), End: at(11, 0)},
		{Start: at(13, 0), End: at(14, 30)},
	}

	slots := Generate(1, 2, uintPtr(5), windows, 45*time.Minute)

	require.Len(t, slots, 4)
	assert.Equal(t, "2026-03-09", slots[0].Date)
	assert.Equal(t, []string{"09:00", "09:45", "13:00", "13:45"}, []string{
		slots[0].StartTime, slots[1].StartTime, slots[2].StartTime, slots[3].StartTime,
	})
	assert.Equal(t, "14:30", slots[3].EndTime)
	assert.Equal(t, string(StatusAvailable), slots[0].Status)
	assert.Equal(t, uint(5), *slots[0].EmployeeID)

	assert.Empty(t, Generate(1, 2, nil, windows, 0))
}

func TestReconcile(t *testing.T) {
	slot := models.TimeSlot{Date: "2026-03-09", StartTime: "10:00", EndTime: "11:00", Status: "available"}

	aps := []models.Appointment{
		{ID: 1, Status: "cancelled", ScheduledAt: at(10, 0), EndsAt: at(11, 0)},
		{ID: 2, Status: "confirmed", ScheduledAt: at(10, 30), EndsAt: at(11, 30)},
	}

	assert.True(t, Reconcile(&slot, loc, aps))
	assert.Equal(t, string(StatusReserved), slot.Status)
	assert.Equal(t, uint(2), *slot.AppointmentID)

	assert.False(t, Reconcile(&slot, loc, aps), "already in sync")

	aps[1].Status = "cancelled"
	assert.True(t, Reconcile(&slot, loc, aps))
	assert.Equal(t, string(StatusAvailable), slot.Status)
	assert.Nil(t, slot.AppointmentID)
}

func TestReconcile_EmployeeScope(t *testing.T) {
	slot := models.TimeSlot{
		Date: "2026-03-09", StartTime: "10:00", EndTime: "11:00",
		Status: "available", EmployeeID: uintPtr(1),
	}

	other := []models.Appointment{
		{ID: 3, Status: "confirmed", EmployeeID: uintPtr(2), ScheduledAt: at(10, 0), EndsAt: at(11, 0)},
	}
	assert.False(t, Reconcile(&slot, loc, other))

	unassigned := []models.Appointment{
		{ID: 4, Status: "pending_deposit", ScheduledAt: at(10, 0), EndsAt: at(11, 0)},
	}
	assert.True(t, Reconcile(&slot, loc, unassigned))
	assert.Equal(t, string(StatusReserved), slot.Status)
}

func TestReconcile_BlockedUntouched(t *testing.T) {
	slot := models.TimeSlot{Date: "2026-03-09", StartTime: "10:00", EndTime: "11:00", Status: "blocked"}
	aps := []models.Appointment{{ID: 1, Status: "confirmed", ScheduledAt: at(10, 0), EndsAt: at(11, 0)}}

	assert.False(t, Reconcile(&slot, loc, aps))
	assert.Equal(t, string(StatusBlocked), slot.Status)
}

func TestManualTransitions(t *testing.T) {
	slot := &models.TimeSlot{Status: "available"}

	require.NoError(t, Block(slot))
	assert.Equal(t, "blocked", slot.Status)
	assert.True(t, httperr.IsBusiness(Block(slot), CodeInvalidState))

	require.NoError(t, Unblock(slot))
	assert.Equal(t, "available", slot.Status)
	assert.True(t, httperr.IsBusiness(Unblock(slot), CodeInvalidState))

	reserved := &models.TimeSlot{Status: "reserved"}
	assert.True(t, httperr.IsBusiness(Block(reserved), CodeSlotReserved))
	assert.True(t, httperr.IsBusiness(Cancel(reserved), CodeSlotReserved))

	require.NoError(t, Cancel(slot))
	assert.True(t, httperr.IsBusiness(Cancel(slot), CodeInvalidState))
}

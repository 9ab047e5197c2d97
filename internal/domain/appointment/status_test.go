package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPendingDeposit: {StatusConfirmed, StatusCancelled},
		StatusConfirmed:      {StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow},
		StatusRescheduled:    {StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow},
	}
	all := []Status{
		StatusPendingDeposit, StatusConfirmed, StatusRescheduled,
		StatusCancelled, StatusNoShow, StatusCompleted,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}

			err := CanTransition(from, to)
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, httperr.IsBusiness(err, CodeInvalidState), "%s -> %s", from, to)
			}
		}
	}
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusConfirmed.BlocksTime())
	assert.True(t, StatusNoShow.BlocksTime())
	assert.False(t, StatusCancelled.BlocksTime())

	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusPendingDeposit.Terminal())

	assert.False(t, Status("booked").Valid())
	assert.Equal(t, StatusPendingDeposit, InitialStatus(true))
	assert.Equal(t, StatusConfirmed, InitialStatus(false))
}

func TestReschedule(t *testing.T) {
	emp := uint(3)
	ap := &models.Appointment{
		Status:      string(StatusConfirmed),
		ScheduledAt: at(10, 10, 0),
		EndsAt:      at(10, 11, 0),
		EmployeeID:  &emp,
	}

	require.NoError(t, Reschedule(ap, at(11, 10, 0), at(11, 11, 0), &emp, 2))
	assert.Equal(t, string(StatusRescheduled), ap.Status)
	assert.Equal(t, 1, ap.RescheduleCount)

	require.NoError(t, Reschedule(ap, at(12, 10, 0), at(12, 11, 0), &emp, 2))
	assert.Equal(t, 2, ap.RescheduleCount)

	err := Reschedule(ap, at(13, 10, 0), at(13, 11, 0), &emp, 2)
	assert.True(t, httperr.IsBusiness(err, CodeRescheduleLimit))
	assert.Equal(t, at(12, 10, 0), ap.ScheduledAt, "rejected move leaves the appointment untouched")
}

func TestReschedule_SameSchedule(t *testing.T) {
	ap := &models.Appointment{
		Status:      string(StatusConfirmed),
		ScheduledAt: at(10, 10, 0),
		EndsAt:      at(10, 11, 0),
	}

	err := Reschedule(ap, at(10, 10, 0), at(10, 11, 0), nil, 2)
	assert.True(t, httperr.IsBusiness(err, CodeSameSchedule))

	other := uint(9)
	assert.NoError(t, Reschedule(ap, at(10, 10, 0), at(10, 11, 0), &other, 2), "changing employee only is a move")
}

func TestReschedule_PendingDepositRejected(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPendingDeposit), ScheduledAt: at(10, 10, 0)}

	err := Reschedule(ap, at(11, 10, 0), at(11, 11, 0), nil, 2)
	assert.True(t, httperr.IsBusiness(err, CodeInvalidState))
}

func TestMarkNoShow(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed), ScheduledAt: at(10, 10, 0)}

	err := MarkNoShow(ap, at(10, 9, 0))
	assert.True(t, httperr.IsBusiness(err, CodeTooEarly))

	require.NoError(t, MarkNoShow(ap, at(10, 10, 30)))
	assert.Equal(t, string(StatusNoShow), ap.Status)
}

func TestCancelAndComplete(t *testing.T) {
	now := at(9, 12, 0)

	ap := &models.Appointment{Status: string(StatusPendingDeposit)}
	require.NoError(t, Cancel(ap, now, "deposit_expired"))
	assert.Equal(t, "deposit_expired", ap.CancelReason)
	require.NotNil(t, ap.CancelledAt)

	assert.True(t, httperr.IsBusiness(Cancel(ap, now, ""), CodeInvalidState))

	done := &models.Appointment{Status: string(StatusRescheduled)}
	require.NoError(t, Complete(done, now))
	assert.Equal(t, string(StatusCompleted), done.Status)
	assert.True(t, httperr.IsBusiness(Confirm(done, now), CodeInvalidState))
}

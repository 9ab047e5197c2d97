package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

var testLoc = time.FixedZone("BRT", -3*60*60)

// 2026-03-09 is a Monday.
func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, testLoc)
}

func defaultHours() BusinessHours {
	r := config.DefaultBusinessRules()
	return BusinessHours{Open: r.OpenTime, Close: r.CloseTime, Weekdays: r.Weekdays}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"inside", at(9, 10, 0), at(9, 11, 0), at(9, 10, 15), at(9, 10, 45), true},
		{"partial", at(9, 10, 0), at(9, 11, 0), at(9, 10, 30), at(9, 11, 30), true},
		{"touching end", at(9, 10, 0), at(9, 11, 0), at(9, 11, 0), at(9, 12, 0), false},
		{"touching start", at(9, 10, 0), at(9, 11, 0), at(9, 9, 0), at(9, 10, 0), false},
		{"disjoint", at(9, 10, 0), at(9, 11, 0), at(9, 14, 0), at(9, 15, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestCheckLeadTime(t *testing.T) {
	now := at(9, 10, 0)

	err := CheckLeadTime(at(9, 9, 0), now, 24*time.Hour)
	assert.True(t, httperr.IsBusiness(err, CodeInThePast))

	err = CheckLeadTime(at(10, 9, 59), now, 24*time.Hour)
	assert.True(t, httperr.IsBusiness(err, CodeTooSoon))

	assert.NoError(t, CheckLeadTime(at(10, 10, 0), now, 24*time.Hour))
}

func TestCheckBusinessHours(t *testing.T) {
	h := defaultHours()

	assert.NoError(t, CheckBusinessHours(at(9, 9, 0), at(9, 10, 0), h))
	assert.NoError(t, CheckBusinessHours(at(9, 17, 0), at(9, 18, 0), h), "may end exactly at closing")

	for name, r := range map[string][2]time.Time{
		"before open":  {at(9, 8, 30), at(9, 9, 30)},
		"past closing": {at(9, 17, 30), at(9, 18, 30)},
		"sunday":       {at(8, 10, 0), at(8, 11, 0)},
	} {
		err := CheckBusinessHours(r[0], r[1], h)
		assert.True(t, httperr.IsBusiness(err, CodeOutsideBusinessHours), name)
	}

	assert.NoError(t, CheckBusinessHours(at(14, 10, 0), at(14, 11, 0), h), "saturday is open")
}

func TestCheckEmployeeSchedule(t *testing.T) {
	schedules := []models.EmployeeSchedule{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "13:00", EndTime: "17:00"},
	}

	assert.NoError(t, CheckEmployeeSchedule(at(9, 9, 0), at(9, 10, 0), schedules))
	assert.NoError(t, CheckEmployeeSchedule(at(9, 16, 0), at(9, 17, 0), schedules))

	err := CheckEmployeeSchedule(at(9, 11, 30), at(9, 12, 30), schedules)
	assert.True(t, httperr.IsBusiness(err, CodeEmployeeUnavailable), "spans the break")

	err = CheckEmployeeSchedule(at(10, 9, 0), at(10, 10, 0), schedules)
	assert.True(t, httperr.IsBusiness(err, CodeEmployeeUnavailable), "no entry on tuesday")
}

func TestDayWindows(t *testing.T) {
	h := defaultHours()
	schedules := []models.EmployeeSchedule{
		{Weekday: 1, StartTime: "08:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "13:00", EndTime: "19:00"},
		{Weekday: 2, StartTime: "10:00", EndTime: "11:00"},
	}

	withoutEmployee := DayWindows(at(9, 0, 0), h, nil, false)
	require.Len(t, withoutEmployee, 1)
	assert.Equal(t, at(9, 9, 0), withoutEmployee[0].Start)
	assert.Equal(t, at(9, 18, 0), withoutEmployee[0].End)

	windows := DayWindows(at(9, 0, 0), h, schedules, true)
	require.Len(t, windows, 2)
	assert.Equal(t, Window{Start: at(9, 9, 0), End: at(9, 12, 0)}, windows[0])
	assert.Equal(t, Window{Start: at(9, 13, 0), End: at(9, 18, 0)}, windows[1])

	assert.Empty(t, DayWindows(at(8, 0, 0), h, schedules, true), "salon closed on sunday")
	assert.Empty(t, DayWindows(at(11, 0, 0), h, schedules, true), "no schedule on wednesday")
}

func TestFreeSlots(t *testing.T) {
	windows := []Window{{Start: at(9, 9, 0), End: at(9, 12, 0)}}
	busy := []Window{{Start: at(9, 10, 0), End: at(9, 10, 45)}}

	slots := FreeSlots(windows, time.Hour, busy, at(9, 0, 0))

	assert.Equal(t, []TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "11:00", End: "12:00"},
	}, slots)
}

func TestFreeSlots_NotBeforeAndPartialTail(t *testing.T) {
	windows := []Window{{Start: at(9, 9, 0), End: at(9, 11, 30)}}

	slots := FreeSlots(windows, 45*time.Minute, nil, at(9, 9, 30))

	assert.Equal(t, []TimeSlot{
		{Start: "09:45", End: "10:30"},
		{Start: "10:30", End: "11:15"},
	}, slots)
}

func TestFreeSlots_ZeroDuration(t *testing.T) {
	windows := []Window{{Start: at(9, 9, 0), End: at(9, 12, 0)}}
	assert.Empty(t, FreeSlots(windows, 0, nil, at(9, 0, 0)))
}

func TestPolicyFor(t *testing.T) {
	rules := config.DefaultBusinessRules()

	p := PolicyFor(&models.Salon{}, rules)
	assert.Equal(t, 24*time.Hour, p.MinAdvance)
	assert.Equal(t, 2, p.MaxReschedules)
	assert.Equal(t, "09:00", p.Hours.Open)

	p = PolicyFor(&models.Salon{
		OpenTime:          "10:00",
		CloseTime:         "19:00",
		MinAdvanceMinutes: intPtr(120),
		MaxReschedules:    intPtr(1),
		Weekdays:          models.WeekdaySet{2, 3, 4},
	}, rules)
	assert.Equal(t, 2*time.Hour, p.MinAdvance)
	assert.Equal(t, 1, p.MaxReschedules)
	assert.Equal(t, "10:00", p.Hours.Open)
	assert.Equal(t, "19:00", p.Hours.Close)
	assert.Equal(t, []int{2, 3, 4}, p.Hours.Weekdays)
	assert.False(t, p.Hours.OpenOn(time.Monday))
	assert.True(t, p.Hours.OpenOn(time.Tuesday))
}

func intPtr(v int) *int { return &v }

func TestPolicyFor_ZeroOverridesAreKept(t *testing.T) {
	p := PolicyFor(&models.Salon{
		MinAdvanceMinutes: intPtr(0),
		MaxReschedules:    intPtr(0),
	}, config.DefaultBusinessRules())

	assert.Zero(t, p.MinAdvance)
	assert.Zero(t, p.MaxReschedules)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, p.Hours.Weekdays)

	assert.NoError(t, CheckLeadTime(at(9, 10, 5), at(9, 10, 0), p.MinAdvance))
	assert.Error(t, CanReschedule(0, p.MaxReschedules))
}

package appointment

import (
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Overlaps uses strict inequalities: ranges that only touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type BusinessHours struct {
	Open     string
	Close    string
	Weekdays []int
}

func (h BusinessHours) OpenOn(day time.Weekday) bool {
	for _, wd := range h.Weekdays {
		if wd == int(day) {
			return true
		}
	}
	return false
}

// Window returns the opening hours on the calendar day of day.
func (h BusinessHours) Window(day time.Time) (Window, bool) {
	if !h.OpenOn(day.Weekday()) {
		return Window{}, false
	}

	open, err := timezone.At(day, h.Open)
	if err != nil {
		return Window{}, false
	}
	closeAt, err := timezone.At(day, h.Close)
	if err != nil || !open.Before(closeAt) {
		return Window{}, false
	}

	return Window{Start: open, End: closeAt}, true
}

// Policy holds the effective scheduling rules of one salon.
type Policy struct {
	Hours          BusinessHours
	MinAdvance     time.Duration
	MaxReschedules int
}

func PolicyFor(shop *models.Salon, rules config.BusinessRules) Policy {
	p := Policy{
		Hours: BusinessHours{
			Open:     rules.OpenTime,
			Close:    rules.CloseTime,
			Weekdays: rules.Weekdays,
		},
		MinAdvance:     time.Duration(rules.MinAdvanceMinutes) * time.Minute,
		MaxReschedules: rules.MaxReschedules,
	}

	if shop == nil {
		return p
	}
	if shop.OpenTime != "" && shop.CloseTime != "" {
		p.Hours.Open = shop.OpenTime
		p.Hours.Close = shop.CloseTime
	}
	if len(shop.Weekdays) > 0 {
		p.Hours.Weekdays = shop.Weekdays
	}
	if shop.MinAdvanceMinutes != nil {
		p.MinAdvance = time.Duration(*shop.MinAdvanceMinutes) * time.Minute
	}
	if shop.MaxReschedules != nil {
		p.MaxReschedules = *shop.MaxReschedules
	}

	return p
}

// ===============================
// Checks
// ===============================

func CheckLeadTime(start, now time.Time, minAdvance time.Duration) error {
	if !start.After(now) {
		return httperr.ErrBusiness(CodeInThePast)
	}
	if start.Before(now.Add(minAdvance)) {
		return httperr.ErrBusiness(CodeTooSoon)
	}
	return nil
}

func CheckBusinessHours(start, end time.Time, hours BusinessHours) error {
	w, ok := hours.Window(start)
	if !ok || !w.Contains(start, end) {
		return httperr.ErrBusiness(CodeOutsideBusinessHours)
	}
	return nil
}

// CheckEmployeeSchedule requires one schedule entry of the weekday to cover
// the whole range.
func CheckEmployeeSchedule(start, end time.Time, schedules []models.EmployeeSchedule) error {
	for _, w := range ScheduleWindows(start, schedules) {
		if w.Contains(start, end) {
			return nil
		}
	}
	return httperr.ErrBusiness(CodeEmployeeUnavailable)
}

// ScheduleWindows converts the schedule entries of day's weekday into windows.
func ScheduleWindows(day time.Time, schedules []models.EmployeeSchedule) []Window {
	var out []Window
	for _, s := range schedules {
		if s.Weekday != int(day.Weekday()) {
			continue
		}
		start, err := timezone.At(day, s.StartTime)
		if err != nil {
			continue
		}
		end, err := timezone.At(day, s.EndTime)
		if err != nil || !start.Before(end) {
			continue
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out
}

// DayWindows returns the bookable windows of a day: business hours, narrowed
// to the employee schedule when an employee is involved.
func DayWindows(day time.Time, hours BusinessHours, schedules []models.EmployeeSchedule, withEmployee bool) []Window {
	business, ok := hours.Window(day)
	if !ok {
		return nil
	}
	if !withEmployee {
		return []Window{business}
	}

	var out []Window
	for _, w := range ScheduleWindows(day, schedules) {
		if w.Start.Before(business.Start) {
			w.Start = business.Start
		}
		if w.End.After(business.End) {
			w.End = business.End
		}
		if w.Start.Before(w.End) {
			out = append(out, w)
		}
	}
	return out
}

// ===============================
// Availability
// ===============================

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots walks each window in steps of duration and keeps the ranges that
// start at or after notBefore and do not overlap any busy range.
func FreeSlots(windows []Window, duration time.Duration, busy []Window, notBefore time.Time) []TimeSlot {
	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}

	for _, w := range windows {
		for cur := w.Start; !cur.Add(duration).After(w.End); cur = cur.Add(duration) {
			end := cur.Add(duration)

			if cur.Before(notBefore) {
				continue
			}

			conflict := false
			for _, b := range busy {
				if Overlaps(cur, end, b.Start, b.End) {
					conflict = true
					break
				}
			}

			if !conflict {
				slots = append(slots, TimeSlot{
					Start: cur.Format(timezone.ClockLayout),
					End:   end.Format(timezone.ClockLayout),
				})
			}
		}
	}

	return slots
}

package timeslot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	apdomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

var brt = time.FixedZone("BRT", -3*60*60)

type fakeRepo struct {
	salon     models.Salon
	service   models.Service
	employees map[uint]*models.Employee
	slots     map[string]*models.TimeSlot
	apps      []models.Appointment
	nextID    uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		salon:   models.Salon{ID: 1, Timezone: "America/Sao_Paulo"},
		service: models.Service{ID: 1, SalonID: 1, DurationMin: 60, Active: true},
		employees: map[uint]*models.Employee{
			7: {
				ID: 7, SalonID: 1, Active: true,
				Services:  []models.Service{{ID: 1}},
				Schedules: []models.EmployeeSchedule{{Weekday: 2, StartTime: "09:00", EndTime: "12:00"}},
			},
		},
		slots: map[string]*models.TimeSlot{},
	}
}

func slotKey(s *models.TimeSlot) string {
	emp := "any"
	if s.EmployeeID != nil {
		emp = fmt.Sprint(*s.EmployeeID)
	}
	return fmt.Sprintf("%d|%s|%s|%s", s.ServiceID, emp, s.Date, s.StartTime)
}

func (r *fakeRepo) GetSalonByID(context.Context, uint) (*models.Salon, error) {
	s := r.salon
	return &s, nil
}

func (r *fakeRepo) GetService(_ context.Context, _, id uint) (*models.Service, error) {
	if id != r.service.ID {
		return nil, gorm.ErrRecordNotFound
	}
	s := r.service
	return &s, nil
}

func (r *fakeRepo) GetEmployee(_ context.Context, _, id uint) (*models.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeRepo) InsertSlots(_ context.Context, slots []models.TimeSlot) (int64, error) {
	var n int64
	for i := range slots {
		k := slotKey(&slots[i])
		if _, ok := r.slots[k]; ok {
			continue
		}
		r.nextID++
		s := slots[i]
		s.ID = r.nextID
		r.slots[k] = &s
		n++
	}
	return n, nil
}

func (r *fakeRepo) ListSlots(_ context.Context, f domain.ListFilter) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range r.slots {
		if f.Date != "" && s.Date != f.Date {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeRepo) GetSlot(_ context.Context, _, id uint) (*models.TimeSlot, error) {
	for _, s := range r.slots {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) UpdateSlot(_ context.Context, slot *models.TimeSlot) error {
	cp := *slot
	r.slots[slotKey(slot)] = &cp
	return nil
}

func (r *fakeRepo) ListDayAppointments(_ context.Context, _ uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.ScheduledAt.Before(end) && ap.EndsAt.After(start) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) find(date, clock string) *models.TimeSlot {
	for _, s := range r.slots {
		if s.Date == date && s.StartTime == clock {
			return s
		}
	}
	return nil
}

type recordingCache struct{ dates []string }

func (c *recordingCache) Invalidate(_ context.Context, _ uint, dates ...string) error {
	c.dates = append(c.dates, dates...)
	return nil
}

func uintPtr(v uint) *uint { return &v }

func code(t *testing.T, err error) string {
	t.Helper()
	c, ok := httperr.BusinessCode(err)
	require.True(t, ok, "expected business error, got %v", err)
	return c
}

func TestGenerateRange(t *testing.T) {
	repo := newFakeRepo()
	repo.apps = []models.Appointment{{
		ID: 40, EmployeeID: uintPtr(7), Status: string(apdomain.StatusConfirmed),
		ScheduledAt: time.Date(2026, 3, 10, 10, 0, 0, 0, brt),
		EndsAt:      time.Date(2026, 3, 10, 11, 0, 0, 0, brt),
	}}
	svc := NewService(repo, nil, nil, config.DefaultBusinessRules())

	// Monday to Wednesday; the employee only works Tuesday morning
	res, err := svc.GenerateRange(context.Background(), GenerateInput{
		SalonID: 1, ServiceID: 1, EmployeeID: uintPtr(7), From: "2026-03-09", To: "2026-03-11",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Days)
	assert.Equal(t, 3, res.Generated)
	assert.EqualValues(t, 3, res.Inserted)
	assert.Equal(t, 1, res.Reserved)

	reserved := repo.find("2026-03-10", "10:00")
	require.NotNil(t, reserved)
	assert.Equal(t, string(domain.StatusReserved), reserved.Status)
	assert.Equal(t, uint(40), *reserved.AppointmentID)

	// second run only finds existing rows
	res, err = svc.GenerateRange(context.Background(), GenerateInput{
		SalonID: 1, ServiceID: 1, EmployeeID: uintPtr(7), From: "2026-03-10", To: "2026-03-10",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Inserted)
}

func TestGenerateRange_Invalid(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil, config.DefaultBusinessRules())
	ctx := context.Background()

	_, err := svc.GenerateRange(ctx, GenerateInput{SalonID: 1, ServiceID: 1, From: "2026-03-10", To: "2026-03-09"})
	assert.Equal(t, domain.CodeInvalidRange, code(t, err))

	_, err = svc.GenerateRange(ctx, GenerateInput{SalonID: 1, ServiceID: 1, From: "2026-01-01", To: "2026-06-01"})
	assert.Equal(t, domain.CodeInvalidRange, code(t, err))

	_, err = svc.GenerateRange(ctx, GenerateInput{SalonID: 1, ServiceID: 9, From: "2026-03-10", To: "2026-03-10"})
	assert.Equal(t, apdomain.CodeServiceNotFound, code(t, err))

	_, err = svc.GenerateRange(ctx, GenerateInput{SalonID: 1, ServiceID: 1, From: "x", To: "2026-03-10"})
	assert.Equal(t, apdomain.CodeInvalidDateOrTime, code(t, err))
}

func TestReconcile_FreesCancelledAndReservesActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil, config.DefaultBusinessRules())

	_, err := svc.GenerateRange(context.Background(), GenerateInput{
		SalonID: 1, ServiceID: 1, From: "2026-03-10", To: "2026-03-10",
	})
	require.NoError(t, err)

	stale := repo.find("2026-03-10", "09:00")
	stale.Status = string(domain.StatusReserved)
	stale.AppointmentID = uintPtr(90)

	repo.apps = []models.Appointment{
		{ID: 90, Status: string(apdomain.StatusCancelled),
			ScheduledAt: time.Date(2026, 3, 10, 9, 0, 0, 0, brt), EndsAt: time.Date(2026, 3, 10, 10, 0, 0, 0, brt)},
		{ID: 91, Status: string(apdomain.StatusRescheduled),
			ScheduledAt: time.Date(2026, 3, 10, 14, 0, 0, 0, brt), EndsAt: time.Date(2026, 3, 10, 15, 0, 0, 0, brt)},
	}
	repo.find("2026-03-10", "16:00").Status = string(domain.StatusBlocked)

	changed, err := svc.Reconcile(context.Background(), ReconcileInput{SalonID: 1, ServiceID: 1, Date: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	assert.Equal(t, string(domain.StatusAvailable), repo.find("2026-03-10", "09:00").Status)
	assert.Nil(t, repo.find("2026-03-10", "09:00").AppointmentID)
	assert.Equal(t, string(domain.StatusReserved), repo.find("2026-03-10", "14:00").Status)
	assert.Equal(t, string(domain.StatusBlocked), repo.find("2026-03-10", "16:00").Status)
}

func TestBlockUnblockCancel(t *testing.T) {
	repo := newFakeRepo()
	cache := &recordingCache{}
	svc := NewService(repo, cache, nil, config.DefaultBusinessRules())
	ctx := context.Background()

	_, err := svc.GenerateRange(ctx, GenerateInput{SalonID: 1, ServiceID: 1, From: "2026-03-10", To: "2026-03-10"})
	require.NoError(t, err)

	slot := repo.find("2026-03-10", "11:00")

	blocked, err := svc.Block(ctx, 1, slot.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusBlocked), blocked.Status)
	assert.Equal(t, []string{"2026-03-10"}, cache.dates)

	_, err = svc.Cancel(ctx, 1, slot.ID, nil)
	require.NoError(t, err)

	_, err = svc.Unblock(ctx, 1, slot.ID, nil)
	assert.Equal(t, domain.CodeInvalidState, code(t, err))

	reserved := repo.find("2026-03-10", "12:00")
	reserved.Status = string(domain.StatusReserved)
	_, err = svc.Block(ctx, 1, reserved.ID, nil)
	assert.Equal(t, domain.CodeSlotReserved, code(t, err))

	_, err = svc.Block(ctx, 1, 9999, nil)
	assert.Equal(t, domain.CodeSlotNotFound, code(t, err))
}

func TestList_ValidatesFilters(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil, config.DefaultBusinessRules())

	_, err := svc.List(context.Background(), domain.ListFilter{SalonID: 1, Status: "taken"})
	assert.Equal(t, domain.CodeInvalidState, code(t, err))

	_, err = svc.List(context.Background(), domain.ListFilter{SalonID: 1, Date: "10/03"})
	assert.Equal(t, apdomain.CodeInvalidDateOrTime, code(t, err))

	slots, err := svc.List(context.Background(), domain.ListFilter{SalonID: 1})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

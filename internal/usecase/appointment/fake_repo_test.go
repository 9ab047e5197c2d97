package appointment

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

type fakeRepo struct {
	mu sync.Mutex

	salon      models.Salon
	services   map[uint]*models.Service
	employees  map[uint]*models.Employee
	clients    map[string]*models.Client
	promotions map[string]*models.Promotion
	apps       map[uint]*models.Appointment
	blocked    []models.TimeSlot
	reserved   map[uint]bool

	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		salon: models.Salon{
			ID:                1,
			Name:              "Studio Unhas",
			Timezone:          "America/Sao_Paulo",
			MinAdvanceMinutes: intPtr(1440),
			MaxReschedules:    intPtr(2),
		},
		services:   map[uint]*models.Service{},
		employees:  map[uint]*models.Employee{},
		clients:    map[string]*models.Client{},
		promotions: map[string]*models.Promotion{},
		apps:       map[uint]*models.Appointment{},
		reserved:   map[uint]bool{},
		nextID:     100,
	}
}

func (r *fakeRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *fakeRepo) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	if id != r.salon.ID {
		return nil, gorm.ErrRecordNotFound
	}
	s := r.salon
	return &s, nil
}

func (r *fakeRepo) GetService(_ context.Context, salonID, serviceID uint) (*models.Service, error) {
	s, ok := r.services[serviceID]
	if !ok || s.SalonID != salonID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) GetEmployee(_ context.Context, salonID, employeeID uint) (*models.Employee, error) {
	e, ok := r.employees[employeeID]
	if !ok || e.SalonID != salonID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) GetOrCreateClient(_ context.Context, salonID uint, name, whatsapp, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[whatsapp]; ok {
		return c, nil
	}
	c := &models.Client{ID: r.id(), SalonID: salonID, Name: name, WhatsApp: whatsapp, Email: email}
	r.clients[whatsapp] = c
	return c, nil
}

func (r *fakeRepo) GetPromotionByCode(_ context.Context, _ uint, code string) (*models.Promotion, error) {
	p, ok := r.promotions[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) IncrementPromotionUsage(_ context.Context, promotionID uint) error {
	for _, p := range r.promotions {
		if p.ID == promotionID {
			p.UsedCount++
		}
	}
	return nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap.ID = r.id()
	ap.CreatedAt = time.Now()
	cp := *ap
	r.apps[ap.ID] = &cp
	return nil
}

func competing(a, b *uint) bool {
	if a == nil || b == nil {
		return true
	}
	return *a == *b
}

func (r *fakeRepo) FindConflicts(_ context.Context, salonID uint, employeeID *uint, start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.ID == excludeID || ap.SalonID != salonID || !domain.Status(ap.Status).BlocksTime() {
			continue
		}
		if !competing(employeeID, ap.EmployeeID) {
			continue
		}
		if domain.Overlaps(start, end, ap.ScheduledAt, ap.EndsAt) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, salonID, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.apps[id]
	if !ok || ap.SalonID != salonID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	for _, c := range r.clients {
		if c.ID == ap.ClientID {
			cp.Client = *c
		}
	}
	return &cp, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment, from domain.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.apps[ap.ID]
	if !ok || domain.VersionOf(stored) != from {
		return httperr.ErrBusiness(domain.CodeInvalidState)
	}
	cp := *ap
	r.apps[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) ListExpiredPendingDeposits(_ context.Context, before time.Time, limit int) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.Status == string(domain.StatusPendingDeposit) && !ap.DepositPaid && ap.CreatedAt.Before(before) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBusy(ctx context.Context, salonID uint, employeeID *uint, start, end time.Time) ([]models.Appointment, error) {
	return r.FindConflicts(ctx, salonID, employeeID, start, end, 0)
}

func (r *fakeRepo) ListBlockedSlots(_ context.Context, _ uint, _ *uint, date string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range r.blocked {
		if s.Date == date && s.Status == string(timeslot.StatusBlocked) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.SalonID != f.SalonID {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		if ap.ScheduledAt.Before(f.From) || !ap.ScheduledAt.Before(f.To) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (r *fakeRepo) ReserveSlot(_ context.Context, ap *models.Appointment) error {
	start := ap.ScheduledAt.In(timezone.Location(r.salon.Timezone))
	for _, s := range r.blocked {
		if s.Date != start.Format(timezone.DateLayout) || s.StartTime != start.Format(timezone.ClockLayout) {
			continue
		}
		switch timeslot.Status(s.Status) {
		case timeslot.StatusBlocked, timeslot.StatusCancelled:
			return httperr.ErrBusiness(domain.CodeSlotBlocked)
		}
	}
	r.reserved[ap.ID] = true
	return nil
}

func (r *fakeRepo) ReleaseSlot(_ context.Context, appointmentID uint) error {
	delete(r.reserved, appointmentID)
	return nil
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

var _ domain.Repository = (*fakeRepo)(nil)

// --------------------------------------------------
// Fixture
// --------------------------------------------------

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) AppointmentChanged(_ context.Context, event string, _ *models.Appointment) {
	n.events = append(n.events, event)
}

type countingCache struct {
	invalidated []string
}

func (c *countingCache) Get(context.Context, uint, string, string, any) (bool, error) {
	return false, nil
}

func (c *countingCache) Set(context.Context, uint, string, string, any) error { return nil }

func (c *countingCache) Invalidate(_ context.Context, _ uint, dates ...string) error {
	c.invalidated = append(c.invalidated, dates...)
	return nil
}

type fixture struct {
	repo     *fakeRepo
	notifier *recordingNotifier
	cache    *countingCache
	deps     Deps
	now      time.Time
}

var brt = time.FixedZone("BRT", -3*60*60)

// Monday 2026-03-09 08:00 BRT: bookings from Tuesday on respect the 24h lead.
func newFixture() *fixture {
	repo := newFakeRepo()
	repo.services[1] = &models.Service{ID: 1, SalonID: 1, Name: "Manicure", DurationMin: 60, Price: 50, Active: true}
	repo.services[2] = &models.Service{
		ID: 2, SalonID: 1, Name: "Alongamento em gel", DurationMin: 120, Price: 180, Active: true,
		DepositRequired: true, DepositPercentage: 30,
	}
	repo.employees[7] = &models.Employee{
		ID: 7, SalonID: 1, Name: "Carla", Active: true,
		Services: []models.Service{{ID: 1}, {ID: 2}},
		Schedules: []models.EmployeeSchedule{
			{EmployeeID: 7, Weekday: 2, StartTime: "09:00", EndTime: "13:00"},
			{EmployeeID: 7, Weekday: 3, StartTime: "09:00", EndTime: "18:00"},
		},
	}

	f := &fixture{
		repo:     repo,
		notifier: &recordingNotifier{},
		cache:    &countingCache{},
		now:      time.Date(2026, 3, 9, 8, 0, 0, 0, brt),
	}
	f.deps = Deps{
		Repo:     repo,
		Locker:   lock.NewLocalLocker(),
		Cache:    f.cache,
		Notifier: f.notifier,
		Rules:    config.DefaultBusinessRules(),
		Now:      func() time.Time { return f.now },
	}
	return f
}

func uintPtr(v uint) *uint { return &v }

func intPtr(v int) *int { return &v }

func (f *fixture) book(date, clock string, serviceID uint, employeeID *uint, whatsapp string) (*models.Appointment, error) {
	return NewCreateAppointment(f.deps).Execute(context.Background(), CreateInput{
		SalonID:        1,
		ServiceID:      serviceID,
		EmployeeID:     employeeID,
		ClientName:     "Ana",
		ClientWhatsApp: whatsapp,
		Date:           date,
		Time:           clock,
	})
}

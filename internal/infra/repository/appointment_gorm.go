package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// scopeCondition restricts appointments to those competing with employeeID.
func scopeCondition(q *gorm.DB, employeeID *uint) *gorm.DB {
	if employeeID == nil {
		return q
	}
	return q.Where("(employee_id = ? OR employee_id IS NULL)", *employeeID)
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var shop models.Salon
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// --------------------------------------------------
// Service / Employee
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	salonID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", serviceID, salonID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetEmployee(
	ctx context.Context,
	salonID uint,
	employeeID uint,
) (*models.Employee, error) {

	var emp models.Employee
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Preload("Schedules").
		Where("id = ? AND salon_id = ?", employeeID, salonID).
		First(&emp).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	salonID uint,
	name string,
	whatsapp string,
	email string,
) (*models.Client, error) {

	client := models.Client{
		SalonID:  salonID,
		Name:     name,
		WhatsApp: whatsapp,
		Email:    email,
	}

	// the unique (salon_id, whatsapp) index makes concurrent first bookings safe
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&client).Error; err != nil {
		return nil, err
	}

	var stored models.Client
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND whatsapp = ?", salonID, whatsapp).
		First(&stored).Error; err != nil {
		return nil, err
	}

	if email != "" && stored.Email == "" {
		stored.Email = email
		if err := r.db.WithContext(ctx).Model(&stored).Update("email", email).Error; err != nil {
			return nil, err
		}
	}

	return &stored, nil
}

// --------------------------------------------------
// Promotion
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPromotionByCode(
	ctx context.Context,
	salonID uint,
	code string,
) (*models.Promotion, error) {

	var promo models.Promotion
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND code = ?", salonID, code).
		First(&promo).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *AppointmentGormRepository) IncrementPromotionUsage(
	ctx context.Context,
	promotionID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ?", promotionID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) FindConflicts(
	ctx context.Context,
	salonID uint,
	employeeID *uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"salon_id = ? AND status <> ? AND scheduled_at < ? AND ends_at > ?",
			salonID, string(domain.StatusCancelled), end, start,
		)
	q = scopeCondition(q, employeeID)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var conflicts []models.Appointment
	if err := q.Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Employee").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

// UpdateAppointment writes every column of ap, guarded by the version it was
// read at.
func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Version,
) error {
	res := r.db.WithContext(ctx).
		Model(ap).
		Where("status = ? AND reschedule_count = ?", from.Status, from.RescheduleCount).
		Select("*").
		Omit(clause.Associations, "id", "created_at").
		Updates(ap)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(domain.CodeInvalidState)
	}
	return nil
}

func (r *AppointmentGormRepository) ListExpiredPendingDeposits(
	ctx context.Context,
	createdBefore time.Time,
	limit int,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("status = ? AND deposit_paid = ? AND created_at < ?",
			string(domain.StatusPendingDeposit), false, createdBefore).
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBusy(
	ctx context.Context,
	salonID uint,
	employeeID *uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Select("id", "employee_id", "scheduled_at", "ends_at", "status").
		Where(
			"salon_id = ? AND status <> ? AND scheduled_at < ? AND ends_at > ?",
			salonID, string(domain.StatusCancelled), end, start,
		)
	q = scopeCondition(q, employeeID)

	var apps []models.Appointment
	if err := q.Order("scheduled_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListBlockedSlots(
	ctx context.Context,
	salonID uint,
	employeeID *uint,
	date string,
) ([]models.TimeSlot, error) {

	q := r.db.WithContext(ctx).
		Where("salon_id = ? AND date = ? AND status = ?", salonID, date, string(timeslot.StatusBlocked))

	if employeeID == nil {
		q = q.Where("employee_id IS NULL")
	} else {
		q = q.Where("(employee_id = ? OR employee_id IS NULL)", *employeeID)
	}

	var slots []models.TimeSlot
	if err := q.Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Employee").
		Where("salon_id = ?", f.SalonID)

	if f.EmployeeID != nil {
		q = q.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("scheduled_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("scheduled_at < ?", f.To)
	}

	var apps []models.Appointment
	if err := q.Order("scheduled_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Time slot reconciliation
// --------------------------------------------------

// ReserveSlot links the slot matching the appointment start, creating it
// when the range was never generated.
func (r *AppointmentGormRepository) ReserveSlot(
	ctx context.Context,
	ap *models.Appointment,
) error {

	loc := ap.ScheduledAt.Location()
	if ap.Salon.Timezone != "" {
		loc = timezone.Location(ap.Salon.Timezone)
	}
	start := ap.ScheduledAt.In(loc)
	date := start.Format(timezone.DateLayout)
	clock := start.Format(timezone.ClockLayout)

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("service_id = ? AND date = ? AND start_time = ?", ap.ServiceID, date, clock)
	if ap.EmployeeID == nil {
		q = q.Where("employee_id IS NULL")
	} else {
		q = q.Where("employee_id = ?", *ap.EmployeeID)
	}

	var slot models.TimeSlot
	err := q.First(&slot).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		slot = models.TimeSlot{
			SalonID:       ap.SalonID,
			ServiceID:     ap.ServiceID,
			EmployeeID:    ap.EmployeeID,
			Date:          date,
			StartTime:     clock,
			EndTime:       ap.EndsAt.In(loc).Format(timezone.ClockLayout),
			Status:        string(timeslot.StatusReserved),
			AppointmentID: &ap.ID,
		}
		return r.db.WithContext(ctx).Create(&slot).Error
	}
	if err != nil {
		return err
	}

	switch timeslot.Status(slot.Status) {
	case timeslot.StatusBlocked, timeslot.StatusCancelled:
		return httperr.ErrBusiness(domain.CodeSlotBlocked)
	}

	slot.Status = string(timeslot.StatusReserved)
	slot.AppointmentID = &ap.ID
	return r.db.WithContext(ctx).Save(&slot).Error
}

func (r *AppointmentGormRepository) ReleaseSlot(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("appointment_id = ? AND status = ?", appointmentID, string(timeslot.StatusReserved)).
		Updates(map[string]any{
			"status":         string(timeslot.StatusAvailable),
			"appointment_id": nil,
		}).Error
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type TimeSlotGormRepository struct {
	*AppointmentGormRepository
}

func NewTimeSlotGormRepository(db *gorm.DB) *TimeSlotGormRepository {
	return &TimeSlotGormRepository{
		AppointmentGormRepository: NewAppointmentGormRepository(db),
	}
}

func (r *TimeSlotGormRepository) InsertSlots(
	ctx context.Context,
	slots []models.TimeSlot,
) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&slots, 200)

	return res.RowsAffected, res.Error
}

func (r *TimeSlotGormRepository) ListSlots(
	ctx context.Context,
	f timeslot.ListFilter,
) ([]models.TimeSlot, error) {

	q := r.db.WithContext(ctx).Where("salon_id = ?", f.SalonID)

	if f.ServiceID != 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	switch {
	case f.EmployeeID != nil:
		q = q.Where("employee_id = ?", *f.EmployeeID)
	case f.Unassigned:
		q = q.Where("employee_id IS NULL")
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var slots []models.TimeSlot
	if err := q.Order("date ASC, start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *TimeSlotGormRepository) GetSlot(
	ctx context.Context,
	salonID uint,
	slotID uint,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", slotID, salonID).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *TimeSlotGormRepository) UpdateSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *TimeSlotGormRepository) ListDayAppointments(
	ctx context.Context,
	salonID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "employee_id", "service_id", "scheduled_at", "ends_at", "status").
		Where("salon_id = ? AND scheduled_at < ? AND ends_at > ?", salonID, end, start).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

var _ timeslot.Repository = (*TimeSlotGormRepository)(nil)

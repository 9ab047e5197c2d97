package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/dto"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

type ListFilter struct {
	SalonID    uint
	EmployeeID *uint
	ClientID   *uint
	Status     string
}

type ListAppointments struct {
	Deps
}

func NewListAppointments(d Deps) *ListAppointments {
	return &ListAppointments{Deps: d}
}

// ByDate lists one calendar day in the salon timezone.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	f ListFilter,
	date string,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.Repo.GetSalonByID(ctx, f.SalonID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(shop.Timezone, date)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	start, end := timezone.DayBounds(day)
	return uc.period(ctx, f, start, end)
}

// ByMonth lists a calendar month in the salon timezone.
func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	f ListFilter,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	shop, err := uc.Repo.GetSalonByID(ctx, f.SalonID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	return uc.period(ctx, f, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) period(
	ctx context.Context,
	f ListFilter,
	start time.Time,
	end time.Time,
) ([]dto.AppointmentListDTO, error) {

	if f.Status != "" && !domain.Status(f.Status).Valid() {
		return nil, httperr.ErrBusiness(domain.CodeInvalidState)
	}

	appointments, err := uc.Repo.ListAppointments(ctx, domain.ListFilter{
		SalonID:    f.SalonID,
		EmployeeID: f.EmployeeID,
		ClientID:   f.ClientID,
		Status:     f.Status,
		From:       start,
		To:         end,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, dto.NewAppointmentListDTO(&appointments[i]))
	}
	return out, nil
}

// Get returns a single appointment with its associations.
func (uc *ListAppointments) Get(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.loadAppointment(ctx, salonID, appointmentID)
}

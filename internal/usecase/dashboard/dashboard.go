package dashboard

import (
	"context"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/dto"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

const (
	CodeInvalidRange = "invalid_range"

	maxRangeDays = 366
	topLimit     = 5
	lowLimit     = 20
)

type ServiceStat struct {
	ServiceID uint    `json:"service_id"`
	Name      string  `json:"name"`
	Count     int64   `json:"count"`
	Revenue   float64 `json:"revenue"`
}

type LowStockItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}

type DepositStat struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type Summary struct {
	From            string                   `json:"from"`
	To              string                   `json:"to"`
	ByStatus        map[string]int64         `json:"by_status"`
	Revenue         float64                  `json:"revenue"`
	DepositsPending DepositStat              `json:"deposits_pending"`
	TopServices     []ServiceStat            `json:"top_services"`
	LowStock        []LowStockItem           `json:"low_stock"`
	Today           []dto.AppointmentListDTO `json:"today"`
}

// Repository runs the aggregation queries. Ranges are [from, to).
type Repository interface {
	GetSalonByID(ctx context.Context, id uint) (*models.Salon, error)
	CountByStatus(ctx context.Context, salonID uint, from, to time.Time) (map[string]int64, error)
	Revenue(ctx context.Context, salonID uint, from, to time.Time) (float64, error)
	PendingDeposits(ctx context.Context, salonID uint) (DepositStat, error)
	TopServices(ctx context.Context, salonID uint, from, to time.Time, limit int) ([]ServiceStat, error)
	LowStock(ctx context.Context, salonID uint, limit int) ([]LowStockItem, error)
	Appointments(ctx context.Context, salonID uint, from, to time.Time) ([]models.Appointment, error)
}

type Service struct {
	repo Repository
	Now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, Now: time.Now}
}

// Summary aggregates the inclusive date range [from, to] in the salon
// timezone. Empty dates default to the current month.
func (s *Service) Summary(ctx context.Context, salonID uint, from, to string) (*Summary, error) {
	shop, err := s.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	now := s.Now().In(timezone.Location(shop.Timezone))

	start, end, err := dateRange(from, to, now, shop.Timezone)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		From: start.Format(timezone.DateLayout),
		To:   end.AddDate(0, 0, -1).Format(timezone.DateLayout),
	}

	if out.ByStatus, err = s.repo.CountByStatus(ctx, salonID, start, end); err != nil {
		return nil, err
	}
	if out.Revenue, err = s.repo.Revenue(ctx, salonID, start, end); err != nil {
		return nil, err
	}
	if out.DepositsPending, err = s.repo.PendingDeposits(ctx, salonID); err != nil {
		return nil, err
	}
	if out.TopServices, err = s.repo.TopServices(ctx, salonID, start, end, topLimit); err != nil {
		return nil, err
	}
	if out.LowStock, err = s.repo.LowStock(ctx, salonID, lowLimit); err != nil {
		return nil, err
	}

	dayStart, dayEnd := timezone.DayBounds(now)
	today, err := s.repo.Appointments(ctx, salonID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	out.Today = make([]dto.AppointmentListDTO, 0, len(today))
	for i := range today {
		out.Today = append(out.Today, dto.NewAppointmentListDTO(&today[i]))
	}

	return out, nil
}

func dateRange(from, to string, now time.Time, tz string) (time.Time, time.Time, error) {
	var start, last time.Time

	if from == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		d, err := timezone.ParseDate(tz, from)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.ErrBusiness(CodeInvalidRange)
		}
		start = d
	}

	if to == "" {
		last = start.AddDate(0, 1, -1)
	} else {
		d, err := timezone.ParseDate(tz, to)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.ErrBusiness(CodeInvalidRange)
		}
		last = d
	}

	if last.Before(start) || last.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, httperr.ErrBusiness(CodeInvalidRange)
	}

	return start, last.AddDate(0, 0, 1), nil
}

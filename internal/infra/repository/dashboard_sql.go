package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	apdomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	paydomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/dashboard"
)

// Queries keep squirrel's "?" placeholders; gorm rebinds them for postgres.
var sqlb = sq.StatementBuilder

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// --------------------------------------------------
// Query builders
// --------------------------------------------------

func statusCountQuery(salonID uint, from, to time.Time) sq.SelectBuilder {
	return sqlb.Select("status", "COUNT(*) AS total").
		From("appointments").
		Where(sq.Eq{"salon_id": salonID}).
		Where(sq.GtOrEq{"scheduled_at": from}).
		Where(sq.Lt{"scheduled_at": to}).
		GroupBy("status")
}

func revenueQuery(salonID uint, from, to time.Time) sq.SelectBuilder {
	return sqlb.Select("COALESCE(SUM(amount), 0)").
		From("payments").
		Where(sq.Eq{"salon_id": salonID, "status": string(paydomain.StatusCompleted)}).
		Where(sq.GtOrEq{"paid_at": from}).
		Where(sq.Lt{"paid_at": to})
}

func pendingDepositsQuery(salonID uint) sq.SelectBuilder {
	return sqlb.Select("COUNT(*) AS count", "COALESCE(SUM(deposit_amount), 0) AS amount").
		From("appointments").
		Where(sq.Eq{
			"salon_id":     salonID,
			"status":       string(apdomain.StatusPendingDeposit),
			"deposit_paid": false,
		})
}

func topServicesQuery(salonID uint, from, to time.Time, limit int) sq.SelectBuilder {
	return sqlb.Select(
		"s.id AS service_id",
		"s.name AS name",
		"COUNT(a.id) AS count",
		"COALESCE(SUM(a.price - a.discount), 0) AS revenue",
	).
		From("appointments a").
		Join("services s ON s.id = a.service_id").
		Where(sq.Eq{"a.salon_id": salonID}).
		Where(sq.NotEq{"a.status": string(apdomain.StatusCancelled)}).
		Where(sq.GtOrEq{"a.scheduled_at": from}).
		Where(sq.Lt{"a.scheduled_at": to}).
		GroupBy("s.id", "s.name").
		OrderBy("count DESC", "s.name ASC").
		Limit(uint64(limit))
}

func lowStockQuery(salonID uint, limit int) sq.SelectBuilder {
	return sqlb.Select("id AS product_id", "name", "stock", "min_stock").
		From("products").
		Where(sq.Eq{"salon_id": salonID, "active": true}).
		Where("min_stock > 0 AND stock <= min_stock").
		OrderBy("stock ASC", "name ASC").
		Limit(uint64(limit))
}

func (r *DashboardRepository) scan(ctx context.Context, b sq.SelectBuilder, dst any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Raw(query, args...).Scan(dst).Error
}

// --------------------------------------------------
// dashboard.Repository
// --------------------------------------------------

func (r *DashboardRepository) GetSalonByID(ctx context.Context, id uint) (*models.Salon, error) {
	var shop models.Salon
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *DashboardRepository) CountByStatus(
	ctx context.Context,
	salonID uint,
	from, to time.Time,
) (map[string]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.scan(ctx, statusCountQuery(salonID, from, to), &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *DashboardRepository) Revenue(ctx context.Context, salonID uint, from, to time.Time) (float64, error) {
	var total float64
	err := r.scan(ctx, revenueQuery(salonID, from, to), &total)
	return total, err
}

func (r *DashboardRepository) PendingDeposits(ctx context.Context, salonID uint) (dashboard.DepositStat, error) {
	var out dashboard.DepositStat
	err := r.scan(ctx, pendingDepositsQuery(salonID), &out)
	return out, err
}

func (r *DashboardRepository) TopServices(
	ctx context.Context,
	salonID uint,
	from, to time.Time,
	limit int,
) ([]dashboard.ServiceStat, error) {

	var out []dashboard.ServiceStat
	err := r.scan(ctx, topServicesQuery(salonID, from, to, limit), &out)
	return out, err
}

func (r *DashboardRepository) LowStock(ctx context.Context, salonID uint, limit int) ([]dashboard.LowStockItem, error) {
	var out []dashboard.LowStockItem
	err := r.scan(ctx, lowStockQuery(salonID, limit), &out)
	return out, err
}

func (r *DashboardRepository) Appointments(
	ctx context.Context,
	salonID uint,
	from, to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Employee").
		Where("salon_id = ? AND scheduled_at >= ? AND scheduled_at < ?", salonID, from, to).
		Order("scheduled_at ASC").
		Find(&apps).Error
	return apps, err
}

var _ dashboard.Repository = (*DashboardRepository)(nil)

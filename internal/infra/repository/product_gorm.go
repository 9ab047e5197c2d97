package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) GetProductForUpdate(
	ctx context.Context,
	salonID uint,
	productID uint,
) (*models.Product, error) {

	var p models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND salon_id = ?", productID, salonID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductGormRepository) SaveStock(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).
		Model(p).
		UpdateColumn("stock", p.Stock).Error
}

func (r *ProductGormRepository) CreateMovement(ctx context.Context, m *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ProductGormRepository) ListMovements(
	ctx context.Context,
	salonID uint,
	productID uint,
	limit int,
) ([]models.StockMovement, error) {

	var out []models.StockMovement
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND product_id = ?", salonID, productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductGormRepository{db: tx})
	})
}

var _ domain.Repository = (*ProductGormRepository)(nil)

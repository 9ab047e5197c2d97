package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/media"
)

type MediaGormRepository struct {
	db *gorm.DB
}

func NewMediaGormRepository(db *gorm.DB) *MediaGormRepository {
	return &MediaGormRepository{db: db}
}

func (r *MediaGormRepository) SetImageURL(
	ctx context.Context,
	entity string,
	salonID uint,
	id uint,
	url string,
) error {

	var (
		model  any
		column string
	)
	switch entity {
	case media.EntityProduct:
		model, column = &models.Product{}, "image_url"
	case media.EntityService:
		model, column = &models.Service{}, "image_url"
	case media.EntityEmployee:
		model, column = &models.Employee{}, "photo_url"
	default:
		return fmt.Errorf("unknown image entity %q", entity)
	}

	res := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND salon_id = ?", id, salonID).
		Update(column, url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ media.Repository = (*MediaGormRepository)(nil)

package product

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type AdjustStockInput struct {
	SalonID   uint
	ProductID uint
	UserID    *uint
	Type      string
	Quantity  int
	Reason    string
}

type Stock struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewStock(repo domain.Repository, audit *audit.Dispatcher) *Stock {
	return &Stock{repo: repo, audit: audit}
}

// Adjust applies a movement under a row lock and records it.
func (s *Stock) Adjust(ctx context.Context, in AdjustStockInput) (*models.StockMovement, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Type))

	var (
		movement *models.StockMovement
		product  *models.Product
	)

	err := s.repo.Transaction(ctx, func(tx domain.Repository) error {
		p, err := tx.GetProductForUpdate(ctx, in.SalonID, in.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness(domain.CodeProductNotFound)
		}
		if err != nil {
			return err
		}

		after, err := domain.ApplyMovement(p.Stock, kind, in.Quantity)
		if err != nil {
			return err
		}

		movement = &models.StockMovement{
			SalonID:        in.SalonID,
			ProductID:      p.ID,
			UserID:         in.UserID,
			Type:           kind,
			Quantity:       in.Quantity,
			QuantityBefore: p.Stock,
			QuantityAfter:  after,
			Reason:         strings.TrimSpace(in.Reason),
		}

		p.Stock = after
		product = p

		if err := tx.SaveStock(ctx, p); err != nil {
			return err
		}
		return tx.CreateMovement(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	if domain.LowStock(product.Stock, product.MinStock) {
		log.Printf("low stock salon=%d product=%d stock=%d min=%d", in.SalonID, product.ID, product.Stock, product.MinStock)
	}

	s.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.UserID,
		Action:   "stock_" + kind,
		Entity:   "product",
		EntityID: &product.ID,
		Metadata: map[string]any{
			"before": movement.QuantityBefore,
			"after":  movement.QuantityAfter,
		},
	})

	return movement, nil
}

func (s *Stock) Movements(ctx context.Context, salonID, productID uint, limit int) ([]models.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListMovements(ctx, salonID, productID, limit)
}

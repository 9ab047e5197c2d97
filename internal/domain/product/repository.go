package product

import (
	"context"

	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type Repository interface {
	// GetProductForUpdate locks the product row for the transaction.
	GetProductForUpdate(ctx context.Context, salonID, productID uint) (*models.Product, error)
	SaveStock(ctx context.Context, p *models.Product) error
	CreateMovement(ctx context.Context, m *models.StockMovement) error
	ListMovements(ctx context.Context, salonID, productID uint, limit int) ([]models.StockMovement, error)

	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

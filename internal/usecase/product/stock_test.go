package product

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

// fakeRepo serializes transactions the way the row lock does.
type fakeRepo struct {
	mu        sync.Mutex
	products  map[uint]*models.Product
	movements []models.StockMovement
}

func (r *fakeRepo) GetProductForUpdate(_ context.Context, salonID, id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok || p.SalonID != salonID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) SaveStock(_ context.Context, p *models.Product) error {
	r.products[p.ID].Stock = p.Stock
	return nil
}

func (r *fakeRepo) CreateMovement(_ context.Context, m *models.StockMovement) error {
	m.ID = uint(len(r.movements) + 1)
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeRepo) ListMovements(_ context.Context, _, productID uint, limit int) ([]models.StockMovement, error) {
	var out []models.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

func newRepo() *fakeRepo {
	return &fakeRepo{products: map[uint]*models.Product{
		1: {ID: 1, SalonID: 1, Name: "Esmalte vermelho", Stock: 5, MinStock: 2},
	}}
}

func TestAdjust(t *testing.T) {
	repo := newRepo()
	uc := NewStock(repo, nil)
	ctx := context.Background()

	m, err := uc.Adjust(ctx, AdjustStockInput{SalonID: 1, ProductID: 1, Type: "OUT", Quantity: 4, Reason: "uso em atendimento"})
	require.NoError(t, err)
	assert.Equal(t, 5, m.QuantityBefore)
	assert.Equal(t, 1, m.QuantityAfter)
	assert.Equal(t, 1, repo.products[1].Stock)

	_, err = uc.Adjust(ctx, AdjustStockInput{SalonID: 1, ProductID: 1, Type: "out", Quantity: 2})
	assert.True(t, httperr.IsBusiness(err, domain.CodeInsufficientStock))
	assert.Equal(t, 1, repo.products[1].Stock)
	assert.Len(t, repo.movements, 1)

	_, err = uc.Adjust(ctx, AdjustStockInput{SalonID: 2, ProductID: 1, Type: "in", Quantity: 2})
	assert.True(t, httperr.IsBusiness(err, domain.CodeProductNotFound))

	m, err = uc.Adjust(ctx, AdjustStockInput{SalonID: 1, ProductID: 1, Type: "adjustment", Quantity: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, m.QuantityAfter)

	list, err := uc.Movements(ctx, 1, 1, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAdjust_ConcurrentOutNeverNegative(t *testing.T) {
	repo := newRepo()
	uc := NewStock(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Adjust(context.Background(), AdjustStockInput{SalonID: 1, ProductID: 1, Type: "out", Quantity: 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, repo.products[1].Stock)
	assert.Len(t, repo.movements, 5)
}

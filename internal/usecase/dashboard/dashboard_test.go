package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type fakeRepo struct {
	from, to       time.Time
	dayFrom, dayTo time.Time
}

func (f *fakeRepo) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	return &models.Salon{ID: id, Timezone: "America/Sao_Paulo"}, nil
}

func (f *fakeRepo) CountByStatus(_ context.Context, _ uint, from, to time.Time) (map[string]int64, error) {
	f.from, f.to = from, to
	return map[string]int64{"confirmed": 3, "cancelled": 1}, nil
}

func (f *fakeRepo) Revenue(context.Context, uint, time.Time, time.Time) (float64, error) {
	return 230, nil
}

func (f *fakeRepo) PendingDeposits(context.Context, uint) (DepositStat, error) {
	return DepositStat{Count: 2, Amount: 108}, nil
}

func (f *fakeRepo) TopServices(_ context.Context, _ uint, _, _ time.Time, limit int) ([]ServiceStat, error) {
	return []ServiceStat{{ServiceID: 1, Name: "Manicure", Count: 3, Revenue: 150}}[:min(limit, 1)], nil
}

func (f *fakeRepo) LowStock(context.Context, uint, int) ([]LowStockItem, error) {
	return []LowStockItem{{ProductID: 9, Name: "Esmalte", Stock: 1, MinStock: 3}}, nil
}

func (f *fakeRepo) Appointments(_ context.Context, _ uint, from, to time.Time) ([]models.Appointment, error) {
	f.dayFrom, f.dayTo = from, to
	return []models.Appointment{{
		ID:      5,
		Status:  "confirmed",
		Price:   50,
		Client:  models.Client{Name: "Ana"},
		Service: models.Service{Name: "Manicure"},
	}}, nil
}

func newService(repo Repository) *Service {
	s := NewService(repo)
	// 2026-03-09 08:00 in São Paulo
	s.Now = func() time.Time { return time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC) }
	return s
}

func TestSummary_DefaultsToCurrentMonth(t *testing.T) {
	repo := &fakeRepo{}

	sum, err := newService(repo).Summary(context.Background(), 1, "", "")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", sum.From)
	assert.Equal(t, "2026-03-31", sum.To)
	assert.Equal(t, time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC), repo.from.UTC())
	assert.Equal(t, time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC), repo.to.UTC())

	assert.Equal(t, int64(3), sum.ByStatus["confirmed"])
	assert.Equal(t, 230.0, sum.Revenue)
	assert.Equal(t, int64(2), sum.DepositsPending.Count)
	assert.Len(t, sum.TopServices, 1)
	assert.Len(t, sum.LowStock, 1)

	require.Len(t, sum.Today, 1)
	assert.Equal(t, "Ana", sum.Today[0].ClientName)
	assert.Equal(t, time.Date(2026, 3, 9, 3, 0, 0, 0, time.UTC), repo.dayFrom.UTC())
	assert.Equal(t, 24*time.Hour, repo.dayTo.Sub(repo.dayFrom))
}

func TestSummary_ExplicitRange(t *testing.T) {
	repo := &fakeRepo{}

	sum, err := newService(repo).Summary(context.Background(), 1, "2026-02-10", "2026-02-20")
	require.NoError(t, err)

	assert.Equal(t, "2026-02-10", sum.From)
	assert.Equal(t, "2026-02-20", sum.To)
	assert.Equal(t, 11*24*time.Hour, repo.to.Sub(repo.from))
}

func TestSummary_InvalidRange(t *testing.T) {
	cases := map[string][2]string{
		"bad date":  {"10/02/2026", ""},
		"inverted":  {"2026-02-20", "2026-02-10"},
		"too large": {"2024-01-01", "2026-01-01"},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newService(&fakeRepo{}).Summary(context.Background(), 1, c[0], c[1])

			code, ok := httperr.BusinessCode(err)
			require.True(t, ok)
			assert.Equal(t, CodeInvalidRange, code)
		})
	}
}

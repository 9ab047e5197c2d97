package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rangeFrom = time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	rangeTo   = time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC)
)

func TestStatusCountQuery(t *testing.T) {
	query, args, err := statusCountQuery(4, rangeFrom, rangeTo).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT status, COUNT(*) AS total FROM appointments "+
			"WHERE salon_id = ? AND scheduled_at >= ? AND scheduled_at < ? GROUP BY status",
		query)
	assert.Equal(t, []any{uint(4), rangeFrom, rangeTo}, args)
}

func TestRevenueQuery_OnlyCompletedPayments(t *testing.T) {
	query, args, err := revenueQuery(4, rangeFrom, rangeTo).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM payments")
	assert.Contains(t, query, "salon_id = ? AND status = ?")
	assert.Contains(t, query, "paid_at >= ? AND paid_at < ?")
	assert.Equal(t, []any{uint(4), "completed", rangeFrom, rangeTo}, args)
}

func TestPendingDepositsQuery(t *testing.T) {
	query, args, err := pendingDepositsQuery(4).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "SUM(deposit_amount)")
	// squirrel sorts Eq keys
	assert.Contains(t, query, "deposit_paid = ? AND salon_id = ? AND status = ?")
	assert.Equal(t, []any{false, uint(4), "pending_deposit"}, args)
}

func TestTopServicesQuery(t *testing.T) {
	query, args, err := topServicesQuery(4, rangeFrom, rangeTo, 5).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "JOIN services s ON s.id = a.service_id")
	assert.Contains(t, query, "a.status <> ?")
	assert.Contains(t, query, "GROUP BY s.id, s.name")
	assert.Contains(t, query, "ORDER BY count DESC, s.name ASC")
	assert.Contains(t, query, "LIMIT 5")
	assert.Equal(t, []any{uint(4), "cancelled", rangeFrom, rangeTo}, args)
}

func TestLowStockQuery(t *testing.T) {
	query, args, err := lowStockQuery(4, 20).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "min_stock > 0 AND stock <= min_stock")
	assert.Contains(t, query, "LIMIT 20")
	assert.Equal(t, []any{true, uint(4)}, args)
}

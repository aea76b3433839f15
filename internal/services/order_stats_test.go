package services

import (
	"context"
	"testing"

	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryOnFixture(t *testing.T) {
	conn := setupTestDB(t)
	seedFixture(t, newOrderService(conn))
	s, err := NewStatsService(conn).Summary(context.Background(), testAdmin)
	require.NoError(t, err)

	assert.EqualValues(t, 3, s.TotalOrders)
	assert.EqualValues(t, 6, s.TotalQuantity)
	assert.Equal(t, "50.00", s.TotalRevenue.StringFixed(2))
	assert.Equal(t, "100.00", s.PendingAmount.StringFixed(2))
	assert.EqualValues(t, 1, s.PaidOrders)
	assert.InDelta(t, 33.33, s.PaymentRate, 0.01)
}

func TestSummaryEmpty(t *testing.T) {
	s, err := NewStatsService(setupTestDB(t)).Summary(context.Background(), testAdmin)
	require.NoError(t, err)
	assert.Zero(t, s.TotalOrders)
	assert.Zero(t, s.PaymentRate)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.True(t, s.PendingAmount.IsZero())
}

func TestDistributionsOnFixture(t *testing.T) {
	conn := setupTestDB(t)
	seedFixture(t, newOrderService(conn))
	st := NewStatsService(conn)
	ctx := context.Background()

	sizes, err := st.SizeDistribution(ctx, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, []SizeCount{{Size: models.SizeM, Quantity: 5}, {Size: models.SizeG, Quantity: 1}}, sizes)

	congregations, err := st.CongregationDistribution(ctx, testAdmin)
	require.NoError(t, err)
	require.Len(t, congregations, 2)
	assert.Equal(t, "A", congregations[0].Congregation)
	assert.EqualValues(t, 5, congregations[0].Quantity)
	assert.Equal(t, "125.00", congregations[0].Amount.StringFixed(2))
	assert.Equal(t, "B", congregations[1].Congregation)
	assert.EqualValues(t, 1, congregations[1].Quantity)
	assert.Equal(t, "25.00", congregations[1].Amount.StringFixed(2))
}

func TestBatchDistributionOrdersUnbatchedLast(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOrderService(conn)
	ctx := context.Background()
	_, err := svc.CreateBatch(ctx, testAdmin, []models.OrderInput{
		{Congregation: "A", Size: models.SizeM, Quantity: 2},
		{Congregation: "A", Size: models.SizeM, Quantity: 1, BatchNumber: models.BatchNumber(2)},
		{Congregation: "B", Size: models.SizeG, Quantity: 4, BatchNumber: models.BatchNumber(1)},
		{Congregation: "B", Size: models.SizeG, Quantity: 1, BatchNumber: models.BatchNumber(1)},
	})
	require.NoError(t, err)

	batches, err := NewStatsService(conn).BatchDistribution(ctx, testAdmin)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, models.BatchNumber(1), batches[0].Batch)
	assert.EqualValues(t, 2, batches[0].Orders)
	assert.EqualValues(t, 5, batches[0].Quantity)
	assert.Equal(t, "125.00", batches[0].Amount.StringFixed(2))
	assert.Equal(t, models.BatchNumber(2), batches[1].Batch)
	assert.Equal(t, models.Batch(""), batches[2].Batch)
}

func TestFiguresAndReport(t *testing.T) {
	conn := setupTestDB(t)
	seedFixture(t, newOrderService(conn))
	st := NewStatsService(conn)
	ctx := context.Background()

	f, err := st.Figures(ctx, testAdmin)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f.MeanQuantity, 1e-9)
	assert.InDelta(t, 2.0, f.MedianQuantity, 1e-9)
	assert.InDelta(t, 3.0, f.MaxQuantity, 1e-9)
	assert.Equal(t, "50.00", f.MeanTotal.StringFixed(2))

	r, err := st.Report(ctx, testAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, r.Summary.TotalOrders)
	assert.Len(t, r.Sizes, 2)
	assert.Len(t, r.Congregations, 2)
	assert.Len(t, r.Batches, 1)

	_, err = st.Report(ctx, 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestFiguresEmpty(t *testing.T) {
	f, err := NewStatsService(setupTestDB(t)).Figures(context.Background(), testAdmin)
	require.NoError(t, err)
	assert.Zero(t, f.MeanQuantity)
	assert.True(t, f.MeanTotal.IsZero())
}

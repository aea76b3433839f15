package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiltersAreConjunctive(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOrderService(conn)
	seedFixture(t, svc)
	q := NewQueryService(conn)
	ctx := context.Background()
	for _, in := range []models.OrderInput{
		{Congregation: "SÃO JOSÉ", Size: models.SizeM, Quantity: 1},
		{Congregation: "Jardim Esperança", Size: models.SizeG, Quantity: 1},
	} {
		_, err := svc.Create(ctx, testAdmin, in)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{"empty", Filter{}, 5},
		{"congregation substring is case-insensitive", Filter{Congregation: "a"}, 3},
		{"size", Filter{Size: models.SizeM}, 3},
		{"status", Filter{PaymentStatus: models.PaymentPending}, 4},
		{"congregation and status", Filter{Congregation: "A", PaymentStatus: models.PaymentPending}, 2},
		{"congregation and size mismatch", Filter{Congregation: "B", Size: models.SizeM}, 0},
		{"like wildcards are literal", Filter{Congregation: "%"}, 0},
		{"accented uppercase term", Filter{Congregation: "SÃO"}, 1},
		{"accented lowercase term", Filter{Congregation: "são"}, 1},
		{"accented mixed case name", Filter{Congregation: "São José"}, 1},
		{"accented name other case", Filter{Congregation: "ESPERANÇA"}, 1},
		{"accented name and size", Filter{Congregation: "josé", Size: models.SizeM}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := q.List(ctx, testAdmin, tt.filter, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Total)
			assert.Len(t, page.Items, int(tt.want))
			for _, o := range page.Items {
				if tt.filter.Size != "" {
					assert.Equal(t, tt.filter.Size, o.Size)
				}
				if tt.filter.PaymentStatus != "" {
					assert.Equal(t, tt.filter.PaymentStatus, o.PaymentStatus)
				}
			}
		})
	}
}

func TestListBatchFilter(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOrderService(conn)
	ctx := context.Background()
	_, err := svc.CreateBatch(ctx, testAdmin, []models.OrderInput{
		{Congregation: "A", Size: models.SizeM, Quantity: 1, BatchNumber: models.BatchNumber(1)},
		{Congregation: "A", Size: models.SizeM, Quantity: 1, BatchNumber: models.BatchNumber(2)},
		{Congregation: "A", Size: models.SizeM, Quantity: 1},
	})
	require.NoError(t, err)

	page, err := NewQueryService(conn).List(ctx, testAdmin, Filter{BatchNumber: models.BatchNumber(2)}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.BatchNumber(2), page.Items[0].BatchNumber)
}

func TestListDateRangeIsInclusive(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	days := []time.Time{
		time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 11, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 8, 12, 8, 30, 0, 0, time.UTC),
		time.Date(2025, 8, 13, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range days {
		at := d
		svc := newOrderService(conn).WithClock(func() time.Time { return at })
		_, err := svc.Create(ctx, testAdmin, models.OrderInput{Congregation: "A", Size: models.SizeM, Quantity: 1})
		require.NoError(t, err)
	}
	q := NewQueryService(conn)

	from := time.Date(2025, 8, 11, 15, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	page, err := q.List(ctx, testAdmin, Filter{DateFrom: &from, DateTo: &to}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].CreatedAt.Equal(days[2]))
	assert.True(t, page.Items[1].CreatedAt.Equal(days[1]))

	page, err = q.List(ctx, testAdmin, Filter{DateFrom: &to}, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestListPaginationCoversEveryOrderOnce(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOrderService(conn)
	ctx := context.Background()
	const total = 45
	inputs := make([]models.OrderInput, total)
	for i := range inputs {
		inputs[i] = models.OrderInput{Congregation: fmt.Sprintf("C%02d", i), Size: models.SizeM, Quantity: 1}
	}
	// A batch shares one timestamp, so ordering falls back to the id tiebreaker.
	_, err := svc.CreateBatch(ctx, testAdmin, inputs)
	require.NoError(t, err)

	q := NewQueryService(conn)
	seen := make(map[uint]bool)
	var lastID uint
	for n := 1; ; n++ {
		page, err := q.List(ctx, testAdmin, Filter{}, n)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Pages)
		assert.Equal(t, PageSize, page.PerPage)
		if len(page.Items) == 0 {
			assert.Equal(t, 4, n)
			assert.False(t, page.HasNext())
			break
		}
		assert.Equal(t, n > 1, page.HasPrev())
		assert.Equal(t, n < 3, page.HasNext())
		for _, o := range page.Items {
			assert.False(t, seen[o.ID], "order %d listed twice", o.ID)
			if lastID != 0 {
				assert.Less(t, o.ID, lastID, "orders must be newest first")
			}
			seen[o.ID] = true
			lastID = o.ID
		}
	}
	assert.Len(t, seen, total)
}

func TestListClampsPageNumber(t *testing.T) {
	conn := setupTestDB(t)
	seedFixture(t, newOrderService(conn))
	page, err := NewQueryService(conn).List(context.Background(), testAdmin, Filter{}, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, []int{1}, page.Numbers())
}

func TestAllAndRecent(t *testing.T) {
	conn := setupTestDB(t)
	orders := seedFixture(t, newOrderService(conn))
	q := NewQueryService(conn)
	ctx := context.Background()

	all, err := q.All(ctx, testAdmin, Filter{Congregation: "A"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, orders[1].ID, all[0].ID)

	recent, err := q.Recent(ctx, testAdmin, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, orders[2].ID, recent[0].ID)
	assert.Equal(t, orders[1].ID, recent[1].ID)
}

func TestDistinctValues(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOrderService(conn)
	seedFixture(t, svc)
	_, err := svc.Create(context.Background(), testAdmin, models.OrderInput{Congregation: "A", Size: models.SizeP, Quantity: 1, BatchNumber: models.BatchNumber(3)})
	require.NoError(t, err)
	q := NewQueryService(conn)
	ctx := context.Background()

	congregations, err := q.DistinctValues(ctx, testAdmin, FieldCongregation)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, congregations)

	sizes, err := q.DistinctValues(ctx, testAdmin, FieldSize)
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "M", "P"}, sizes)

	batches, err := q.DistinctValues(ctx, testAdmin, FieldBatchNumber)
	require.NoError(t, err)
	assert.Equal(t, []string{"3rd batch"}, batches)

	_, err = q.DistinctValues(ctx, testAdmin, Field("notes; DROP TABLE orders"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = q.DistinctValues(ctx, 0, FieldSize)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

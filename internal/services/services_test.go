package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/shirt-orders/internal/db"
	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAdmin uint = 1

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

// stepClock returns a clock that advances one minute per call from start.
func stepClock(start time.Time) func() time.Time {
	cur := start.Add(-time.Minute)
	return func() time.Time {
		cur = cur.Add(time.Minute)
		return cur
	}
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func newOrderService(conn *gorm.DB) *OrderService {
	return NewOrderService(conn, decimal.NewFromInt(25)).
		WithClock(stepClock(time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)))
}

// seedFixture creates A/M/3, A/M/2 and B/G/1 at 25.00, the second one paid.
func seedFixture(t *testing.T, svc *OrderService) []*models.Order {
	t.Helper()
	inputs := []models.OrderInput{
		{Congregation: "A", Size: models.SizeM, Quantity: 3, UnitPrice: price("25")},
		{Congregation: "A", Size: models.SizeM, Quantity: 2, UnitPrice: price("25"), PaymentStatus: models.PaymentPaid, PaymentMethod: models.MethodPIX},
		{Congregation: "B", Size: models.SizeG, Quantity: 1, UnitPrice: price("25")},
	}
	out := make([]*models.Order, 0, len(inputs))
	for _, in := range inputs {
		o, err := svc.Create(context.Background(), testAdmin, in)
		require.NoError(t, err)
		out = append(out, o)
	}
	return out
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	ctx := context.Background()

	o, err := svc.Create(ctx, testAdmin, models.OrderInput{Congregation: "  Central ", Size: models.SizeM, Quantity: 2})
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.Equal(t, "Central", o.Congregation)
	assert.True(t, o.UnitPrice.Equal(decimal.NewFromInt(25)), "unit price = %s", o.UnitPrice)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(50)), "total = %s", o.TotalAmount)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	assert.Nil(t, o.PaymentDate)

	stored, err := svc.Get(ctx, testAdmin, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, stored.CreatedAt.Equal(o.CreatedAt))
}

func TestCreatePaidStampsPaymentDate(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	o, err := svc.Create(context.Background(), testAdmin, models.OrderInput{
		Congregation: "Central", Size: models.SizeG, Quantity: 1, UnitPrice: price("30"),
		PaymentStatus: models.PaymentPaid, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)
	require.NotNil(t, o.PaymentDate)
	assert.True(t, o.PaymentDate.Equal(o.CreatedAt))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOrderService(conn)
	_, err := svc.Create(context.Background(), testAdmin, models.OrderInput{Congregation: "", Size: "XXL", Quantity: 0, UnitPrice: price("0")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"congregation", "size", "quantity", "unit_price"} {
		assert.Contains(t, verr.Violations, field)
	}

	var count int64
	conn.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOperationsRequireAdmin(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	ctx := context.Background()
	in := models.OrderInput{Congregation: "A", Size: models.SizeM, Quantity: 1}

	_, err := svc.Create(ctx, 0, in)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Get(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Update(ctx, 0, 1, in)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(ctx, 0, 1), ErrUnauthenticated)
	_, err = svc.CreateBatch(ctx, 0, []models.OrderInput{in})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdatePaymentTransitions(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	ctx := context.Background()
	o, err := svc.Create(ctx, testAdmin, models.OrderInput{Congregation: "A", Size: models.SizeM, Quantity: 3, UnitPrice: price("25")})
	require.NoError(t, err)

	in := models.InputFromOrder(o)
	in.PaymentStatus = models.PaymentPaid
	in.PaymentMethod = models.MethodPIX
	paid, err := svc.Update(ctx, testAdmin, o.ID, in)
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentDate)
	firstPaid := *paid.PaymentDate
	assert.True(t, paid.UpdatedAt.Equal(firstPaid))

	// Paid -> Paid keeps the original payment date.
	in.Notes = "picked up"
	again, err := svc.Update(ctx, testAdmin, o.ID, in)
	require.NoError(t, err)
	require.NotNil(t, again.PaymentDate)
	assert.True(t, again.PaymentDate.Equal(firstPaid))
	assert.True(t, again.UpdatedAt.After(firstPaid))

	// Paid -> Pending clears it.
	in.PaymentStatus = models.PaymentPending
	pending, err := svc.Update(ctx, testAdmin, o.ID, in)
	require.NoError(t, err)
	assert.Nil(t, pending.PaymentDate)

	stored, err := svc.Get(ctx, testAdmin, o.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PaymentDate)
	assert.Equal(t, "picked up", stored.Notes)
	assert.True(t, stored.UpdatedAt.Equal(pending.UpdatedAt))
}

func TestUpdateRecalculatesTotal(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	ctx := context.Background()
	o, err := svc.Create(ctx, testAdmin, models.OrderInput{Congregation: "A", Size: models.SizeM, Quantity: 3, UnitPrice: price("25")})
	require.NoError(t, err)

	in := models.InputFromOrder(o)
	in.Quantity = 4
	in.UnitPrice = price("27.50")
	updated, err := svc.Update(ctx, testAdmin, o.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "110.00", updated.TotalAmount.StringFixed(2))

	stored, err := svc.Get(ctx, testAdmin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "110.00", stored.TotalAmount.StringFixed(2))
	assert.True(t, stored.CreatedAt.Equal(o.CreatedAt))
}

func TestUpdateRejectedLeavesOrderUntouched(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	ctx := context.Background()
	o, err := svc.Create(ctx, testAdmin, models.OrderInput{Congregation: "A", Size: models.SizeM, Quantity: 3, UnitPrice: price("25")})
	require.NoError(t, err)

	in := models.InputFromOrder(o)
	in.Quantity = 0
	_, err = svc.Update(ctx, testAdmin, o.ID, in)
	require.ErrorIs(t, err, ErrInvalidInput)

	stored, err := svc.Get(ctx, testAdmin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
	assert.True(t, stored.UpdatedAt.Equal(o.UpdatedAt))
}

func TestUpdateAndDeleteMissingOrder(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	ctx := context.Background()
	in := models.OrderInput{Congregation: "A", Size: models.SizeM, Quantity: 1, UnitPrice: price("25"), PaymentStatus: models.PaymentPending}

	_, err := svc.Update(ctx, testAdmin, 999, in)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, testAdmin, 999), ErrNotFound)
	_, err = svc.Get(ctx, testAdmin, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesOrder(t *testing.T) {
	svc := newOrderService(setupTestDB(t))
	ctx := context.Background()
	orders := seedFixture(t, svc)

	require.NoError(t, svc.Delete(ctx, testAdmin, orders[0].ID))
	_, err := svc.Get(ctx, testAdmin, orders[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, testAdmin, orders[0].ID), ErrNotFound)
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOrderService(conn)
	ctx := context.Background()

	inputs := []models.OrderInput{
		{Congregation: "A", Size: models.SizeM, Quantity: 1},
		{Congregation: "B", Size: models.SizeG, Quantity: 2},
		{Congregation: "C", Size: "XXXL", Quantity: 1},
	}
	_, err := svc.CreateBatch(ctx, testAdmin, inputs)
	require.Error(t, err)
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Row)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var count int64
	conn.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count, "failed batch must not leave rows behind")

	created, err := svc.CreateBatch(ctx, testAdmin, inputs[:2])
	require.NoError(t, err)
	require.Len(t, created, 2)
	conn.Model(&models.Order{}).Count(&count)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, "50.00", created[1].TotalAmount.StringFixed(2))
}

func TestWithClockStampsTimes(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewOrderService(setupTestDB(t), decimal.NewFromInt(25)).WithClock(func() time.Time { return at })
	o, err := svc.Create(context.Background(), testAdmin, models.OrderInput{Congregation: "A", Size: models.SizeP, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, o.CreatedAt.Equal(at))
	assert.True(t, o.OrderDate.Equal(at))
	assert.True(t, o.UpdatedAt.Equal(at))
}

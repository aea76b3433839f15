package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService owns every write to the orders table.
// Each call commits on its own; CreateBatch is the only multi-row operation.
type OrderService struct {
	db           *gorm.DB
	defaultPrice decimal.Decimal
	now          func() time.Time
}

func NewOrderService(db *gorm.DB, defaultPrice decimal.Decimal) *OrderService {
	return &OrderService{
		db:           db,
		defaultPrice: defaultPrice,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// WithClock replaces the time source (tests).
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// DefaultUnitPrice is applied to new orders submitted without a price.
func (s *OrderService) DefaultUnitPrice() decimal.Decimal {
	return s.defaultPrice
}

func (s *OrderService) withDefaults(in models.OrderInput) models.OrderInput {
	if !in.UnitPrice.Valid {
		in.UnitPrice = decimal.NewNullDecimal(s.defaultPrice)
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentPending
	}
	return in
}

// Create validates in and stores a new order.
func (s *OrderService) Create(ctx context.Context, adminID uint, in models.OrderInput) (*models.Order, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	o, err := models.NewOrder(s.withDefaults(in), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	zap.L().Info("order created",
		zap.Uint("order_id", o.ID),
		zap.Uint("admin_id", adminID),
		zap.String("congregation", o.Congregation),
		zap.String("total", o.TotalAmount.StringFixed(2)))
	return o, nil
}

// CreateBatch stores every input in one transaction.
// The first invalid row or storage failure aborts the batch and nothing is written;
// the returned error is a *RowError.
func (s *OrderService) CreateBatch(ctx context.Context, adminID uint, inputs []models.OrderInput) ([]models.Order, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	now := s.now()
	created := make([]models.Order, 0, len(inputs))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, in := range inputs {
			o, err := models.NewOrder(s.withDefaults(in), now)
			if err != nil {
				return &RowError{Row: i + 1, Err: err}
			}
			if err := tx.Create(o).Error; err != nil {
				return &RowError{Row: i + 1, Err: fmt.Errorf("insert order: %w", err)}
			}
			created = append(created, *o)
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("order batch rolled back", zap.Uint("admin_id", adminID), zap.Error(err))
		return nil, err
	}
	zap.L().Info("order batch created", zap.Uint("admin_id", adminID), zap.Int("count", len(created)))
	return created, nil
}

// Get loads a single order.
func (s *OrderService) Get(ctx context.Context, adminID, id uint) (*models.Order, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	return s.find(s.db.WithContext(ctx), id)
}

func (s *OrderService) find(db *gorm.DB, id uint) (*models.Order, error) {
	var o models.Order
	if err := db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &o, nil
}

// Update replaces every editable field of order id with in.
func (s *OrderService) Update(ctx context.Context, adminID, id uint, in models.OrderInput) (*models.Order, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	var updated *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.find(tx, id)
		if err != nil {
			return err
		}
		previous := o.PaymentStatus
		if err := o.Apply(in, s.now()); err != nil {
			return err
		}
		if err := tx.Save(o).Error; err != nil {
			return fmt.Errorf("update order %d: %w", id, err)
		}
		if previous != o.PaymentStatus {
			zap.L().Info("order payment status changed",
				zap.Uint("order_id", id),
				zap.String("from", string(previous)),
				zap.String("to", string(o.PaymentStatus)))
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("order updated", zap.Uint("order_id", id), zap.Uint("admin_id", adminID))
	return updated, nil
}

// Delete permanently removes order id.
func (s *OrderService) Delete(ctx context.Context, adminID, id uint) error {
	if err := requireAdmin(adminID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	zap.L().Info("order deleted", zap.Uint("order_id", id), zap.Uint("admin_id", adminID))
	return nil
}

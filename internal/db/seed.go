package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap administrator when no admin with that email exists.
// An existing account is never modified.
func EnsureAdmin(db *gorm.DB, email, name, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}
	var existing models.Admin
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.Admin{Email: email, Name: name, PasswordHash: string(hash)}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	zap.L().Info("bootstrap admin created", zap.String("email", email))
	return nil
}

// SampleOrders returns a small demo data set priced at price.
func SampleOrders(price decimal.Decimal) []models.OrderInput {
	p := decimal.NewNullDecimal(price)
	return []models.OrderInput{
		{Congregation: "Central", BatchNumber: models.BatchNumber(1), Size: models.SizeM, Quantity: 12, UnitPrice: p, PaymentStatus: models.PaymentPaid, PaymentMethod: models.MethodPIX},
		{Congregation: "Central", BatchNumber: models.BatchNumber(1), Size: models.SizeG, Quantity: 8, UnitPrice: p, PaymentStatus: models.PaymentPaid, PaymentMethod: models.MethodCash},
		{Congregation: "Vila Nova", BatchNumber: models.BatchNumber(1), Size: models.SizeP, Quantity: 5, UnitPrice: p, PaymentStatus: models.PaymentPending},
		{Congregation: "Vila Nova", BatchNumber: models.BatchNumber(2), Size: models.SizeGG, Quantity: 3, UnitPrice: p, PaymentStatus: models.PaymentPending},
		{Congregation: "Jardim Esperança", BatchNumber: models.BatchNumber(2), Size: models.Size6Years, Quantity: 4, UnitPrice: p, PaymentStatus: models.PaymentPaid, PaymentMethod: models.MethodBankTransfer},
		{Congregation: "Jardim Esperança", BatchNumber: models.BatchNumber(2), Size: models.SizeEXTG, Quantity: 2, UnitPrice: p, PaymentStatus: models.PaymentPending, Notes: "Entregar no culto de domingo"},
	}
}

// SeedSampleOrders inserts the demo data set in a single transaction.
// Either every order is stored or none is.
func SeedSampleOrders(ctx context.Context, db *gorm.DB, price decimal.Decimal, now time.Time) (int, error) {
	inputs := SampleOrders(price)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, in := range inputs {
			o, err := models.NewOrder(in, now)
			if err != nil {
				return fmt.Errorf("sample order %d: %w", i+1, err)
			}
			if err := tx.Create(o).Error; err != nil {
				return fmt.Errorf("insert sample order %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(inputs), nil
}

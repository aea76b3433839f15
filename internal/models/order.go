package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/shirt-orders/validation"
	"github.com/shopspring/decimal"
)

// Bounds enforced on every order write.
var (
	MinUnitPrice = decimal.RequireFromString("0.01")
	MaxUnitPrice = decimal.RequireFromString("1000.00")
)

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError lists the fields rejected by NewOrder or Apply.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, f := range e.Violations.Fields() {
		parts = append(parts, f+"="+e.Violations[f])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Order is a t-shirt order placed by a congregation.
// TotalAmount is always UnitPrice × Quantity and CongregationKey the folded
// Congregation; both are only written by NewOrder and Apply.
type Order struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Congregation    string     `gorm:"size:100;not null;index" json:"congregation"`
	CongregationKey string     `gorm:"size:100;not null;default:'';index" json:"-"`
	BatchNumber     Batch      `gorm:"size:20;index" json:"batch_number,omitempty"`
	BatchDate       *time.Time `json:"batch_date,omitempty"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	Size            Size       `gorm:"size:10;not null;index" json:"size"`
	Quantity        int        `gorm:"not null;default:1" json:"quantity"`

	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	PaymentStatus PaymentStatus `gorm:"size:20;not null;default:'Pending';index" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"size:50" json:"payment_method,omitempty"`
	OrderDate     time.Time     `gorm:"not null" json:"order_date"`
	// PaymentDate is stamped on the transition into Paid and cleared when the order goes back to Pending.
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// OrderInput carries every editable order field as submitted by the order form.
// UnitPrice is null when the caller did not provide one.
type OrderInput struct {
	Congregation  string              `form:"congregation" validate:"required,max=100"`
	BatchNumber   Batch               `form:"batch_number" validate:"omitempty,enum"`
	BatchDate     *time.Time          `form:"batch_date"`
	DeliveryDate  *time.Time          `form:"delivery_date"`
	Size          Size                `form:"size" validate:"required,enum"`
	Quantity      int                 `form:"quantity" validate:"min=1,max=1000"`
	UnitPrice     decimal.NullDecimal `form:"unit_price"`
	PaymentStatus PaymentStatus       `form:"payment_status" validate:"required,enum"`
	PaymentMethod PaymentMethod       `form:"payment_method" validate:"omitempty,enum"`
	Notes         string              `form:"notes" validate:"max=500"`
}

// InputFromOrder returns the form payload that reproduces o.
func InputFromOrder(o *Order) OrderInput {
	return OrderInput{
		Congregation:  o.Congregation,
		BatchNumber:   o.BatchNumber,
		BatchDate:     o.BatchDate,
		DeliveryDate:  o.DeliveryDate,
		Size:          o.Size,
		Quantity:      o.Quantity,
		UnitPrice:     decimal.NewNullDecimal(o.UnitPrice),
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
	}
}

func (in OrderInput) normalized() OrderInput {
	in.Congregation = strings.TrimSpace(in.Congregation)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.UnitPrice.Valid {
		in.UnitPrice.Decimal = in.UnitPrice.Decimal.Round(2)
	}
	return in
}

// Validate checks ranges, lengths and enum membership of every field.
func (in OrderInput) Validate() validation.Violations {
	v := make(validation.Violations)
	if err := validation.Struct(in, v); err != nil {
		v["form"] = "invalid"
	}
	if !in.UnitPrice.Valid {
		v["unit_price"] = "required"
	} else {
		validation.RangeDecimal("unit_price", in.UnitPrice.Decimal, MinUnitPrice, MaxUnitPrice, v)
	}
	return v
}

// NewOrder validates in and builds a new order stamped at now.
// An empty payment status defaults to Pending; an order created Paid gets PaymentDate = now.
func NewOrder(in OrderInput, now time.Time) (*Order, error) {
	in = in.normalized()
	if in.PaymentStatus == "" {
		in.PaymentStatus = PaymentPending
	}
	if v := in.Validate(); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	o := &Order{OrderDate: now, CreatedAt: now}
	o.assign(in, now)
	if o.PaymentStatus == PaymentPaid {
		paid := now
		o.PaymentDate = &paid
	}
	return o, nil
}

// Apply replaces every editable field of o with in (full replace, not a patch).
// On a validation error o is left untouched.
func (o *Order) Apply(in OrderInput, now time.Time) error {
	in = in.normalized()
	if v := in.Validate(); !v.Empty() {
		return &ValidationError{Violations: v}
	}
	previous := o.PaymentStatus
	o.assign(in, now)
	switch {
	case o.PaymentStatus == PaymentPaid && previous != PaymentPaid:
		paid := now
		o.PaymentDate = &paid
	case o.PaymentStatus == PaymentPending:
		o.PaymentDate = nil
	}
	return nil
}

func (o *Order) assign(in OrderInput, now time.Time) {
	o.Congregation = in.Congregation
	o.CongregationKey = CongregationKey(in.Congregation)
	o.BatchNumber = in.BatchNumber
	o.BatchDate = in.BatchDate
	o.DeliveryDate = in.DeliveryDate
	o.Size = in.Size
	o.Quantity = in.Quantity
	o.UnitPrice = in.UnitPrice.Decimal
	o.PaymentStatus = in.PaymentStatus
	o.PaymentMethod = in.PaymentMethod
	o.Notes = in.Notes
	o.RecalculateTotal()
	o.UpdatedAt = now
}

// CongregationKey returns the search key stored for a congregation name.
func CongregationKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RecalculateTotal sets TotalAmount to UnitPrice × Quantity and returns it.
func (o *Order) RecalculateTotal() decimal.Decimal {
	o.TotalAmount = o.UnitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))
	return o.TotalAmount
}

// IsPaid reports whether the order is settled.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentPaid
}

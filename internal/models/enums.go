package models

import (
	"fmt"
	"slices"
)

// Size is a t-shirt size label.
type Size string

const (
	SizePP      Size = "PP"
	SizeP       Size = "P"
	SizeM       Size = "M"
	SizeG       Size = "G"
	SizeGG      Size = "GG"
	SizeEXTG    Size = "EXTG"
	SizeEXTGG   Size = "EXTGG"
	Size2Years  Size = "2 years"
	Size4Years  Size = "4 years"
	Size6Years  Size = "6 years"
	Size8Years  Size = "8 years"
	Size10Years Size = "10 years"
)

// Sizes lists every accepted size in display order (adult sizes first, then age-based).
var Sizes = []Size{
	SizePP, SizeP, SizeM, SizeG, SizeGG, SizeEXTG, SizeEXTGG,
	Size2Years, Size4Years, Size6Years, Size8Years, Size10Years,
}

func (s Size) IsValid() bool { return slices.Contains(Sizes, s) }

// Rank is the position of s in Sizes, or len(Sizes) for unknown labels.
func (s Size) Rank() int {
	if i := slices.Index(Sizes, s); i >= 0 {
		return i
	}
	return len(Sizes)
}

// PaymentStatus of an order. Both states are reachable from each other.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid}

func (s PaymentStatus) IsValid() bool { return slices.Contains(PaymentStatuses, s) }

// PaymentMethod used to settle an order.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodCreditCard   PaymentMethod = "Credit Card"
	MethodDebitCard    PaymentMethod = "Debit Card"
	MethodPIX          PaymentMethod = "PIX"
)

var PaymentMethods = []PaymentMethod{MethodCash, MethodBankTransfer, MethodCreditCard, MethodDebitCard, MethodPIX}

func (m PaymentMethod) IsValid() bool { return slices.Contains(PaymentMethods, m) }

// Batch labels a delivery round ("1st batch", "2nd batch", ...).
type Batch string

// MaxBatches bounds the batch catalog.
const MaxBatches = 6

// Batches lists every accepted batch label in delivery order.
var Batches = func() []Batch {
	out := make([]Batch, 0, MaxBatches)
	for n := 1; n <= MaxBatches; n++ {
		out = append(out, BatchNumber(n))
	}
	return out
}()

// BatchNumber returns the ordinal label for the n-th batch.
func BatchNumber(n int) Batch {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return Batch(fmt.Sprintf("%d%s batch", n, suffix))
}

func (b Batch) IsValid() bool { return slices.Contains(Batches, b) }

// Rank is the position of b in Batches; unbatched and unknown labels sort last.
func (b Batch) Rank() int {
	if i := slices.Index(Batches, b); i >= 0 {
		return i
	}
	return len(Batches)
}

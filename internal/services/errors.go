package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/shirt-orders/internal/models"
)

var (
	// ErrInvalidInput is returned (wrapped in *models.ValidationError) when a field is rejected.
	ErrInvalidInput = models.ErrInvalidInput
	// ErrNotFound is returned when the referenced order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrUnauthenticated is returned when no admin identity was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// RowError locates a failure inside a bulk insert. Row is 1-based.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

func requireAdmin(adminID uint) error {
	if adminID == 0 {
		return ErrUnauthenticated
	}
	return nil
}

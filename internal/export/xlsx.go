package export

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/diewo77/shirt-orders/internal/models"
)

const sheetName = "Orders"

// WriteXLSX writes the same columns as WriteCSV into a single-sheet workbook.
func (e *Exporter) WriteXLSX(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(1), sheetName)
	for col, label := range Header {
		f.SetCellValue(sheetName, cell(col, 1), label)
	}
	for i, r := range e.Rows(orders) {
		line := i + 2
		values := []interface{}{
			r.ID, r.Congregation, r.Size, r.Quantity, r.UnitPrice, r.TotalAmount,
			r.PaymentStatus, r.PaymentMethod, r.OrderDate, r.PaymentDate, r.Notes,
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(col, line), v)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// cell converts a 0-based column and 1-based row to an A1 reference.
func cell(col, row int) string {
	return fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row)
}

// Package export writes order listings as spreadsheet-friendly files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

const (
	// DateLayout renders timestamps as DD/MM/YYYY HH:MM.
	DateLayout = "02/01/2006 15:04"
	bom        = "\ufeff"
)

// Row is one exported order. Column labels come from the csv tags.
type Row struct {
	ID            uint   `csv:"ID"`
	Congregation  string `csv:"Congregation"`
	Size          string `csv:"Size"`
	Quantity      int    `csv:"Quantity"`
	UnitPrice     string `csv:"Unit Price"`
	TotalAmount   string `csv:"Total Amount"`
	PaymentStatus string `csv:"Payment Status"`
	PaymentMethod string `csv:"Payment Method"`
	OrderDate     string `csv:"Order Date"`
	PaymentDate   string `csv:"Payment Date"`
	Notes         string `csv:"Notes"`
}

// Header lists the exported column labels in order.
var Header = []string{
	"ID", "Congregation", "Size", "Quantity", "Unit Price", "Total Amount",
	"Payment Status", "Payment Method", "Order Date", "Payment Date", "Notes",
}

// Exporter renders orders with a currency symbol and a display time zone.
type Exporter struct {
	Symbol   string
	Location *time.Location
}

func New(symbol string, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{Symbol: symbol, Location: loc}
}

func (e *Exporter) money(d decimal.Decimal) string {
	return e.Symbol + " " + d.StringFixed(2)
}

func (e *Exporter) date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(e.Location).Format(DateLayout)
}

// Rows converts orders to export rows, preserving their order.
func (e *Exporter) Rows(orders []models.Order) []Row {
	rows := make([]Row, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		rows = append(rows, Row{
			ID:            o.ID,
			Congregation:  o.Congregation,
			Size:          string(o.Size),
			Quantity:      o.Quantity,
			UnitPrice:     e.money(o.UnitPrice),
			TotalAmount:   e.money(o.TotalAmount),
			PaymentStatus: string(o.PaymentStatus),
			PaymentMethod: string(o.PaymentMethod),
			OrderDate:     e.date(&o.OrderDate),
			PaymentDate:   e.date(o.PaymentDate),
			Notes:         o.Notes,
		})
	}
	return rows
}

// WriteCSV writes a UTF-8 BOM followed by the header row and one row per order.
func (e *Exporter) WriteCSV(w io.Writer, orders []models.Order) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	if err := gocsv.Marshal(e.Rows(orders), w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename returns orders_<YYYYMMDD>_<HHMMSS>.<ext> for now.
func Filename(now time.Time, ext string) string {
	return "orders_" + now.Format("20060102_150405") + "." + ext
}

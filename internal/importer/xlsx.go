// Package importer loads orders from the campaign's order workbook.
//
// The workbook lists congregations per delivery round: a row mentioning "LOTE <n>"
// opens batch n, a header row naming the congregation column maps the remaining
// columns to sizes, and each following row holds one congregation's quantity per size.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/diewo77/shirt-orders/internal/services"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

var (
	ErrNoHeader = errors.New("no congregation header row found")
	ErrNoOrders = errors.New("workbook contains no orders")
)

// Line is one order parsed from the sheet. Row is the 1-based sheet row.
type Line struct {
	Row   int
	Input models.OrderInput
}

// ParseError points at the sheet row that could not be read.
type ParseError struct {
	Row int
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("sheet row %d: %s", e.Row, e.Msg) }

var (
	batchRe = regexp.MustCompile(`(?i)\bLOTE\s*(\d+)`)
	ageRe   = regexp.MustCompile(`^(\d+)\s*(ANOS?|YEARS?|A)?$`)
)

var sizeAliases = map[string]models.Size{
	"XG":   models.SizeEXTG,
	"EXG":  models.SizeEXTG,
	"XGG":  models.SizeEXTGG,
	"EXGG": models.SizeEXTGG,
}

// SizeFromHeader maps a column label such as "GG", "EXG" or "2 ANOS" to a size.
func SizeFromHeader(label string) (models.Size, bool) {
	l := strings.ToUpper(strings.Join(strings.Fields(label), " "))
	if l == "" {
		return "", false
	}
	if s := models.Size(l); s.IsValid() {
		return s, true
	}
	if s, ok := sizeAliases[l]; ok {
		return s, true
	}
	if m := ageRe.FindStringSubmatch(l); m != nil {
		s := models.Size(m[1] + " years")
		return s, s.IsValid()
	}
	return "", false
}

func isCongregationHeader(cell string) bool {
	c := strings.ToUpper(strings.TrimSpace(cell))
	return strings.HasPrefix(c, "CONGREGAÇÃO") || strings.HasPrefix(c, "CONGREGACAO") || strings.HasPrefix(c, "CONGREGATION")
}

func isTotalRow(name string) bool {
	return strings.HasPrefix(strings.ToUpper(name), "TOTAL")
}

// ParseRows turns raw sheet rows into order lines. Every line carries status Pending
// and no unit price, so the configured default applies on insert.
func ParseRows(rows [][]string) ([]Line, error) {
	var (
		lines   []Line
		batch   models.Batch
		nameCol = -1
		sizeCol map[int]models.Size
	)
	for i, row := range rows {
		rowNum := i + 1
		if b, ok, err := batchMarker(row, rowNum); err != nil {
			return nil, err
		} else if ok {
			batch = b
			continue
		}
		if col := headerColumn(row); col >= 0 {
			nameCol = col
			sizeCol = make(map[int]models.Size)
			for c, label := range row {
				if s, ok := SizeFromHeader(label); ok && c != col {
					sizeCol[c] = s
				}
			}
			if len(sizeCol) == 0 {
				return nil, &ParseError{Row: rowNum, Msg: "header row has no size columns"}
			}
			continue
		}
		if nameCol < 0 || nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" || isTotalRow(name) {
			continue
		}
		cols := make([]int, 0, len(sizeCol))
		for c := range sizeCol {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				continue
			}
			qty, err := cast.ToFloat64E(strings.TrimSpace(row[c]))
			if err != nil {
				return nil, &ParseError{Row: rowNum, Msg: fmt.Sprintf("quantity %q for size %s is not a number", row[c], sizeCol[c])}
			}
			if qty <= 0 {
				continue
			}
			if qty != float64(int(qty)) {
				return nil, &ParseError{Row: rowNum, Msg: fmt.Sprintf("quantity %q for size %s is not a whole number", row[c], sizeCol[c])}
			}
			lines = append(lines, Line{Row: rowNum, Input: models.OrderInput{
				Congregation:  name,
				BatchNumber:   batch,
				Size:          sizeCol[c],
				Quantity:      int(qty),
				PaymentStatus: models.PaymentPending,
			}})
		}
	}
	if nameCol < 0 {
		return nil, ErrNoHeader
	}
	return lines, nil
}

func batchMarker(row []string, rowNum int) (models.Batch, bool, error) {
	for _, cell := range row {
		m := batchRe.FindStringSubmatch(cell)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		if n < 1 || n > models.MaxBatches {
			return "", false, &ParseError{Row: rowNum, Msg: fmt.Sprintf("batch %d is out of range 1-%d", n, models.MaxBatches)}
		}
		return models.BatchNumber(n), true, nil
	}
	return "", false, nil
}

func headerColumn(row []string) int {
	for c, cell := range row {
		if isCongregationHeader(cell) {
			return c
		}
	}
	return -1
}

// ReadWorkbook parses the first sheet of an xlsx workbook.
func ReadWorkbook(r io.Reader) ([]Line, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheets := f.GetSheetMap()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	first := -1
	for idx := range sheets {
		if first < 0 || idx < first {
			first = idx
		}
	}
	return ParseRows(f.GetRows(sheets[first]))
}

// Result summarizes a completed import.
type Result struct {
	Created  int
	Quantity int
	Batches  []models.Batch
}

// Importer stores parsed workbooks through the order service.
type Importer struct {
	orders *services.OrderService
}

func New(orders *services.OrderService) *Importer {
	return &Importer{orders: orders}
}

// Import parses r and inserts every order in one transaction.
// A failing row aborts the whole import; the error names its sheet row.
func (im *Importer) Import(ctx context.Context, adminID uint, r io.Reader) (*Result, error) {
	lines, err := ReadWorkbook(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoOrders
	}
	inputs := make([]models.OrderInput, len(lines))
	for i, l := range lines {
		inputs[i] = l.Input
	}
	created, err := im.orders.CreateBatch(ctx, adminID, inputs)
	if err != nil {
		var rowErr *services.RowError
		if errors.As(err, &rowErr) && rowErr.Row >= 1 && rowErr.Row <= len(lines) {
			return nil, fmt.Errorf("sheet row %d: %w", lines[rowErr.Row-1].Row, rowErr.Err)
		}
		return nil, err
	}

	res := &Result{Created: len(created)}
	seen := make(map[models.Batch]bool)
	for _, o := range created {
		res.Quantity += o.Quantity
		if o.BatchNumber != "" && !seen[o.BatchNumber] {
			seen[o.BatchNumber] = true
			res.Batches = append(res.Batches, o.BatchNumber)
		}
	}
	zap.L().Info("workbook imported",
		zap.Uint("admin_id", adminID),
		zap.Int("orders", res.Created),
		zap.Int("quantity", res.Quantity))
	return res, nil
}

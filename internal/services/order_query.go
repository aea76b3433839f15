package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/shirt-orders/internal/models"
	"gorm.io/gorm"
)

// PageSize is the number of orders per listing page.
const PageSize = 20

// Filter narrows an order listing. Zero-valued fields do not constrain.
// DateFrom and DateTo are calendar days in their own location, both inclusive.
type Filter struct {
	Congregation  string
	Size          models.Size
	PaymentStatus models.PaymentStatus
	BatchNumber   models.Batch
	DateFrom      *time.Time
	DateTo        *time.Time
}

// IsEmpty reports whether f matches every order.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Congregation) == "" && f.Size == "" && f.PaymentStatus == "" &&
		f.BatchNumber == "" && f.DateFrom == nil && f.DateTo == nil
}

// Page is one slice of a filtered listing.
type Page struct {
	Items   []models.Order
	Page    int
	PerPage int
	Total   int64
	Pages   int
}

func (p *Page) HasPrev() bool { return p.Page > 1 }
func (p *Page) HasNext() bool { return p.Page < p.Pages }
func (p *Page) PrevNum() int  { return p.Page - 1 }
func (p *Page) NextNum() int  { return p.Page + 1 }

// Numbers returns the page numbers shown around the current one.
func (p *Page) Numbers() []int {
	const window = 2
	lo, hi := max(1, p.Page-window), min(p.Pages, p.Page+window)
	out := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	return out
}

// Field is a column whose distinct values feed the listing filters.
type Field string

const (
	FieldCongregation Field = "congregation"
	FieldSize         Field = "size"
	FieldBatchNumber  Field = "batch_number"
)

// QueryService answers read-only listing questions.
type QueryService struct {
	db *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *QueryService) scope(ctx context.Context, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if c := strings.TrimSpace(f.Congregation); c != "" {
		q = q.Where(`congregation_key LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(models.CongregationKey(c))+"%")
	}
	if f.Size != "" {
		q = q.Where("size = ?", f.Size)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.BatchNumber != "" {
		q = q.Where("batch_number = ?", f.BatchNumber)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", startOfDay(*f.DateFrom).UTC())
	}
	if f.DateTo != nil {
		q = q.Where("created_at < ?", startOfDay(*f.DateTo).AddDate(0, 0, 1).UTC())
	}
	return q
}

func newestFirst(q *gorm.DB) *gorm.DB {
	return q.Order("created_at DESC").Order("id DESC")
}

// List returns page n (1-based) of the orders matching f, newest first.
// Pages past the end are empty; n < 1 is treated as 1.
func (s *QueryService) List(ctx context.Context, adminID uint, f Filter, n int) (*Page, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}
	var total int64
	if err := s.scope(ctx, f).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	items := make([]models.Order, 0, PageSize)
	if err := newestFirst(s.scope(ctx, f)).Limit(PageSize).Offset((n - 1) * PageSize).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &Page{
		Items:   items,
		Page:    n,
		PerPage: PageSize,
		Total:   total,
		Pages:   int((total + PageSize - 1) / PageSize),
	}, nil
}

// All returns every order matching f, newest first.
func (s *QueryService) All(ctx context.Context, adminID uint, f Filter) ([]models.Order, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	var items []models.Order
	if err := newestFirst(s.scope(ctx, f)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return items, nil
}

// Recent returns the n most recently created orders.
func (s *QueryService) Recent(ctx context.Context, adminID uint, n int) ([]models.Order, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	var items []models.Order
	if err := newestFirst(s.db.WithContext(ctx)).Limit(n).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	return items, nil
}

// DistinctValues returns the sorted set of non-empty values stored in field.
func (s *QueryService) DistinctValues(ctx context.Context, adminID uint, field Field) ([]string, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	col := string(field)
	switch field {
	case FieldCongregation, FieldSize, FieldBatchNumber:
	default:
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	var values []string
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where(col + " IS NOT NULL AND " + col + " <> ''").
		Distinct().
		Pluck(col, &values).Error
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col, err)
	}
	sort.Strings(values)
	return values, nil
}

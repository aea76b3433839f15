package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/diewo77/shirt-orders/internal/models"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Summary is the headline figures over every order.
type Summary struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaidOrders    int64           `json:"paid_orders"`
	// PaymentRate is the percentage of orders marked Paid, 0 when there are none.
	PaymentRate float64 `json:"payment_rate"`
}

type SizeCount struct {
	Size     models.Size `json:"size"`
	Quantity int64       `json:"quantity"`
}

type CongregationTotal struct {
	Congregation string          `json:"congregation"`
	Quantity     int64           `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
}

// BatchTotal groups orders by delivery round; Batch is empty for unbatched orders.
type BatchTotal struct {
	Batch    models.Batch    `json:"batch"`
	Orders   int64           `json:"orders"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// OrderFigures describes the spread of order sizes.
type OrderFigures struct {
	MeanQuantity   float64         `json:"mean_quantity"`
	MedianQuantity float64         `json:"median_quantity"`
	MaxQuantity    float64         `json:"max_quantity"`
	MeanTotal      decimal.Decimal `json:"mean_total"`
}

// Report bundles every aggregate shown on the reports page.
type Report struct {
	Summary       Summary             `json:"summary"`
	Sizes         []SizeCount         `json:"sizes"`
	Congregations []CongregationTotal `json:"congregations"`
	Batches       []BatchTotal        `json:"batches"`
	Figures       OrderFigures        `json:"figures"`
}

// StatsService computes aggregates over the whole orders table.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Summary returns order counts, revenue and the payment rate.
func (s *StatsService) Summary(ctx context.Context, adminID uint) (Summary, error) {
	if err := requireAdmin(adminID); err != nil {
		return Summary{}, err
	}
	var row struct {
		TotalOrders   int64
		TotalQuantity int64
		TotalRevenue  decimal.Decimal
		PendingAmount decimal.Decimal
		PaidOrders    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).Select(
		"COUNT(*) AS total_orders, "+
			"COALESCE(SUM(quantity), 0) AS total_quantity, "+
			"COALESCE(SUM(CASE WHEN payment_status = ? THEN total_amount ELSE 0 END), 0) AS total_revenue, "+
			"COALESCE(SUM(CASE WHEN payment_status = ? THEN total_amount ELSE 0 END), 0) AS pending_amount, "+
			"COALESCE(SUM(CASE WHEN payment_status = ? THEN 1 ELSE 0 END), 0) AS paid_orders",
		models.PaymentPaid, models.PaymentPending, models.PaymentPaid,
	).Scan(&row).Error
	if err != nil {
		return Summary{}, fmt.Errorf("summary stats: %w", err)
	}
	out := Summary{
		TotalOrders:   row.TotalOrders,
		TotalQuantity: row.TotalQuantity,
		TotalRevenue:  row.TotalRevenue.Round(2),
		PendingAmount: row.PendingAmount.Round(2),
		PaidOrders:    row.PaidOrders,
	}
	if out.TotalOrders > 0 {
		out.PaymentRate = float64(out.PaidOrders) / float64(out.TotalOrders) * 100
	}
	return out, nil
}

// SizeDistribution sums quantities per size, in catalog order.
func (s *StatsService) SizeDistribution(ctx context.Context, adminID uint) ([]SizeCount, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	var rows []SizeCount
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("size, COALESCE(SUM(quantity), 0) AS quantity").
		Group("size").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("size distribution: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].Size.Rank(), rows[j].Size.Rank()
		if ri != rj {
			return ri < rj
		}
		return rows[i].Size < rows[j].Size
	})
	return rows, nil
}

// CongregationDistribution sums quantity and amount (all statuses) per congregation, by name.
func (s *StatsService) CongregationDistribution(ctx context.Context, adminID uint) ([]CongregationTotal, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	var rows []CongregationTotal
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("congregation, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(total_amount), 0) AS amount").
		Group("congregation").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("congregation distribution: %w", err)
	}
	for i := range rows {
		rows[i].Amount = rows[i].Amount.Round(2)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Congregation < rows[j].Congregation })
	return rows, nil
}

// BatchDistribution groups orders per batch in delivery order; unbatched orders come last.
func (s *StatsService) BatchDistribution(ctx context.Context, adminID uint) ([]BatchTotal, error) {
	if err := requireAdmin(adminID); err != nil {
		return nil, err
	}
	var rows []BatchTotal
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(batch_number, '') AS batch, COUNT(*) AS orders, " +
			"COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(total_amount), 0) AS amount").
		Group("COALESCE(batch_number, '')").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("batch distribution: %w", err)
	}
	for i := range rows {
		rows[i].Amount = rows[i].Amount.Round(2)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].Batch.Rank(), rows[j].Batch.Rank()
		if ri != rj {
			return ri < rj
		}
		return rows[i].Batch < rows[j].Batch
	})
	return rows, nil
}

// Figures computes mean, median and max quantity per order and the mean order total.
func (s *StatsService) Figures(ctx context.Context, adminID uint) (OrderFigures, error) {
	if err := requireAdmin(adminID); err != nil {
		return OrderFigures{}, err
	}
	var rows []struct {
		Quantity    int
		TotalAmount decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Select("quantity, total_amount").Scan(&rows).Error; err != nil {
		return OrderFigures{}, fmt.Errorf("order figures: %w", err)
	}
	if len(rows) == 0 {
		return OrderFigures{MeanTotal: decimal.Zero}, nil
	}
	qty := make(stats.Float64Data, len(rows))
	sum := decimal.Zero
	for i, r := range rows {
		qty[i] = float64(r.Quantity)
		sum = sum.Add(r.TotalAmount)
	}
	var out OrderFigures
	var err error
	if out.MeanQuantity, err = stats.Mean(qty); err != nil {
		return OrderFigures{}, err
	}
	if out.MedianQuantity, err = stats.Median(qty); err != nil {
		return OrderFigures{}, err
	}
	if out.MaxQuantity, err = stats.Max(qty); err != nil {
		return OrderFigures{}, err
	}
	out.MeanTotal = sum.Div(decimal.NewFromInt(int64(len(rows)))).Round(2)
	return out, nil
}

// Report gathers every aggregate for the reports page and the JSON endpoint.
func (s *StatsService) Report(ctx context.Context, adminID uint) (*Report, error) {
	var (
		r   Report
		err error
	)
	if r.Summary, err = s.Summary(ctx, adminID); err != nil {
		return nil, err
	}
	if r.Sizes, err = s.SizeDistribution(ctx, adminID); err != nil {
		return nil, err
	}
	if r.Congregations, err = s.CongregationDistribution(ctx, adminID); err != nil {
		return nil, err
	}
	if r.Batches, err = s.BatchDistribution(ctx, adminID); err != nil {
		return nil, err
	}
	if r.Figures, err = s.Figures(ctx, adminID); err != nil {
		return nil, err
	}
	return &r, nil
}

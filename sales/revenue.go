/*
revenue.go - Revenue aggregation over the sales ledger

PURPOSE:
  Pure computation over Sale rows: period bucketing and two-period
  comparison. Sums are exact decimals; a sum over zero matching sales is 0,
  never an error.

WHY IN GO, NOT SQL:
  The store runs on two SQL dialects with no shared ISO-week formatter, and
  summing price columns in SQL would coerce decimals through floats.
  Replaying the filtered ledger with decimal arithmetic keeps both dialects
  honest and the cents exact.
*/
package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodRevenue is one bucket row of a revenue report.
type PeriodRevenue struct {
	Period       string          `json:"period"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// RangeRevenue is the revenue summed over one inclusive date range.
type RangeRevenue struct {
	Start   time.Time
	End     time.Time
	Revenue decimal.Decimal
}

// RevenueComparison holds two independent range sums and their signed
// difference (period 2 minus period 1: positive means growth).
type RevenueComparison struct {
	Period1    RangeRevenue
	Period2    RangeRevenue
	Difference decimal.Decimal
	Category   string
}

// RevenueByPeriod buckets sales by the given period and sums total_price
// per bucket. Sales are optionally pre-filtered by the inclusive
// [start, end] range. Rows come back ordered chronologically.
func (s *Service) RevenueByPeriod(ctx context.Context, periodStr string, start, end *time.Time) ([]PeriodRevenue, error) {
	period, err := ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}

	key := reportKey(period, start, end)
	var cached []PeriodRevenue
	if hit, err := s.reports.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	all, err := s.store.ListSales(ctx, Filter{StartDate: start, EndDate: end})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	type bucket struct {
		label string
		total decimal.Decimal
	}
	buckets := make(map[int]*bucket)
	for _, sale := range all {
		k := period.bucketKey(sale.SaleDate)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{label: period.Label(sale.SaleDate), total: decimal.Zero}
			buckets[k] = b
		}
		b.total = b.total.Add(sale.TotalPrice)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	rows := make([]PeriodRevenue, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, PeriodRevenue{
			Period:       buckets[k].label,
			TotalRevenue: buckets[k].total,
		})
	}

	// Best-effort; a cache failure never fails the report.
	_ = s.reports.Set(ctx, key, rows)

	return rows, nil
}

// CompareRevenue sums total_price over two independent inclusive date
// ranges, each joined to the catalog when a category filter is given, and
// returns both sums with difference = revenue2 - revenue1.
func (s *Service) CompareRevenue(ctx context.Context, start1, end1, start2, end2 time.Time, category string) (*RevenueComparison, error) {
	revenue1, err := s.sumRange(ctx, start1, end1, category)
	if err != nil {
		return nil, err
	}
	revenue2, err := s.sumRange(ctx, start2, end2, category)
	if err != nil {
		return nil, err
	}

	return &RevenueComparison{
		Period1:    RangeRevenue{Start: start1, End: end1, Revenue: revenue1},
		Period2:    RangeRevenue{Start: start2, End: end2, Revenue: revenue2},
		Difference: revenue2.Sub(revenue1),
		Category:   category,
	}, nil
}

func (s *Service) sumRange(ctx context.Context, start, end time.Time, category string) (decimal.Decimal, error) {
	matching, err := s.store.ListSales(ctx, Filter{
		StartDate: &start,
		EndDate:   &end,
		Category:  category,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("list sales: %w", err)
	}

	total := decimal.Zero
	for _, sale := range matching {
		total = total.Add(sale.TotalPrice)
	}
	return total, nil
}

func reportKey(period Period, start, end *time.Time) string {
	formatBound := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("revenue:%s:%s:%s", period, formatBound(start), formatBound(end))
}

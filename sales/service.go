/*
service.go - Sales record operations

PURPOSE:
  Appends sales to the ledger and serves filtered listings. Recording a sale
  does NOT mutate stock: sales and stock mutations are independent entry
  points, and keeping them consistent is a caller-level orchestration choice
  (the demo seeder does exactly that).

SEE ALSO:
  - revenue.go: aggregation over the ledger
*/
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harib475/ecom-analytics/cache"
	"github.com/harib475/ecom-analytics/catalog"
)

// Service implements sales recording, listing, and revenue reporting.
type Service struct {
	store   Store
	reports *cache.ReportCache
	now     func() time.Time
}

// NewService creates a sales service. reports may be nil to disable report
// caching.
func NewService(store Store, reports *cache.ReportCache) *Service {
	return &Service{store: store, reports: reports, now: time.Now}
}

// WithClock overrides the time source. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordSaleInput carries the caller-supplied attributes of a sale.
// SaleDate defaults to the current time when nil.
type RecordSaleInput struct {
	ProductID  int64
	Quantity   int64
	TotalPrice decimal.Decimal
	SaleDate   *time.Time
}

// RecordSale appends one sale. Quantity must be positive and the product
// must exist; total price is accepted as given - it is a point-in-time
// snapshot, not derived from the product's current price.
func (s *Service) RecordSale(ctx context.Context, in RecordSaleInput) (*Sale, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidSale)
	}
	if in.TotalPrice.IsNegative() {
		return nil, fmt.Errorf("%w: total price must not be negative", ErrInvalidSale)
	}

	exists, err := s.store.ProductExists(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, catalog.ErrProductNotFound
	}

	saleDate := s.now().UTC()
	if in.SaleDate != nil {
		saleDate = in.SaleDate.UTC()
	}

	sale := &Sale{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		TotalPrice: in.TotalPrice,
		SaleDate:   saleDate,
	}
	if err := s.store.InsertSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}
	return sale, nil
}

// ListSales returns sales matching the filter, in insertion order. A
// negative skip or limit is malformed input; a zero limit means unbounded.
func (s *Service) ListSales(ctx context.Context, f Filter) ([]Sale, error) {
	if f.Skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", ErrInvalidSale)
	}
	if f.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidSale)
	}
	result, err := s.store.ListSales(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if result == nil {
		result = []Sale{}
	}
	return result, nil
}

/*
Package sales holds the immutable sales record and the revenue aggregator.

PURPOSE:
  Sales are an append-only historical ledger: once recorded, a sale is never
  modified or deleted by any operation here. Revenue reporting is pure
  computation over that ledger - period bucketing, filtering, and two-period
  comparison.

KEY CONCEPTS IN THIS FILE (types.go):
  - Sale: one completed transaction; total_price is a point-in-time snapshot,
    independent of the product's current price
  - Filter: conjunctive query filters for listing sales

SEE ALSO:
  - period.go: bucketing rules for revenue reports
  - service.go: record/list operations
  - revenue.go: aggregation and comparison
*/
package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one completed transaction. Immutable once created.
type Sale struct {
	ID         int64           `db:"id"`
	ProductID  int64           `db:"product_id"`
	Quantity   int64           `db:"quantity"`
	TotalPrice decimal.Decimal `db:"total_price"`
	SaleDate   time.Time       `db:"sale_date"`
}

// Filter restricts a sales listing. All set fields apply conjunctively.
// Date bounds are inclusive on SaleDate. Limit caps the result count after
// Skip offsets it; a zero Limit means unbounded, and negative Skip or Limit
// is rejected by Service.ListSales before the store sees it.
type Filter struct {
	Skip      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
	ProductID *int64
	Category  string
}

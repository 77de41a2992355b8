/*
Package catalog holds the product catalog and its inventory audit trail.

PURPOSE:
  The catalog is the mutable "present state" of the system: each Product row
  carries the current on-hand stock. Every change to that stock is documented
  by an InventoryChange row written in the same unit of work, so the audit
  trail can always reconstruct how stock arrived at its current value.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: current product attributes + on-hand stock
  - InventoryChange: immutable audit entry for one stock mutation

DESIGN PRINCIPLES:
  1. Single mutation path: stock only changes through Service.UpdateStock
  2. Append-only audit: InventoryChange rows are never updated or deleted
  3. Precision: prices use decimal.Decimal, never float64

SEE ALSO:
  - service.go: catalog operations and the audit-writing transaction
  - store.go: persistence interface
*/
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is the only field that mutates after
// creation, and only through Service.UpdateStock.
type Product struct {
	ID       int64           `db:"id"`
	Name     string          `db:"name"`
	Category string          `db:"category"`
	Price    decimal.Decimal `db:"price"`
	Stock    int64           `db:"stock"`
}

// InventoryChange documents exactly one stock mutation. Rows are immutable
// and append-only; corrections happen through further mutations, never edits.
type InventoryChange struct {
	ID            int64     `db:"id"`
	ProductID     int64     `db:"product_id"`
	PreviousStock int64     `db:"previous_stock"`
	NewStock      int64     `db:"new_stock"`
	ChangeAmount  int64     `db:"change_amount"`
	Timestamp     time.Time `db:"timestamp"`
}

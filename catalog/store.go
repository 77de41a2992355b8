/*
store.go - Persistence interface for the catalog

PURPOSE:
  Defines what the catalog needs from storage without naming an engine.
  Implementations: store/sqlstore (SQLite/MySQL via sqlx) for real use,
  store/memory for unit tests.

TRANSACTION MODEL:
  WithTx opens one unit of work and passes a tx-scoped Store to fn. All
  writes made through that Store commit together when fn returns nil and
  roll back together when it returns an error. UpdateStock is the one
  operation that needs this: the stock write and its audit row must never
  be separated.

CONCURRENCY:
  Inside WithTx, GetProduct must protect the row against concurrent stock
  writers (single-writer in SQLite, SELECT ... FOR UPDATE in MySQL) so the
  previous_stock read by one mutation never overlaps another's write window.
*/
package catalog

import "context"

// Store is the persistence interface for products and their audit trail.
type Store interface {
	// InsertProduct persists a new product and assigns p.ID.
	InsertProduct(ctx context.Context, p *Product) error

	// GetProduct returns the product or (nil, nil) when absent.
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// ListProducts returns products ordered by id descending. When
	// lowStockThreshold is non-nil, only products with stock <= threshold
	// are returned.
	ListProducts(ctx context.Context, lowStockThreshold *int64) ([]Product, error)

	// SetStock overwrites the stock value of a product row.
	SetStock(ctx context.Context, productID, newStock int64) error

	// InsertChange appends an audit entry and assigns c.ID. Append-only:
	// no update or delete exists for inventory_changes.
	InsertChange(ctx context.Context, c *InventoryChange) error

	// ListChanges returns all audit entries for a product, newest first.
	// A product with no mutations yields an empty slice, not an error.
	ListChanges(ctx context.Context, productID int64) ([]InventoryChange, error)

	// WithTx runs fn inside one unit of work. Writes through the Store
	// passed to fn commit together or not at all.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

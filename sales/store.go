package sales

import "context"

// Store is the persistence interface for the sales ledger.
//
// APPEND-ONLY: InsertSale is the only write. No update or delete exists;
// the ledger is historical fact, independent of current stock.
type Store interface {
	// InsertSale appends one sale and assigns s.ID.
	InsertSale(ctx context.Context, s *Sale) error

	// ListSales returns sales matching the filter, ordered by id ascending
	// (insertion order). The category filter joins to the product catalog.
	ListSales(ctx context.Context, f Filter) ([]Sale, error)

	// ProductExists reports whether a product id exists, for referential
	// pre-checks at write time.
	ProductExists(ctx context.Context, productID int64) (bool, error)
}

/*
service.go - Catalog operations

PURPOSE:
  Validation and orchestration for product creation, listing, the
  audit-writing stock mutation, and the audit-trail read side.

CRITICAL INVARIANTS:
  1. Stock mutates ONLY through UpdateStock
  2. Every mutation writes exactly one InventoryChange in the same unit of
     work; a failure after the stock write rolls the stock write back
  3. change_amount == new_stock - previous_stock, computed here, never
     accepted from a caller

SEE ALSO:
  - store.go: the unit-of-work contract UpdateStock relies on
*/
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Service implements the catalog operations over a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a catalog service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the time source. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateProductInput carries the caller-supplied attributes of a new product.
type CreateProductInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int64
}

// CreateProduct validates the input and inserts one product row.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidProduct)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: initial stock must not be negative", ErrInvalidProduct)
	}

	p := &Product{
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Stock:    in.Stock,
	}
	if err := s.store.InsertProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// GetProduct returns one product or ErrProductNotFound.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// ListProducts returns the catalog ordered by id descending
// (most-recently-created first). With a threshold, only products whose
// stock is at or below it are returned.
func (s *Service) ListProducts(ctx context.Context, lowStockThreshold *int64) ([]Product, error) {
	products, err := s.store.ListProducts(ctx, lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// UpdateStock sets a product's stock to newStock and appends the audit entry
// documenting the mutation, atomically. Any integer is accepted, including
// values that drive stock negative; no validation against sales history
// happens here.
func (s *Service) UpdateStock(ctx context.Context, productID, newStock int64) (*Product, error) {
	var updated *Product

	err := s.store.WithTx(ctx, func(tx Store) error {
		p, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if p == nil {
			return ErrProductNotFound
		}

		change := &InventoryChange{
			ProductID:     p.ID,
			PreviousStock: p.Stock,
			NewStock:      newStock,
			ChangeAmount:  newStock - p.Stock,
			Timestamp:     s.now().UTC(),
		}

		if err := tx.SetStock(ctx, p.ID, newStock); err != nil {
			return fmt.Errorf("set stock: %w", err)
		}
		if err := tx.InsertChange(ctx, change); err != nil {
			return fmt.Errorf("insert inventory change: %w", err)
		}

		p.Stock = newStock
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// InventoryChanges returns the full audit trail for a product, newest first.
// An unknown product id yields an empty trail rather than an error: the
// trail of a product with no mutations is legitimately empty.
func (s *Service) InventoryChanges(ctx context.Context, productID int64) ([]InventoryChange, error) {
	changes, err := s.store.ListChanges(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory changes: %w", err)
	}
	if changes == nil {
		changes = []InventoryChange{}
	}
	return changes, nil
}

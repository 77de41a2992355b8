/*
Package memory is an in-memory implementation of the storage interfaces.

PURPOSE:
  Backs unit tests that exercise service logic without a database. Behavior
  mirrors store/sqlstore: identical orderings, (nil, nil) for a missing
  product, and transactional WithTx semantics via snapshot and restore.

FAIL POINTS:
  FailInsertChange, when set, makes InsertChange return that error. Tests
  use it to prove that a failed audit write rolls back the stock write.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/sales"
)

// Store keeps all rows in process memory, guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	products map[int64]catalog.Product
	changes  []catalog.InventoryChange
	ledger   []sales.Sale

	nextProductID int64
	nextChangeID  int64
	nextSaleID    int64

	// FailInsertChange, when non-nil, is returned by every InsertChange.
	FailInsertChange error
}

var (
	_ catalog.Store = (*Store)(nil)
	_ sales.Store   = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{products: map[int64]catalog.Product{}}
}

// Reset wipes all rows and id counters.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = map[int64]catalog.Product{}
	s.changes = nil
	s.ledger = nil
	s.nextProductID, s.nextChangeID, s.nextSaleID = 0, 0, 0
	return nil
}

// WithTx snapshots all state, runs fn against an unlocked view, and
// restores the snapshot when fn fails. The lock is held for the whole unit
// of work, which also serializes concurrent stock mutations.
func (s *Store) WithTx(ctx context.Context, fn func(tx catalog.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapProducts := make(map[int64]catalog.Product, len(s.products))
	for id, p := range s.products {
		snapProducts[id] = p
	}
	snapChanges := append([]catalog.InventoryChange(nil), s.changes...)
	snapNextProduct, snapNextChange := s.nextProductID, s.nextChangeID

	if err := fn(&txView{s: s}); err != nil {
		s.products = snapProducts
		s.changes = snapChanges
		s.nextProductID, s.nextChangeID = snapNextProduct, snapNextChange
		return err
	}
	return nil
}

func (s *Store) InsertProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertProductLocked(p)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProductLocked(id)
}

func (s *Store) ListProducts(ctx context.Context, lowStockThreshold *int64) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listProductsLocked(lowStockThreshold)
}

func (s *Store) SetStock(ctx context.Context, productID, newStock int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStockLocked(productID, newStock)
}

func (s *Store) InsertChange(ctx context.Context, c *catalog.InventoryChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertChangeLocked(c)
}

func (s *Store) ListChanges(ctx context.Context, productID int64) ([]catalog.InventoryChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listChangesLocked(productID)
}

func (s *Store) InsertSale(ctx context.Context, sale *sales.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSaleID++
	sale.ID = s.nextSaleID
	s.ledger = append(s.ledger, *sale)
	return nil
}

func (s *Store) ListSales(ctx context.Context, f sales.Filter) ([]sales.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]sales.Sale, 0)
	for _, sale := range s.ledger {
		if f.StartDate != nil && sale.SaleDate.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && sale.SaleDate.After(*f.EndDate) {
			continue
		}
		if f.ProductID != nil && sale.ProductID != *f.ProductID {
			continue
		}
		if f.Category != "" {
			p, ok := s.products[sale.ProductID]
			if !ok || p.Category != f.Category {
				continue
			}
		}
		matched = append(matched, sale)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if f.Skip > 0 {
		if f.Skip >= len(matched) {
			return []sales.Sale{}, nil
		}
		matched = matched[f.Skip:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (s *Store) ProductExists(ctx context.Context, productID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.products[productID]
	return ok, nil
}

// === LOCKED INTERNALS ===
// Callers hold s.mu. The txView delegates here because WithTx already
// holds the write lock.

func (s *Store) insertProductLocked(p *catalog.Product) error {
	s.nextProductID++
	p.ID = s.nextProductID
	s.products[p.ID] = *p
	return nil
}

func (s *Store) getProductLocked(id int64) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) listProductsLocked(lowStockThreshold *int64) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if lowStockThreshold != nil && p.Stock > *lowStockThreshold {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) setStockLocked(productID, newStock int64) error {
	p, ok := s.products[productID]
	if !ok {
		return nil
	}
	p.Stock = newStock
	s.products[productID] = p
	return nil
}

func (s *Store) insertChangeLocked(c *catalog.InventoryChange) error {
	if s.FailInsertChange != nil {
		return s.FailInsertChange
	}
	s.nextChangeID++
	c.ID = s.nextChangeID
	s.changes = append(s.changes, *c)
	return nil
}

func (s *Store) listChangesLocked(productID int64) ([]catalog.InventoryChange, error) {
	out := make([]catalog.InventoryChange, 0)
	for _, c := range s.changes {
		if c.ProductID == productID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// txView is the catalog.Store handed to WithTx callbacks. It skips the
// lock, which the surrounding WithTx already holds.
type txView struct {
	s *Store
}

var _ catalog.Store = (*txView)(nil)

func (t *txView) WithTx(ctx context.Context, fn func(tx catalog.Store) error) error {
	return fn(t)
}

func (t *txView) InsertProduct(ctx context.Context, p *catalog.Product) error {
	return t.s.insertProductLocked(p)
}

func (t *txView) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return t.s.getProductLocked(id)
}

func (t *txView) ListProducts(ctx context.Context, lowStockThreshold *int64) ([]catalog.Product, error) {
	return t.s.listProductsLocked(lowStockThreshold)
}

func (t *txView) SetStock(ctx context.Context, productID, newStock int64) error {
	return t.s.setStockLocked(productID, newStock)
}

func (t *txView) InsertChange(ctx context.Context, c *catalog.InventoryChange) error {
	return t.s.insertChangeLocked(c)
}

func (t *txView) ListChanges(ctx context.Context, productID int64) ([]catalog.InventoryChange, error) {
	return t.s.listChangesLocked(productID)
}

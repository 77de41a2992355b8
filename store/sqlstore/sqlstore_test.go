package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/sales"
	"github.com/harib475/ecom-analytics/store/sqlstore"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.Open(sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func insertProduct(t *testing.T, store *sqlstore.Store, name, category, price string, stock int64) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, store.InsertProduct(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func insertSale(t *testing.T, store *sqlstore.Store, productID int64, total string, at time.Time) *sales.Sale {
	t.Helper()
	s := &sales.Sale{
		ProductID:  productID,
		Quantity:   1,
		TotalPrice: decimal.RequireFromString(total),
		SaleDate:   at,
	}
	require.NoError(t, store.InsertSale(context.Background(), s))
	return s
}

// =============================================================================
// PRODUCT STORAGE
// =============================================================================

func TestSQLStore_ProductRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := insertProduct(t, store, "Laptop", "Electronics", "1299.99", 25)

	got, err := store.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Laptop", got.Name)
	assert.Equal(t, "Electronics", got.Category)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1299.99")), "price must survive storage exactly")
	assert.Equal(t, int64(25), got.Stock)
}

func TestSQLStore_GetProduct_MissingIsNilNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetProduct(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLStore_ListProducts_OrderAndThreshold(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertProduct(t, store, "High", "A", "1", 50)
	low := insertProduct(t, store, "Low", "A", "1", 5)
	edge := insertProduct(t, store, "Edge", "A", "1", 10)

	all, err := store.ListProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Edge", all[0].Name, "newest first")

	threshold := int64(10)
	filtered, err := store.ListProducts(ctx, &threshold)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, edge.ID, filtered[0].ID)
	assert.Equal(t, low.ID, filtered[1].ID)
}

// =============================================================================
// TRANSACTIONS AND AUDIT ROWS
// =============================================================================

func TestSQLStore_WithTx_CommitsStockAndChangeTogether(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := insertProduct(t, store, "Widget", "Hardware", "9.99", 50)

	when := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	err := store.WithTx(ctx, func(tx catalog.Store) error {
		if err := tx.SetStock(ctx, p.ID, 30); err != nil {
			return err
		}
		return tx.InsertChange(ctx, &catalog.InventoryChange{
			ProductID:     p.ID,
			PreviousStock: 50,
			NewStock:      30,
			ChangeAmount:  -20,
			Timestamp:     when,
		})
	})
	require.NoError(t, err)

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.Stock)

	changes, err := store.ListChanges(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, int64(-20), changes[0].ChangeAmount)
	assert.True(t, changes[0].Timestamp.Equal(when))
}

func TestSQLStore_WithTx_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := insertProduct(t, store, "Widget", "Hardware", "9.99", 50)

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx catalog.Store) error {
		if err := tx.SetStock(ctx, p.ID, 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Stock, "rolled-back write must not persist")
}

func TestSQLStore_ListChanges_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := insertProduct(t, store, "Widget", "Hardware", "9.99", 50)

	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i, level := range []int64{30, 45, 10} {
		prev := int64(50)
		if i > 0 {
			prev = []int64{30, 45}[i-1]
		}
		require.NoError(t, store.InsertChange(ctx, &catalog.InventoryChange{
			ProductID:     p.ID,
			PreviousStock: prev,
			NewStock:      level,
			ChangeAmount:  level - prev,
			Timestamp:     base.Add(time.Duration(i) * time.Hour),
		}))
	}

	changes, err := store.ListChanges(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, int64(10), changes[0].NewStock)
	assert.Equal(t, int64(45), changes[1].NewStock)
	assert.Equal(t, int64(30), changes[2].NewStock)
}

// =============================================================================
// SALES STORAGE
// =============================================================================

func TestSQLStore_ListSales_FiltersAndPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tv := insertProduct(t, store, "TV", "Electronics", "499.99", 20)
	blender := insertProduct(t, store, "Blender", "Home Appliances", "59.99", 100)

	jan1 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	s1 := insertSale(t, store, tv.ID, "499.99", jan1)
	s2 := insertSale(t, store, blender.ID, "59.99", jan1.AddDate(0, 0, 1))
	s3 := insertSale(t, store, tv.ID, "499.99", jan1.AddDate(0, 0, 2))

	all, err := store.ListSales(ctx, sales.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{s1.ID, s2.ID, s3.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, all[0].TotalPrice.Equal(decimal.RequireFromString("499.99")))

	electronics, err := store.ListSales(ctx, sales.Filter{Category: "Electronics"})
	require.NoError(t, err)
	require.Len(t, electronics, 2)

	start := jan1.AddDate(0, 0, 1)
	bounded, err := store.ListSales(ctx, sales.Filter{StartDate: &start, EndDate: &start})
	require.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, s2.ID, bounded[0].ID)

	byProduct, err := store.ListSales(ctx, sales.Filter{ProductID: &blender.ID})
	require.NoError(t, err)
	require.Len(t, byProduct, 1)

	page, err := store.ListSales(ctx, sales.Filter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, s2.ID, page[0].ID)

	skipOnly, err := store.ListSales(ctx, sales.Filter{Skip: 2})
	require.NoError(t, err)
	require.Len(t, skipOnly, 1)
	assert.Equal(t, s3.ID, skipOnly[0].ID)
}

func TestSQLStore_ProductExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := insertProduct(t, store, "Widget", "Hardware", "9.99", 50)

	exists, err := store.ProductExists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ProductExists(ctx, 404)
	require.NoError(t, err)
	assert.False(t, exists)
}

// =============================================================================
// RESET
// =============================================================================

func TestSQLStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := insertProduct(t, store, "Widget", "Hardware", "9.99", 50)
	insertSale(t, store, p.ID, "9.99", time.Now().UTC())

	require.NoError(t, store.Reset(ctx))

	products, err := store.ListProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)

	rows, err := store.ListSales(ctx, sales.Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/sales"
	"github.com/harib475/ecom-analytics/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestSales(t *testing.T) (*sales.Service, *catalog.Service) {
	t.Helper()
	store := memory.New()
	return sales.NewService(store, nil), catalog.NewService(store)
}

func seedProduct(t *testing.T, catalogSvc *catalog.Service, name, category string) *catalog.Product {
	t.Helper()
	p, err := catalogSvc.CreateProduct(context.Background(), catalog.CreateProductInput{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString("10.00"),
		Stock:    100,
	})
	require.NoError(t, err)
	return p
}

func recordSale(t *testing.T, svc *sales.Service, productID int64, total string, at time.Time) *sales.Sale {
	t.Helper()
	s, err := svc.RecordSale(context.Background(), sales.RecordSaleInput{
		ProductID:  productID,
		Quantity:   1,
		TotalPrice: decimal.RequireFromString(total),
		SaleDate:   &at,
	})
	require.NoError(t, err)
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// RECORDING TESTS
// =============================================================================

func TestRecordSale_Validation(t *testing.T) {
	svc, catalogSvc := newTestSales(t)
	ctx := context.Background()
	p := seedProduct(t, catalogSvc, "Widget", "Hardware")

	_, err := svc.RecordSale(ctx, sales.RecordSaleInput{ProductID: p.ID, Quantity: 0, TotalPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, sales.ErrInvalidSale)

	_, err = svc.RecordSale(ctx, sales.RecordSaleInput{ProductID: p.ID, Quantity: 1, TotalPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, sales.ErrInvalidSale)
	assert.True(t, sales.IsClientError(err))
}

func TestRecordSale_UnknownProduct(t *testing.T) {
	svc, _ := newTestSales(t)

	_, err := svc.RecordSale(context.Background(), sales.RecordSaleInput{
		ProductID: 999, Quantity: 1, TotalPrice: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestRecordSale_DefaultsSaleDateToNow(t *testing.T) {
	svc, catalogSvc := newTestSales(t)
	now := time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	p := seedProduct(t, catalogSvc, "Widget", "Hardware")
	s, err := svc.RecordSale(context.Background(), sales.RecordSaleInput{
		ProductID: p.ID, Quantity: 2, TotalPrice: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, now, s.SaleDate)
}

func TestRecordSale_DoesNotTouchStock(t *testing.T) {
	// Sales and stock are independent by design; consistency between them
	// is caller orchestration.
	svc, catalogSvc := newTestSales(t)
	ctx := context.Background()

	p := seedProduct(t, catalogSvc, "Widget", "Hardware")
	recordSale(t, svc, p.ID, "10.00", day(2024, time.May, 1))

	after, err := catalogSvc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Stock, after.Stock)
}

// =============================================================================
// LISTING TESTS
// =============================================================================

func TestListSales_InsertionOrderAndPagination(t *testing.T) {
	svc, catalogSvc := newTestSales(t)
	ctx := context.Background()
	p := seedProduct(t, catalogSvc, "Widget", "Hardware")

	var ids []int64
	for i := 0; i < 5; i++ {
		s := recordSale(t, svc, p.ID, "10.00", day(2024, time.May, 1+i))
		ids = append(ids, s.ID)
	}

	page, err := svc.ListSales(ctx, sales.Filter{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	rest, err := svc.ListSales(ctx, sales.Filter{Skip: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, rest)

	_, err = svc.ListSales(ctx, sales.Filter{Skip: -1})
	assert.ErrorIs(t, err, sales.ErrInvalidSale)

	_, err = svc.ListSales(ctx, sales.Filter{Limit: -1})
	assert.ErrorIs(t, err, sales.ErrInvalidSale)
	assert.True(t, sales.IsClientError(err))
}

func TestListSales_CategoryFilterJoinsCatalog(t *testing.T) {
	svc, catalogSvc := newTestSales(t)
	ctx := context.Background()

	tv := seedProduct(t, catalogSvc, "TV", "Electronics")
	blender := seedProduct(t, catalogSvc, "Blender", "Home Appliances")

	recordSale(t, svc, tv.ID, "500.00", day(2024, time.May, 1))
	recordSale(t, svc, blender.ID, "60.00", day(2024, time.May, 2))

	rows, err := svc.ListSales(ctx, sales.Filter{Category: "Electronics"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tv.ID, rows[0].ProductID)

	none, err := svc.ListSales(ctx, sales.Filter{Category: "Toys"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListSales_DateBoundsInclusive(t *testing.T) {
	svc, catalogSvc := newTestSales(t)
	ctx := context.Background()
	p := seedProduct(t, catalogSvc, "Widget", "Hardware")

	recordSale(t, svc, p.ID, "1.00", day(2024, time.May, 1))
	boundary := recordSale(t, svc, p.ID, "2.00", day(2024, time.May, 2))
	recordSale(t, svc, p.ID, "3.00", day(2024, time.May, 3))

	start := day(2024, time.May, 2)
	end := day(2024, time.May, 2)
	rows, err := svc.ListSales(ctx, sales.Filter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, boundary.ID, rows[0].ID)
}

func TestListSales_ProductFilter(t *testing.T) {
	svc, catalogSvc := newTestSales(t)
	ctx := context.Background()

	a := seedProduct(t, catalogSvc, "A", "X")
	b := seedProduct(t, catalogSvc, "B", "X")
	recordSale(t, svc, a.ID, "1.00", day(2024, time.May, 1))
	recordSale(t, svc, b.ID, "2.00", day(2024, time.May, 1))

	rows, err := svc.ListSales(ctx, sales.Filter{ProductID: &a.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ProductID)
}

/*
seed.go - Demo data loader

PURPOSE:
  Wipes the store and loads a small, deterministic retail data set so a
  fresh deployment has something to chart: three products, a month of
  sales per product, and stock mutations that exercise the audit trail.

WARNING:
  Destructive. The endpoint exists for demos and local development; wire
  it only where a Resetter is provided.
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/sales"
)

type demoProduct struct {
	name     string
	category string
	price    decimal.Decimal
	stock    int64
}

var demoProducts = []demoProduct{
	{name: "iPhone 14", category: "Electronics", price: decimal.RequireFromString("999.99"), stock: 50},
	{name: "Samsung TV", category: "Electronics", price: decimal.RequireFromString("499.99"), stock: 20},
	{name: "Blender", category: "Home Appliances", price: decimal.RequireFromString("59.99"), stock: 100},
}

// SeedDemoData resets the store and loads the demo data set.
// POST /api/admin/seed
func (h *Handler) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	if h.Resetter == nil {
		writeError(w, http.StatusServiceUnavailable, "seeding is disabled", nil)
		return
	}

	products, salesCount, err := h.seed(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SeedResponse{
		Message:  "demo data loaded",
		Products: products,
		Sales:    salesCount,
	})
}

func (h *Handler) seed(ctx context.Context) (int, int, error) {
	if err := h.Resetter.Reset(ctx); err != nil {
		return 0, 0, fmt.Errorf("reset store: %w", err)
	}

	now := time.Now().UTC()
	salesCount := 0

	for i, dp := range demoProducts {
		product, err := h.Catalog.CreateProduct(ctx, catalog.CreateProductInput{
			Name:     dp.name,
			Category: dp.category,
			Price:    dp.price,
			Stock:    dp.stock,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("seed product %q: %w", dp.name, err)
		}

		// Five sales per product, spread over the trailing month.
		var sold int64
		for j := 0; j < 5; j++ {
			quantity := int64(i + j + 1)
			saleDate := now.AddDate(0, 0, -(j*6 + i))
			_, err := h.Sales.RecordSale(ctx, sales.RecordSaleInput{
				ProductID:  product.ID,
				Quantity:   quantity,
				TotalPrice: dp.price.Mul(decimal.NewFromInt(quantity)),
				SaleDate:   &saleDate,
			})
			if err != nil {
				return 0, 0, fmt.Errorf("seed sale for %q: %w", dp.name, err)
			}
			sold += quantity
			salesCount++
		}

		// Walk stock down through the audit path so the change trail
		// reflects the sales above.
		if _, err := h.Catalog.UpdateStock(ctx, product.ID, dp.stock-sold); err != nil {
			return 0, 0, fmt.Errorf("seed stock for %q: %w", dp.name, err)
		}
	}

	return len(demoProducts), salesCount, nil
}

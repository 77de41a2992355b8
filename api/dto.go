/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupled from the
  domain types. Prices cross the JSON boundary as numbers (float64) for
  client convenience; internally they stay decimal.Decimal end to end.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"
	"time"

	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/sales"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProductDTO represents a catalog product in API responses.
type ProductDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int64   `json:"stock"`
}

// CreateProductRequest is the request to create a product.
type CreateProductRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int64   `json:"stock"`
}

// StockDTO is the current stock level of one product.
type StockDTO struct {
	ProductID int64 `json:"product_id"`
	Stock     int64 `json:"stock"`
}

// UpdateStockRequest sets the new absolute stock level.
type UpdateStockRequest struct {
	NewStock int64 `json:"new_stock"`
}

// InventoryChangeDTO represents one audit entry.
type InventoryChangeDTO struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"product_id"`
	PreviousStock int64  `json:"previous_stock"`
	NewStock      int64  `json:"new_stock"`
	ChangeAmount  int64  `json:"change_amount"`
	Timestamp     string `json:"timestamp"`
}

// SaleDTO represents one recorded sale.
type SaleDTO struct {
	ID         int64   `json:"id"`
	ProductID  int64   `json:"product_id"`
	Quantity   int64   `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	SaleDate   string  `json:"sale_date"`
}

// RecordSaleRequest is the request to record a sale. SaleDate is optional
// and defaults to now.
type RecordSaleRequest struct {
	ProductID  int64   `json:"product_id"`
	Quantity   int64   `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	SaleDate   string  `json:"sale_date,omitempty"`
}

// RevenueRowDTO is one bucket of a revenue report.
type RevenueRowDTO struct {
	Period       string  `json:"period"`
	TotalRevenue float64 `json:"total_revenue"`
}

// RangeRevenueDTO is the summed revenue of one date range.
type RangeRevenueDTO struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Revenue   float64 `json:"revenue"`
}

// RevenueComparisonDTO is the response of the two-period comparison.
type RevenueComparisonDTO struct {
	Period1    RangeRevenueDTO `json:"period1"`
	Period2    RangeRevenueDTO `json:"period2"`
	Difference float64         `json:"difference"`
	Category   string          `json:"category,omitempty"`
}

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SeedResponse reports what the demo seeder created.
type SeedResponse struct {
	Message  string `json:"message"`
	Products int    `json:"products"`
	Sales    int    `json:"sales"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toProductDTO(p *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.InexactFloat64(),
		Stock:    p.Stock,
	}
}

func toProductDTOs(products []catalog.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, toProductDTO(&products[i]))
	}
	return out
}

func toChangeDTOs(changes []catalog.InventoryChange) []InventoryChangeDTO {
	out := make([]InventoryChangeDTO, 0, len(changes))
	for _, c := range changes {
		out = append(out, InventoryChangeDTO{
			ID:            c.ID,
			ProductID:     c.ProductID,
			PreviousStock: c.PreviousStock,
			NewStock:      c.NewStock,
			ChangeAmount:  c.ChangeAmount,
			Timestamp:     c.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func toSaleDTO(s *sales.Sale) SaleDTO {
	return SaleDTO{
		ID:         s.ID,
		ProductID:  s.ProductID,
		Quantity:   s.Quantity,
		TotalPrice: s.TotalPrice.InexactFloat64(),
		SaleDate:   s.SaleDate.UTC().Format(time.RFC3339),
	}
}

func toSaleDTOs(rows []sales.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toSaleDTO(&rows[i]))
	}
	return out
}

func toRevenueRowDTOs(rows []sales.PeriodRevenue) []RevenueRowDTO {
	out := make([]RevenueRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, RevenueRowDTO{
			Period:       r.Period,
			TotalRevenue: r.TotalRevenue.InexactFloat64(),
		})
	}
	return out
}

func toComparisonDTO(c *sales.RevenueComparison) RevenueComparisonDTO {
	toRange := func(r sales.RangeRevenue) RangeRevenueDTO {
		return RangeRevenueDTO{
			StartDate: r.Start.UTC().Format(time.RFC3339),
			EndDate:   r.End.UTC().Format(time.RFC3339),
			Revenue:   r.Revenue.InexactFloat64(),
		}
	}
	return RevenueComparisonDTO{
		Period1:    toRange(c.Period1),
		Period2:    toRange(c.Period2),
		Difference: c.Difference.InexactFloat64(),
		Category:   c.Category,
	}
}

// parseDateTime accepts RFC3339 timestamps and plain dates. A plain date
// means UTC midnight, so a date-only end bound is inclusive of the start of
// that day, matching the listing's inclusive range semantics.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", s)
}

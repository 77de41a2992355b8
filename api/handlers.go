/*
handlers.go - HTTP API handlers for the retail analytics service

PURPOSE:
  Exposes the catalog, inventory audit, and sales analytics via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Products:
    POST   /api/products                    Create product

  Inventory:
    GET    /api/inventory                   List products (newest first)
    GET    /api/inventory/{id}/stock        Current stock level
    PUT    /api/inventory/{id}/stock        Set stock (writes audit entry)
    GET    /api/inventory/{id}/changes      Audit trail (newest first)

  Sales:
    POST   /api/sales                       Record sale
    GET    /api/sales                       List sales (filtered, paginated)
    GET    /api/sales/revenue/{period}      Revenue report per period bucket
    GET    /api/sales/compare/revenue       Two-range revenue comparison

  Admin:
    POST   /api/admin/seed                  Reset and load demo data

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unknown period
  - 404: Product not found
  - 500: Storage or internal errors (logged, details withheld)

SEE ALSO:
  - dto.go: Request/response data structures
  - seed.go: Demo data loader
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/sales"
)

// Default pagination for sales listings.
const (
	defaultSkip  = 0
	defaultLimit = 100
)

// Resetter wipes all stored rows. Implemented by both stores; used by the
// demo seeder only.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Catalog  *catalog.Service
	Sales    *sales.Service
	Resetter Resetter
	Logger   *zap.Logger
}

// NewHandler creates a handler. resetter may be nil to disable the seed
// endpoint.
func NewHandler(catalogSvc *catalog.Service, salesSvc *sales.Service, resetter Resetter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Catalog: catalogSvc, Sales: salesSvc, Resetter: resetter, Logger: logger}
}

// =============================================================================
// PRODUCT ENDPOINTS
// =============================================================================

// CreateProduct creates a catalog product.
// POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	product, err := h.Catalog.CreateProduct(r.Context(), catalog.CreateProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    decimal.NewFromFloat(req.Price),
		Stock:    req.Stock,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(product))
}

// =============================================================================
// INVENTORY ENDPOINTS
// =============================================================================

// ListInventory returns all products, newest first. An optional
// low_stock_threshold query parameter restricts the listing to products at
// or below that level.
// GET /api/inventory?low_stock_threshold=10
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	var threshold *int64
	if raw := r.URL.Query().Get("low_stock_threshold"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid low_stock_threshold", err)
			return
		}
		threshold = &v
	}

	products, err := h.Catalog.ListProducts(r.Context(), threshold)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(products))
}

// GetStock returns the current stock level of one product.
// GET /api/inventory/{id}/stock
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	product, err := h.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StockDTO{ProductID: product.ID, Stock: product.Stock})
}

// UpdateStock sets a product's stock to an absolute level and returns the
// updated product. The matching audit entry is written in the same unit of
// work.
// PUT /api/inventory/{id}/stock
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	var req UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	product, err := h.Catalog.UpdateStock(r.Context(), id, req.NewStock)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

// ListChanges returns the audit trail of one product, newest first. An
// unknown product id yields an empty trail, not a 404.
// GET /api/inventory/{id}/changes
func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	changes, err := h.Catalog.InventoryChanges(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChangeDTOs(changes))
}

// =============================================================================
// SALES ENDPOINTS
// =============================================================================

// RecordSale appends one sale to the ledger. Stock is not touched.
// POST /api/sales
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	in := sales.RecordSaleInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: decimal.NewFromFloat(req.TotalPrice),
	}
	if req.SaleDate != "" {
		t, err := parseDateTime(req.SaleDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sale_date", err)
			return
		}
		in.SaleDate = &t
	}

	sale, err := h.Sales.RecordSale(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(sale))
}

// ListSales returns sales in insertion order with conjunctive filters.
// GET /api/sales?skip=0&limit=100&start_date=...&end_date=...&product_id=...&category=...
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := sales.Filter{Skip: defaultSkip, Limit: defaultLimit, Category: q.Get("category")}

	var err error
	if f.Skip, err = queryInt(q.Get("skip"), defaultSkip); err != nil {
		writeError(w, http.StatusBadRequest, "invalid skip", err)
		return
	}
	if f.Limit, err = queryInt(q.Get("limit"), defaultLimit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit", err)
		return
	}
	if raw := q.Get("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid product_id", err)
			return
		}
		f.ProductID = &id
	}
	if f.StartDate, err = optionalDate(q.Get("start_date")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}
	if f.EndDate, err = optionalDate(q.Get("end_date")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err)
		return
	}

	rows, err := h.Sales.ListSales(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTOs(rows))
}

// Revenue returns the revenue report bucketed by the path period
// (daily, weekly, monthly, annual), optionally bounded by start_date and
// end_date.
// GET /api/sales/revenue/{period}?start_date=...&end_date=...
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := optionalDate(q.Get("start_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}
	end, err := optionalDate(q.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err)
		return
	}

	rows, err := h.Sales.RevenueByPeriod(r.Context(), chi.URLParam(r, "period"), start, end)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevenueRowDTOs(rows))
}

// CompareRevenue sums revenue over two date ranges and reports the signed
// difference (range 2 minus range 1). All four bounds are required; the
// category filter is optional.
// GET /api/sales/compare/revenue?start1=...&end1=...&start2=...&end2=...&category=...
func (h *Handler) CompareRevenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	bounds := make([]time.Time, 4)
	for i, name := range []string{"start1", "end1", "start2", "end2"} {
		raw := q.Get(name)
		if raw == "" {
			writeError(w, http.StatusBadRequest, "missing "+name, nil)
			return
		}
		t, err := parseDateTime(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+name, err)
			return
		}
		bounds[i] = t
	}

	cmp, err := h.Sales.CompareRevenue(r.Context(), bounds[0], bounds[1], bounds[2], bounds[3], q.Get("category"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComparisonDTO(cmp))
}

// =============================================================================
// HELPERS
// =============================================================================

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseDateTime(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeDomainError maps domain errors to HTTP status codes. Anything that
// is neither a not-found nor a client error is logged and reported as 500
// without internal details.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case catalog.IsNotFound(err):
		writeError(w, http.StatusNotFound, "product not found", nil)
	case catalog.IsClientError(err) || sales.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

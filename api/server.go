/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for log correlation
  2. RealIP:     Client address behind proxies
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. Logger:     Structured request logging (zap)
  5. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/products/*    Product creation
  /api/inventory/*   Inventory state and audit trail
  /api/sales/*       Sales ledger and revenue analytics
  /api/admin/*       Demo seeding (destructive, dev only)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, logger *zap.Logger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.CreateProduct)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListInventory)
			r.Get("/{id}/stock", h.GetStock)
			r.Put("/{id}/stock", h.UpdateStock)
			r.Get("/{id}/changes", h.ListChanges)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/", h.RecordSale)
			r.Get("/", h.ListSales)
			r.Get("/revenue/{period}", h.Revenue)
			r.Get("/compare/revenue", h.CompareRevenue)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/seed", h.SeedDemoData)
		})
	})

	return r
}

// requestLogger logs one line per request with the correlation id assigned
// by the RequestID middleware.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

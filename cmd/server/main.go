/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the retail analytics server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment configuration
  2. Build the zap logger
  3. Open the SQL store (SQLite or MySQL) and apply the schema
  4. Connect the optional Redis report cache
  5. Wire services, handler, router
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (configured timeout)
  3. Close Redis and database connections
  4. Exit

EXAMPLES:
  # Development: SQLite file, no cache
  go run ./cmd/server

  # Shared deployment
  DB_DRIVER=mysql DB_DSN="user:pass@tcp(db:3306)/analytics?parseTime=true&loc=UTC" \
  REDIS_ADDR=cache:6379 go run ./cmd/server

SEE ALSO:
  - config/config.go: Environment variables and defaults
  - api/server.go: Router configuration
  - store/sqlstore/sqlstore.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/harib475/ecom-analytics/api"
	"github.com/harib475/ecom-analytics/cache"
	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/config"
	"github.com/harib475/ecom-analytics/sales"
	"github.com/harib475/ecom-analytics/store/sqlstore"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := buildLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer store.Close()

	var reports *cache.ReportCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		reports = cache.NewReportCache(client, cfg.Redis.ReportTTL)
		logger.Info("report cache enabled",
			zap.String("addr", cfg.Redis.Addr),
			zap.Duration("ttl", cfg.Redis.ReportTTL))
	}

	catalogSvc := catalog.NewService(store)
	salesSvc := sales.NewService(store, reports)
	handler := api.NewHandler(catalogSvc, salesSvc, store, logger)
	router := api.NewRouter(handler, logger, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("driver", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func buildLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Encoding == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Encoding
	return zc.Build()
}

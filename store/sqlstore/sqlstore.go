/*
Package sqlstore persists the catalog and sales ledger in SQL.

PURPOSE:
  One implementation behind both catalog.Store and sales.Store, running on
  SQLite for development and tests and MySQL for shared deployments. All
  query text is placeholder-compatible between the two; the schema DDL is
  the only per-dialect text.

TRANSACTION SCOPE:
  WithTx begins a real database transaction and hands the callback a
  tx-scoped view. Inside that view GetProduct locks the row on MySQL
  (SELECT ... FOR UPDATE); SQLite relies on its single-writer model.

STORAGE CHOICES:
  - prices: TEXT on SQLite, DECIMAL(12,2) on MySQL; decimal.Decimal scans
    both without ever passing through float64
  - timestamps: DATETIME columns, always written in UTC (MySQL DSNs must
    carry parseTime=true&loc=UTC)
*/
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harib475/ecom-analytics/catalog"
	"github.com/harib475/ecom-analytics/sales"
)

// Supported driver names, matching database/sql registration.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS products (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT    NOT NULL,
	category TEXT    NOT NULL,
	price    TEXT    NOT NULL,
	stock    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory_changes (
	id             INTEGER  PRIMARY KEY AUTOINCREMENT,
	product_id     INTEGER  NOT NULL REFERENCES products(id),
	previous_stock INTEGER  NOT NULL,
	new_stock      INTEGER  NOT NULL,
	change_amount  INTEGER  NOT NULL,
	timestamp      DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_product ON inventory_changes(product_id, timestamp);

CREATE TABLE IF NOT EXISTS sales (
	id          INTEGER  PRIMARY KEY AUTOINCREMENT,
	product_id  INTEGER  NOT NULL REFERENCES products(id),
	quantity    INTEGER  NOT NULL,
	total_price TEXT     NOT NULL,
	sale_date   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(sale_date);
CREATE INDEX IF NOT EXISTS idx_sales_product ON sales(product_id);
`

const schemaMySQL = `
CREATE TABLE IF NOT EXISTS products (
	id       BIGINT        NOT NULL AUTO_INCREMENT,
	name     VARCHAR(255)  NOT NULL,
	category VARCHAR(255)  NOT NULL,
	price    DECIMAL(12,2) NOT NULL,
	stock    BIGINT        NOT NULL,
	PRIMARY KEY (id)
);

CREATE TABLE IF NOT EXISTS inventory_changes (
	id             BIGINT      NOT NULL AUTO_INCREMENT,
	product_id     BIGINT      NOT NULL,
	previous_stock BIGINT      NOT NULL,
	new_stock      BIGINT      NOT NULL,
	change_amount  BIGINT      NOT NULL,
	timestamp      DATETIME(6) NOT NULL,
	PRIMARY KEY (id),
	KEY idx_changes_product (product_id, timestamp),
	CONSTRAINT fk_changes_product FOREIGN KEY (product_id) REFERENCES products(id)
);

CREATE TABLE IF NOT EXISTS sales (
	id          BIGINT        NOT NULL AUTO_INCREMENT,
	product_id  BIGINT        NOT NULL,
	quantity    BIGINT        NOT NULL,
	total_price DECIMAL(12,2) NOT NULL,
	sale_date   DATETIME(6)   NOT NULL,
	PRIMARY KEY (id),
	KEY idx_sales_date (sale_date),
	KEY idx_sales_product (product_id),
	CONSTRAINT fk_sales_product FOREIGN KEY (product_id) REFERENCES products(id)
);
`

// Store is the SQL-backed implementation of catalog.Store and sales.Store.
type Store struct {
	queries
	db *sqlx.DB
}

var (
	_ catalog.Store = (*Store)(nil)
	_ sales.Store   = (*Store)(nil)
)

// Open connects, applies the schema, and returns a ready Store. SQLite DSNs
// get foreign keys and WAL enabled; MySQL DSNs are used as given.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on&_journal_mode=WAL"
		} else {
			dsn += "?_foreign_keys=on&_journal_mode=WAL"
		}
	case DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// WAL still allows only one writer at a time.
		db.SetMaxOpenConns(1)
	}

	s := &Store{queries: queries{ext: db, driver: driver}, db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := schemaSQLite
	if s.driver == DriverMySQL {
		schema = schemaMySQL
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a database transaction. Rollback on error is
// unconditional; Commit only after fn succeeds.
func (s *Store) WithTx(ctx context.Context, fn func(tx catalog.Store) error) error {
	txx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer txx.Rollback()

	if err := fn(&txStore{queries{ext: txx, driver: s.driver, inTx: true}}); err != nil {
		return err
	}
	if err := txx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Reset wipes all rows. Used by the demo seeder and by tests.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"inventory_changes", "sales", "products"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// txStore is the transaction-scoped view handed to WithTx callbacks.
type txStore struct {
	queries
}

var _ catalog.Store = (*txStore)(nil)

// WithTx on an already tx-scoped store joins the surrounding transaction.
func (t *txStore) WithTx(ctx context.Context, fn func(tx catalog.Store) error) error {
	return fn(t)
}

// queries holds every statement, shared between pool and tx scope.
type queries struct {
	ext    sqlx.ExtContext
	driver string
	inTx   bool
}

func (q queries) InsertProduct(ctx context.Context, p *catalog.Product) error {
	res, err := q.ext.ExecContext(ctx,
		`INSERT INTO products (name, category, price, stock) VALUES (?, ?, ?, ?)`,
		p.Name, p.Category, p.Price, p.Stock)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product id: %w", err)
	}
	p.ID = id
	return nil
}

func (q queries) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	query := `SELECT id, name, category, price, stock FROM products WHERE id = ?`
	if q.inTx && q.driver == DriverMySQL {
		query += ` FOR UPDATE`
	}
	var p catalog.Product
	if err := sqlx.GetContext(ctx, q.ext, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (q queries) ListProducts(ctx context.Context, lowStockThreshold *int64) ([]catalog.Product, error) {
	query := `SELECT id, name, category, price, stock FROM products`
	args := []any{}
	if lowStockThreshold != nil {
		query += ` WHERE stock <= ?`
		args = append(args, *lowStockThreshold)
	}
	query += ` ORDER BY id DESC`

	var out []catalog.Product
	if err := sqlx.SelectContext(ctx, q.ext, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (q queries) SetStock(ctx context.Context, productID, newStock int64) error {
	if _, err := q.ext.ExecContext(ctx,
		`UPDATE products SET stock = ? WHERE id = ?`, newStock, productID); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func (q queries) InsertChange(ctx context.Context, c *catalog.InventoryChange) error {
	res, err := q.ext.ExecContext(ctx,
		`INSERT INTO inventory_changes (product_id, previous_stock, new_stock, change_amount, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ProductID, c.PreviousStock, c.NewStock, c.ChangeAmount, c.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("insert inventory change: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert inventory change id: %w", err)
	}
	c.ID = id
	return nil
}

func (q queries) ListChanges(ctx context.Context, productID int64) ([]catalog.InventoryChange, error) {
	var out []catalog.InventoryChange
	err := sqlx.SelectContext(ctx, q.ext, &out,
		`SELECT id, product_id, previous_stock, new_stock, change_amount, timestamp
		 FROM inventory_changes WHERE product_id = ?
		 ORDER BY timestamp DESC, id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory changes: %w", err)
	}
	return out, nil
}

func (q queries) InsertSale(ctx context.Context, s *sales.Sale) error {
	res, err := q.ext.ExecContext(ctx,
		`INSERT INTO sales (product_id, quantity, total_price, sale_date) VALUES (?, ?, ?, ?)`,
		s.ProductID, s.Quantity, s.TotalPrice, s.SaleDate.UTC())
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert sale id: %w", err)
	}
	s.ID = id
	return nil
}

func (q queries) ListSales(ctx context.Context, f sales.Filter) ([]sales.Sale, error) {
	query := `SELECT s.id, s.product_id, s.quantity, s.total_price, s.sale_date
		 FROM sales s JOIN products p ON p.id = s.product_id`

	conditions := []string{}
	args := []any{}
	if f.StartDate != nil {
		conditions = append(conditions, "s.sale_date >= ?")
		args = append(args, f.StartDate.UTC())
	}
	if f.EndDate != nil {
		conditions = append(conditions, "s.sale_date <= ?")
		args = append(args, f.EndDate.UTC())
	}
	if f.ProductID != nil {
		conditions = append(conditions, "s.product_id = ?")
		args = append(args, *f.ProductID)
	}
	if f.Category != "" {
		conditions = append(conditions, "p.category = ?")
		args = append(args, f.Category)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.id ASC"

	// MySQL has no OFFSET without LIMIT, so an unbounded listing with a
	// skip still needs a limit term.
	switch {
	case f.Limit > 0:
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Skip)
	case f.Skip > 0:
		query += " LIMIT 9223372036854775807 OFFSET ?"
		args = append(args, f.Skip)
	}

	var out []sales.Sale
	if err := sqlx.SelectContext(ctx, q.ext, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return out, nil
}

func (q queries) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q.ext, &exists,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, productID)
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return exists, nil
}

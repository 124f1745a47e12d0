package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"app/models"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore wraps an already connected pool. The pool is owned by
// the caller; the store never closes it.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Bootstrap creates the products and forecasts tables if they do not
// exist. Called once at startup.
func (s *PostgresStore) Bootstrap(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			stock DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS forecasts (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			ds DATE NOT NULL,
			yhat DOUBLE PRECISION NOT NULL,
			yhat_lower DOUBLE PRECISION NOT NULL,
			yhat_upper DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_product_id ON forecasts (product_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}

// UpsertProducts inserts each product unless its id already exists.
// Existing rows keep their original values.
func (s *PostgresStore) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	query := `
		INSERT INTO products (id, name, code, price, stock)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	inserted := 0
	for _, p := range products {
		tag, err := s.db.Exec(ctx, query, p.ID, p.Name, p.Code, p.Price, p.Stock)
		if err != nil {
			return inserted, fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// ReplaceForecasts swaps the product's stored forecast for the new one
// inside a single transaction. Concurrent replacements for the same
// product serialize on the deleted rows; different products do not block
// each other.
func (s *PostgresStore) ReplaceForecasts(ctx context.Context, productID int64, fc models.Forecast) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM forecasts WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to delete old forecasts for product %d: %w", productID, err)
	}

	insert := `
		INSERT INTO forecasts (product_id, ds, yhat, yhat_lower, yhat_upper)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, point := range fc.Points {
		if _, err := tx.Exec(ctx, insert, productID, point.DS, point.Yhat, point.YhatLower, point.YhatUpper); err != nil {
			return fmt.Errorf("failed to insert forecast for product %d: %w", productID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit forecast replacement for product %d: %w", productID, err)
	}
	return nil
}

// ForecastsByProduct returns the stored forecast rows for a product,
// ordered by date.
func (s *PostgresStore) ForecastsByProduct(ctx context.Context, productID int64) ([]models.ForecastPoint, error) {
	query := `
		SELECT id, product_id, ds, yhat, yhat_lower, yhat_upper
		FROM forecasts
		WHERE product_id = $1
		ORDER BY ds
	`
	rows, err := s.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts for product %d: %w", productID, err)
	}
	defer rows.Close()

	var points []models.ForecastPoint
	for rows.Next() {
		var p models.ForecastPoint
		if err := rows.Scan(&p.ID, &p.ProductID, &p.DS, &p.Yhat, &p.YhatLower, &p.YhatUpper); err != nil {
			return nil, fmt.Errorf("failed to scan forecast row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(points) == 0 {
		return nil, ErrNotFound
	}
	return points, nil
}

// ListProducts returns one page of the catalog ordered by id, plus the
// total product count.
func (s *PostgresStore) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, int, error) {
	query := `
		SELECT id, name, code, price, stock
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Price, &p.Stock); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, total, nil
}

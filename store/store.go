// Package store persists products and forecasts. The pipeline only sees
// the Store interface; the Postgres implementation lives alongside it.
package store

import (
	"context"
	"errors"

	"app/models"
)

// ErrNotFound is returned when a query matches no rows.
var ErrNotFound = errors.New("not found")

// Store is the persistence capability consumed by the pipeline and the
// HTTP handlers. Implementations must be safe for concurrent use and must
// make ReplaceForecasts atomic per product: readers never observe a
// partially replaced forecast.
type Store interface {
	// UpsertProducts inserts products that are not already present.
	// Existing rows are left untouched (first-write-wins). Returns the
	// number of newly inserted products.
	UpsertProducts(ctx context.Context, products []models.Product) (int, error)

	// ReplaceForecasts deletes every stored forecast row for the product
	// and inserts the new sequence in one atomic unit.
	ReplaceForecasts(ctx context.Context, productID int64, fc models.Forecast) error

	// ForecastsByProduct returns the product's forecast rows ordered by
	// date, or ErrNotFound when none exist.
	ForecastsByProduct(ctx context.Context, productID int64) ([]models.ForecastPoint, error)

	// ListProducts returns one page of the catalog plus the total count.
	ListProducts(ctx context.Context, limit, offset int) ([]models.Product, int, error)
}

// Package pipeline drives the clean -> feature-extract -> train ->
// forecast -> persist flow for one upload, isolating per-product and
// per-stage failures.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"app/forecast"
	"app/models"
	"app/processing"
)

// RunResult aggregates the outcome of one orchestrator run.
type RunResult struct {
	// Forecasts maps product id to its clamped forecast.
	Forecasts map[int64]models.Forecast

	// Skipped maps product id to the reason it was not trained.
	Skipped map[int64]string

	// Errors maps product id to its isolated fit/forecast failure.
	Errors map[int64]error

	// FilteredSales counts sales rows that survived the consistency
	// filter against the run's product catalog.
	FilteredSales int
}

// Orchestrator fans training and forecasting out across products with a
// bounded worker pool. Per-product failures are recorded, never allowed
// to abort the rest of the run.
type Orchestrator struct {
	forecaster forecast.Forecaster
	minPoints  int
	workers    int
	log        *logrus.Logger
}

// NewOrchestrator builds an orchestrator. A minPoints of zero or less
// falls back to forecast.DefaultMinPoints; a workers of zero or less
// falls back to 1.
func NewOrchestrator(f forecast.Forecaster, minPoints, workers int, log *logrus.Logger) *Orchestrator {
	if minPoints <= 0 {
		minPoints = forecast.DefaultMinPoints
	}
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{forecaster: f, minPoints: minPoints, workers: workers, log: log}
}

// Run filters the sales to the run's product catalog, extracts one series
// per product, and trains/forecasts each product on the worker pool.
// Forecast values are clamped to zero: demand cannot be negative,
// whatever the model says.
//
// Sales rows referencing products absent from the catalog never reach
// feature extraction. This is a hard invariant, not an optimization.
func (o *Orchestrator) Run(ctx context.Context, products []models.Product, sales []models.SaleRecord, horizonDays int) *RunResult {
	result := &RunResult{
		Forecasts: make(map[int64]models.Forecast),
		Skipped:   make(map[int64]string),
		Errors:    make(map[int64]error),
	}

	knownIDs := make(map[int64]bool, len(products))
	for _, p := range products {
		knownIDs[p.ID] = true
	}

	filtered := make([]models.SaleRecord, 0, len(sales))
	for _, sale := range sales {
		if knownIDs[sale.ProductID] {
			filtered = append(filtered, sale)
		}
	}
	result.FilteredSales = len(filtered)
	if dropped := len(sales) - len(filtered); dropped > 0 {
		o.log.WithField("rows", dropped).Warn("dropped sales rows referencing unknown products")
	}

	series := processing.ExtractSeries(filtered)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for productID, s := range series {
		if len(s.Points) < o.minPoints {
			o.log.WithFields(logrus.Fields{
				"product_id": productID,
				"points":     len(s.Points),
			}).Info("skipping product: insufficient data for training")
			result.Skipped[productID] = "insufficient data"
			continue
		}

		productID, s := productID, s
		g.Go(func() error {
			// Cancellation is honored at the product boundary; a fit
			// already underway is left to finish.
			if err := gctx.Err(); err != nil {
				mu.Lock()
				result.Errors[productID] = err
				mu.Unlock()
				return nil
			}

			fc, err := o.trainAndForecast(gctx, s, horizonDays)
			mu.Lock()
			defer mu.Unlock()

			var insufficient *forecast.InsufficientDataError
			switch {
			case errors.As(err, &insufficient):
				result.Skipped[productID] = "insufficient data"
			case err != nil:
				o.log.WithFields(logrus.Fields{
					"product_id": productID,
					"error":      err,
				}).Error("forecast failed for product")
				result.Errors[productID] = err
			default:
				result.Forecasts[productID] = fc
			}
			return nil
		})
	}

	// Workers never return errors; Wait is a pure join point.
	_ = g.Wait()

	return result
}

// trainAndForecast fits one product's series and produces its clamped
// forecast.
func (o *Orchestrator) trainAndForecast(ctx context.Context, series models.ProductSeries, horizonDays int) (models.Forecast, error) {
	model, err := o.forecaster.Fit(ctx, series)
	if err != nil {
		return models.Forecast{}, err
	}

	fc, err := model.Predict(ctx, horizonDays)
	if err != nil {
		return models.Forecast{}, err
	}

	clampForecast(&fc)
	return fc, nil
}

// clampForecast floors all predicted values at zero.
func clampForecast(fc *models.Forecast) {
	for i := range fc.Points {
		fc.Points[i].Yhat = max(fc.Points[i].Yhat, 0)
		fc.Points[i].YhatLower = max(fc.Points[i].YhatLower, 0)
		fc.Points[i].YhatUpper = max(fc.Points[i].YhatUpper, 0)
	}
}

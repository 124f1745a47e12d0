package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"app/models"
	"app/store"
)

// Run exit states.
const (
	StateCompleted          = "completed"
	StateCompletedWithSkips = "completed-with-skips"
	StateFailed             = "failed"
)

// Report summarizes one coordinator run. By the time it exists the
// uploader has long since received its response; the report is only for
// logs and tests.
type Report struct {
	RunID           string `json:"run_id"`
	State           string `json:"state"`
	ProductsSaved   int    `json:"products_saved"`
	ForecastsSaved  int    `json:"forecasts_saved"`
	SkippedProducts int    `json:"skipped_products"`
	FailedProducts  int    `json:"failed_products"`
	Err             error  `json:"-"`
}

// Coordinator drives one end-to-end pipeline run: persist the catalog,
// orchestrate training and forecasting, replace each product's stored
// forecast. It is the failure boundary for everything past the upload
// hand-off: nothing escapes Execute, including panics.
type Coordinator struct {
	store store.Store
	orch  *Orchestrator
	log   *logrus.Logger
}

// NewCoordinator builds a coordinator on the given store and orchestrator.
func NewCoordinator(st store.Store, orch *Orchestrator, log *logrus.Logger) *Coordinator {
	return &Coordinator{store: st, orch: orch, log: log}
}

// Execute runs the pipeline for one upload. The run is terminal: a failed
// run is logged and not retried. Per-product persistence failures are
// isolated the same way per-product forecast failures are.
func (c *Coordinator) Execute(ctx context.Context, products []models.Product, sales []models.SaleRecord, horizonDays int) (report Report) {
	report.RunID = uuid.NewString()
	log := c.log.WithField("run_id", report.RunID)

	defer func() {
		if r := recover(); r != nil {
			report.State = StateFailed
			report.Err = fmt.Errorf("pipeline panicked: %v", r)
			log.WithField("panic", r).Error("pipeline run aborted by panic")
		}
	}()

	log.WithFields(logrus.Fields{
		"products":     len(products),
		"sales":        len(sales),
		"horizon_days": horizonDays,
	}).Info("starting pipeline run")

	saved, err := c.store.UpsertProducts(ctx, products)
	if err != nil {
		report.State = StateFailed
		report.Err = fmt.Errorf("failed to save products: %w", err)
		log.WithField("error", err).Error("pipeline run failed before training")
		return report
	}
	report.ProductsSaved = saved

	result := c.orch.Run(ctx, products, sales, horizonDays)
	report.SkippedProducts = len(result.Skipped)
	report.FailedProducts = len(result.Errors)

	for productID, fc := range result.Forecasts {
		if err := c.store.ReplaceForecasts(ctx, productID, fc); err != nil {
			log.WithFields(logrus.Fields{
				"product_id": productID,
				"error":      err,
			}).Error("failed to persist forecast for product")
			report.FailedProducts++
			continue
		}
		report.ForecastsSaved++
	}

	report.State = StateCompleted
	if report.SkippedProducts > 0 || report.FailedProducts > 0 {
		report.State = StateCompletedWithSkips
	}

	log.WithFields(logrus.Fields{
		"state":            report.State,
		"products_saved":   report.ProductsSaved,
		"forecasts_saved":  report.ForecastsSaved,
		"skipped_products": report.SkippedProducts,
		"failed_products":  report.FailedProducts,
	}).Info("pipeline run finished")

	return report
}

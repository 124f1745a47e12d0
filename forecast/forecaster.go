// Package forecast defines the contract for the external demand
// forecasting model and a client for a remote forecasting service.
package forecast

import (
	"context"
	"fmt"

	"app/models"
)

// DefaultMinPoints is the minimum number of series points required for a
// stable fit. Products below this threshold are skipped, never trained.
const DefaultMinPoints = 10

// InsufficientDataError is returned by Fit when a product's series has
// too few points to train on.
type InsufficientDataError struct {
	ProductID int64
	Points    int
	Min       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("product %d has insufficient data for training: %d points, need %d",
		e.ProductID, e.Points, e.Min)
}

// TrainedModel is a fitted model bound to a single product's series.
type TrainedModel interface {
	// Predict produces a forecast covering horizonDays future days past
	// the last observed date, plus fitted values for the historical days.
	Predict(ctx context.Context, horizonDays int) (models.Forecast, error)
}

// Forecaster fits a model to one product's daily demand series.
type Forecaster interface {
	Fit(ctx context.Context, series models.ProductSeries) (TrainedModel, error)
}

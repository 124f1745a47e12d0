package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"app/models"
)

const dateLayout = "2006-01-02"

// Client talks to an external Prophet-style forecasting service over HTTP.
// Fit validates the series locally; the actual model fit happens remotely
// when Predict posts the series together with the requested horizon.
type Client struct {
	baseURL   string
	minPoints int
	httpc     *http.Client
}

// NewClient creates a forecasting client for the service at baseURL.
// A minPoints of zero or less falls back to DefaultMinPoints.
func NewClient(baseURL string, minPoints int) *Client {
	if minPoints <= 0 {
		minPoints = DefaultMinPoints
	}
	return &Client{
		baseURL:   baseURL,
		minPoints: minPoints,
		httpc:     &http.Client{Timeout: 120 * time.Second},
	}
}

// Fit checks the series against the minimum point policy and binds it to
// a model handle. It returns InsufficientDataError for short series.
func (c *Client) Fit(_ context.Context, series models.ProductSeries) (TrainedModel, error) {
	if len(series.Points) < c.minPoints {
		return nil, &InsufficientDataError{
			ProductID: series.ProductID,
			Points:    len(series.Points),
			Min:       c.minPoints,
		}
	}
	return &remoteModel{client: c, series: series}, nil
}

// remoteModel is a TrainedModel backed by the remote service.
type remoteModel struct {
	client *Client
	series models.ProductSeries
}

type forecastRequest struct {
	ProductID   int64          `json:"product_id"`
	HorizonDays int            `json:"horizon_days"`
	Series      []requestPoint `json:"series"`
}

type requestPoint struct {
	DS string  `json:"ds"`
	Y  float64 `json:"y"`
}

type forecastResponse struct {
	Rows []responseRow `json:"rows"`
}

type responseRow struct {
	DS        string  `json:"ds"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

// Predict posts the bound series to the service and decodes the predicted
// rows. The service returns one row per historical day plus horizonDays
// future rows, ordered by date.
func (m *remoteModel) Predict(ctx context.Context, horizonDays int) (models.Forecast, error) {
	reqBody := forecastRequest{
		ProductID:   m.series.ProductID,
		HorizonDays: horizonDays,
		Series:      make([]requestPoint, 0, len(m.series.Points)),
	}
	for _, p := range m.series.Points {
		reqBody.Series = append(reqBody.Series, requestPoint{
			DS: p.Date.Format(dateLayout),
			Y:  p.Quantity,
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return models.Forecast{}, fmt.Errorf("failed to encode forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.client.baseURL+"/forecast", bytes.NewReader(payload))
	if err != nil {
		return models.Forecast{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.httpc.Do(req)
	if err != nil {
		return models.Forecast{}, fmt.Errorf("forecast service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Forecast{}, fmt.Errorf("forecast service returned status %d", resp.StatusCode)
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.Forecast{}, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	fc := models.Forecast{ProductID: m.series.ProductID}
	for _, row := range decoded.Rows {
		ds, err := time.ParseInLocation(dateLayout, row.DS, time.UTC)
		if err != nil {
			return models.Forecast{}, fmt.Errorf("forecast service returned a bad date %q: %w", row.DS, err)
		}
		fc.Points = append(fc.Points, models.ForecastPoint{
			ProductID: m.series.ProductID,
			DS:        ds,
			Yhat:      row.Yhat,
			YhatLower: row.YhatLower,
			YhatUpper: row.YhatUpper,
		})
	}

	return fc, nil
}

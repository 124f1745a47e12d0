package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

func testSeries(points int) models.ProductSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := models.ProductSeries{ProductID: 101}
	for i := 0; i < points; i++ {
		s.Points = append(s.Points, models.SeriesPoint{
			Date:     start.AddDate(0, 0, i),
			Quantity: float64(i + 1),
		})
	}
	return s
}

func TestClientFitRejectsShortSeries(t *testing.T) {
	client := NewClient("http://unused", 10)

	_, err := client.Fit(context.Background(), testSeries(9))

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(101), insufficient.ProductID)
	assert.Equal(t, 9, insufficient.Points)
	assert.Equal(t, 10, insufficient.Min)
}

func TestClientFitDefaultsMinPoints(t *testing.T) {
	client := NewClient("http://unused", 0)

	_, err := client.Fit(context.Background(), testSeries(9))
	assert.Error(t, err)

	_, err = client.Fit(context.Background(), testSeries(10))
	assert.NoError(t, err)
}

func TestClientPredictPostsSeriesAndDecodesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req struct {
			ProductID   int64 `json:"product_id"`
			HorizonDays int   `json:"horizon_days"`
			Series      []struct {
				DS string  `json:"ds"`
				Y  float64 `json:"y"`
			} `json:"series"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(101), req.ProductID)
		assert.Equal(t, 14, req.HorizonDays)
		assert.Len(t, req.Series, 12)
		assert.Equal(t, "2025-01-01", req.Series[0].DS)

		json.NewEncoder(w).Encode(map[string]any{
			"rows": []map[string]any{
				{"ds": "2025-01-13", "yhat": 4.2, "yhat_lower": -1.0, "yhat_upper": 9.9},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 10)
	model, err := client.Fit(context.Background(), testSeries(12))
	require.NoError(t, err)

	fc, err := model.Predict(context.Background(), 14)
	require.NoError(t, err)

	require.Len(t, fc.Points, 1)
	assert.Equal(t, int64(101), fc.Points[0].ProductID)
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), fc.Points[0].DS)
	assert.Equal(t, 4.2, fc.Points[0].Yhat)
	// The client does not clamp; negative bounds are the orchestrator's
	// problem.
	assert.Equal(t, -1.0, fc.Points[0].YhatLower)
}

func TestClientPredictSurfacesServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "fit failed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 10)
	model, err := client.Fit(context.Background(), testSeries(12))
	require.NoError(t, err)

	_, err = model.Predict(context.Background(), 7)
	assert.ErrorContains(t, err, "status 500")
}

package models

import "time"

// --- Raw Input ---

// RawTable holds a parsed CSV: the header row and every data row as a
// column-name -> raw-cell mapping. No typing is applied until cleaning.
type RawTable struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether the table header contains the given column.
func (t RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// --- Core Models ---

// Product represents an item in the catalog.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Code  string  `json:"code"`
	Price float64 `json:"price"`
	Stock float64 `json:"stock"`
}

// SaleRecord is one cleaned sales order line.
type SaleRecord struct {
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name"`
	UnitValue       float64   `json:"unit_value"`
	TotalOrderValue float64   `json:"total_order_value"`
	Quantity        float64   `json:"quantity"`
	Status          string    `json:"status"`
	OrderDate       time.Time `json:"order_date"`
}

// SeriesPoint is one (day, total quantity) observation for a product.
type SeriesPoint struct {
	Date     time.Time `json:"ds"`
	Quantity float64   `json:"y"`
}

// ProductSeries is the daily demand series for a single product, sorted
// by day ascending with one point per distinct day. Days with no orders
// are absent, not zero-filled.
type ProductSeries struct {
	ProductID int64         `json:"product_id"`
	Points    []SeriesPoint `json:"points"`
}

// ForecastPoint is one predicted row as persisted and served.
type ForecastPoint struct {
	ID        int64     `json:"id,omitempty"`
	ProductID int64     `json:"product_id"`
	DS        time.Time `json:"ds"`
	Yhat      float64   `json:"yhat"`
	YhatLower float64   `json:"yhat_lower"`
	YhatUpper float64   `json:"yhat_upper"`
}

// Forecast is the full predicted sequence for one product, ordered by date.
type Forecast struct {
	ProductID int64           `json:"product_id"`
	Points    []ForecastPoint `json:"points"`
}

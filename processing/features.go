package processing

import (
	"sort"
	"time"

	"app/models"
)

// ExtractSeries aggregates cleaned sales into one daily demand series per
// product. Rows are grouped by (calendar day, product) and quantities are
// summed within each group; each product's points are sorted by day
// ascending. Days without orders are left absent rather than zero-filled;
// interpolation is the forecasting model's concern.
func ExtractSeries(sales []models.SaleRecord) map[int64]models.ProductSeries {
	type dayTotal map[time.Time]float64
	totals := make(map[int64]dayTotal)

	for _, sale := range sales {
		day := sale.OrderDate.UTC().Truncate(24 * time.Hour)
		if totals[sale.ProductID] == nil {
			totals[sale.ProductID] = make(dayTotal)
		}
		totals[sale.ProductID][day] += sale.Quantity
	}

	series := make(map[int64]models.ProductSeries, len(totals))
	for productID, days := range totals {
		points := make([]models.SeriesPoint, 0, len(days))
		for day, quantity := range days {
			points = append(points, models.SeriesPoint{Date: day, Quantity: quantity})
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})
		series[productID] = models.ProductSeries{ProductID: productID, Points: points}
	}

	return series
}

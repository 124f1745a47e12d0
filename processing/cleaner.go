package processing

import (
	"strconv"
	"strings"
	"time"

	"app/models"
)

// CleanStats counts the rows excluded during cleaning, by reason. Dropped
// rows are not errors; the counters are the observable signal that a
// dataset shrank and why.
type CleanStats struct {
	InputRows        int `json:"input_rows"`
	OutputRows       int `json:"output_rows"`
	DroppedMissing   int `json:"dropped_missing"`
	DroppedBadDate   int `json:"dropped_bad_date"`
	DroppedCancelled int `json:"dropped_cancelled"`
	DroppedDuplicate int `json:"dropped_duplicate"`
}

// orderDateFormats are the accepted order_date layouts. Day/month/year is
// the primary expected format; ISO dates are accepted as a fallback since
// the two cannot be confused with each other.
var orderDateFormats = []string{"02/01/2006", "2006-01-02"}

// parseOrderDate parses an order date, normalized to midnight UTC.
func parseOrderDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range orderDateFormats {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFloat coerces a raw cell to a number. Empty or unparsable cells
// report false, the equivalent of a null after coercion.
func parseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseID coerces a raw cell to an integer identifier. Identifiers that
// arrive as decimals ("101.0") are accepted when they are whole numbers.
func parseID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// CleanProducts type-coerces, filters, and deduplicates a raw products
// table.
//
//   - price and current_stock are coerced to numeric; unparsable -> null.
//   - rows with a null id, name, or price are dropped.
//   - a null stock is kept and stored as zero.
//   - duplicate ids are dropped, keeping the first occurrence.
func CleanProducts(table models.RawTable) ([]models.Product, CleanStats) {
	stats := CleanStats{InputRows: len(table.Rows)}
	seen := make(map[int64]bool)

	var products []models.Product
	for _, row := range table.Rows {
		id, ok := parseID(row["id"])
		if !ok {
			stats.DroppedMissing++
			continue
		}
		name := strings.TrimSpace(row["name"])
		if name == "" {
			stats.DroppedMissing++
			continue
		}
		price, ok := parseFloat(row["price"])
		if !ok {
			stats.DroppedMissing++
			continue
		}
		if seen[id] {
			stats.DroppedDuplicate++
			continue
		}
		seen[id] = true

		// Stock is not critical: an unparsable value coerces to zero.
		stock, _ := parseFloat(row["current_stock"])

		products = append(products, models.Product{
			ID:    id,
			Name:  name,
			Code:  strings.TrimSpace(row["code"]),
			Price: price,
			Stock: stock,
		})
	}

	stats.OutputRows = len(products)
	return products, stats
}

// CleanSales type-coerces and filters a raw sales table.
//
//   - order_date is parsed (day/month/year primary, ISO fallback);
//     unparsable dates drop the row and are counted separately.
//   - unit_value, total_order_value, and quantity are coerced to numeric.
//   - rows with a cancelled status (case-insensitive) are dropped.
//   - rows with a null product_id, order_date, or quantity are dropped.
func CleanSales(table models.RawTable) ([]models.SaleRecord, CleanStats) {
	stats := CleanStats{InputRows: len(table.Rows)}

	var sales []models.SaleRecord
	for _, row := range table.Rows {
		status := strings.TrimSpace(row["status"])
		if strings.EqualFold(status, "cancelled") {
			stats.DroppedCancelled++
			continue
		}

		productID, ok := parseID(row["product_id"])
		if !ok {
			stats.DroppedMissing++
			continue
		}
		quantity, ok := parseFloat(row["quantity"])
		if !ok {
			stats.DroppedMissing++
			continue
		}
		orderDate, ok := parseOrderDate(row["order_date"])
		if !ok {
			stats.DroppedBadDate++
			continue
		}

		// Monetary columns are not critical; nulls coerce to zero.
		unitValue, _ := parseFloat(row["unit_value"])
		totalValue, _ := parseFloat(row["total_order_value"])

		sales = append(sales, models.SaleRecord{
			ProductID:       productID,
			ProductName:     strings.TrimSpace(row["product_name"]),
			UnitValue:       unitValue,
			TotalOrderValue: totalValue,
			Quantity:        quantity,
			Status:          status,
			OrderDate:       orderDate,
		})
	}

	stats.OutputRows = len(sales)
	return sales, stats
}

package processing

import (
	"strings"

	"app/models"
)

// ProductColumns are the columns a products CSV must contain.
var ProductColumns = []string{"id", "name", "code", "price", "current_stock"}

// SalesColumns are the columns a sales CSV must contain.
var SalesColumns = []string{
	"product_id", "product_name", "unit_value", "total_order_value",
	"quantity", "status", "order_date",
}

// ValidateTable checks that every required column is present in the table
// header. It returns false and a message enumerating all missing columns
// when validation fails. It never panics; a table that could not be parsed
// never reaches this point (ParseTable reports that failure).
func ValidateTable(table models.RawTable, required []string) (bool, string) {
	var missing []string
	for _, col := range required {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return false, "missing columns in CSV: " + strings.Join(missing, ", ")
	}

	return true, "CSV is valid"
}

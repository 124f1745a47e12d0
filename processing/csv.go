// Package processing turns raw uploaded CSV data into cleaned, typed
// datasets and per-product time series ready for model training.
package processing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"app/models"
)

// ParseTable reads CSV data into a RawTable. The first record is taken as
// the header. Rows shorter than the header leave the missing cells empty.
func ParseTable(r io.Reader) (models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return models.RawTable{}, fmt.Errorf("failed to parse CSV: file is empty")
	}

	table := models.RawTable{Columns: records[0]}
	for _, record := range records[1:] {
		row := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteProductsCSV encodes a cleaned products dataset back to CSV, for
// archival of the processed artifact.
func WriteProductsCSV(w io.Writer, products []models.Product) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "name", "code", "price", "current_stock"}); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Code,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatFloat(p.Stock, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSalesCSV encodes a cleaned sales dataset back to CSV, for archival
// of the processed artifact. Dates are written in ISO form.
func WriteSalesCSV(w io.Writer, sales []models.SaleRecord) error {
	writer := csv.NewWriter(w)
	header := []string{
		"product_id", "product_name", "unit_value", "total_order_value",
		"quantity", "status", "order_date",
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, s := range sales {
		record := []string{
			strconv.FormatInt(s.ProductID, 10),
			s.ProductName,
			strconv.FormatFloat(s.UnitValue, 'f', -1, 64),
			strconv.FormatFloat(s.TotalOrderValue, 'f', -1, 64),
			strconv.FormatFloat(s.Quantity, 'f', -1, 64),
			s.Status,
			s.OrderDate.Format("2006-01-02"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

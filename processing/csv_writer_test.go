package processing

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

func TestWriteSalesCSVUsesISODates(t *testing.T) {
	sales := []models.SaleRecord{{
		ProductID:   101,
		ProductName: "Pen",
		Quantity:    10,
		Status:      "Delivered",
		OrderDate:   time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, sales))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "2025-11-04")
}

func TestWriteProductsCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, nil))
	assert.Equal(t, "id,name,code,price,current_stock", strings.TrimSpace(buf.String()))
}

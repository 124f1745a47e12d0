package processing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanProductsDropsNullCriticalColumns(t *testing.T) {
	csv := "id,name,code,price,current_stock\n" +
		"1,Pen,P1,1.50,100\n" +
		",Pencil,P2,0.80,50\n" + // null id
		"3,,P3,2.00,10\n" + // null name
		"4,Marker,P4,not-a-price,5\n" // unparsable price -> null
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	products, stats := CleanProducts(table)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, 3, stats.DroppedMissing)
	assert.Equal(t, 4, stats.InputRows)
	assert.Equal(t, 1, stats.OutputRows)
}

func TestCleanProductsDeduplicatesKeepingFirst(t *testing.T) {
	csv := "id,name,code,price,current_stock\n" +
		"1,Pen,P1,1.50,100\n" +
		"1,Pen Updated,P1B,9.99,1\n" +
		"2,Notebook,N1,4.90,20\n"
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	products, stats := CleanProducts(table)
	require.Len(t, products, 2)
	assert.Equal(t, "Pen", products[0].Name)
	assert.Equal(t, 1.50, products[0].Price)
	assert.Equal(t, 1, stats.DroppedDuplicate)
}

func TestCleanProductsKeepsNullStockAsZero(t *testing.T) {
	csv := "id,name,code,price,current_stock\n1,Pen,P1,1.50,oops\n"
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	products, _ := CleanProducts(table)
	require.Len(t, products, 1)
	assert.Equal(t, 0.0, products[0].Stock)
}

func TestCleanSalesDropsCancelledCaseInsensitive(t *testing.T) {
	csv := "product_id,product_name,unit_value,total_order_value,quantity,status,order_date\n" +
		"101,Pen,1.50,15.00,10,Delivered,04/11/2025\n" +
		"101,Pen,1.50,15.00,10,Cancelled,05/11/2025\n" +
		"101,Pen,1.50,15.00,10,CANCELLED,06/11/2025\n" +
		"101,Pen,1.50,15.00,10,cancelled,07/11/2025\n"
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	sales, stats := CleanSales(table)
	require.Len(t, sales, 1)
	assert.Equal(t, "Delivered", sales[0].Status)
	assert.Equal(t, 3, stats.DroppedCancelled)
}

func TestCleanSalesDropsNullCriticalColumns(t *testing.T) {
	csv := "product_id,product_name,unit_value,total_order_value,quantity,status,order_date\n" +
		"101,Pen,1.50,15.00,10,Delivered,04/11/2025\n" +
		",Pen,1.50,15.00,10,Delivered,04/11/2025\n" + // null product_id
		"101,Pen,1.50,15.00,,Delivered,04/11/2025\n" + // null quantity
		"101,Pen,1.50,15.00,10,Delivered,\n" // null order_date
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	sales, stats := CleanSales(table)
	require.Len(t, sales, 1)
	assert.Equal(t, 2, stats.DroppedMissing)
	assert.Equal(t, 1, stats.DroppedBadDate)
}

func TestCleanSalesParsesDayMonthYearDates(t *testing.T) {
	csv := "product_id,product_name,unit_value,total_order_value,quantity,status,order_date\n" +
		"101,Pen,1.50,15.00,10,Delivered,04/11/2025\n"
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	sales, _ := CleanSales(table)
	require.Len(t, sales, 1)
	assert.Equal(t, 2025, sales[0].OrderDate.Year())
	assert.Equal(t, time.November, sales[0].OrderDate.Month())
	assert.Equal(t, 4, sales[0].OrderDate.Day())
}

func TestCleanSalesParsesISODatesAsFallback(t *testing.T) {
	csv := "product_id,product_name,unit_value,total_order_value,quantity,status,order_date\n" +
		"101,Pen,1.50,15.00,10,Delivered,2025-11-04\n"
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	sales, stats := CleanSales(table)
	require.Len(t, sales, 1)
	assert.Equal(t, 0, stats.DroppedBadDate)
	assert.Equal(t, 2025, sales[0].OrderDate.Year())
	assert.Equal(t, time.November, sales[0].OrderDate.Month())
	assert.Equal(t, 4, sales[0].OrderDate.Day())
}

func TestCleanSalesCountsUnparsableDatesAsDropped(t *testing.T) {
	csv := "product_id,product_name,unit_value,total_order_value,quantity,status,order_date\n" +
		"101,Pen,1.50,15.00,10,Delivered,November 4th 2025\n"
	table, err := ParseTable(strings.NewReader(csv))
	require.NoError(t, err)

	sales, stats := CleanSales(table)
	assert.Empty(t, sales)
	assert.Equal(t, 1, stats.DroppedBadDate)
}

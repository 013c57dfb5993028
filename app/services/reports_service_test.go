package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReports(t *testing.T) (*StateStore, *ReportsService) {
	t.Helper()
	store := newTestStore(t)
	seedSales(store)
	return store, NewReportsService(store, NewExpenseService(store), "")
}

func TestSalesTable(t *testing.T) {
	_, reports := newTestReports(t)

	table := reports.SalesTable(DateRange{From: day(2024, time.March, 1)})
	assert.Equal(t, []string{"Producto", "Presentación", "Cantidad", "Total"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Agua", "500ml", "3", "$4.50"}, table.Rows[0])
	assert.Equal(t, []string{"Hielo", "1L", "3", "$9.00"}, table.Rows[1])
	assert.Equal(t, []string{"TOTAL", "", "6", "$13.50"}, table.Rows[2])
	assert.Contains(t, table.Title, "2024-03-01")
}

func TestExpensesTable(t *testing.T) {
	store, reports := newTestReports(t)
	expenses := NewExpenseService(store)
	cat, err := expenses.FindCategory("Otros")
	require.NoError(t, err)
	_, err = expenses.AddExpense(ExpenseInput{CategoryID: cat.ID, Amount: 3.5, Description: "Bolsas", Date: day(2024, time.March, 3)})
	require.NoError(t, err)
	_, err = expenses.AddExpense(ExpenseInput{CategoryID: cat.ID, Amount: 1.25, Description: "Cinta", Date: day(2024, time.March, 1)})
	require.NoError(t, err)

	table, err := reports.Table(ReportExpenses, DateRange{}, "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"2024-03-01", "Otros", "Cinta", "$1.25"}, table.Rows[0])
	assert.Equal(t, []string{"TOTAL", "", "", "$4.75"}, table.Rows[2])

	_, err = reports.Table("inventory", DateRange{}, "")
	assert.Error(t, err)
}

func TestReportWriters(t *testing.T) {
	_, reports := newTestReports(t)
	table := reports.SalesTable(DateRange{})

	var csvOut bytes.Buffer
	require.NoError(t, reports.Write(table, FormatCSV, &csvOut))
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	assert.Len(t, lines, len(table.Rows)+1)
	assert.Equal(t, "Producto,Presentación,Cantidad,Total", lines[0])

	var xlsx bytes.Buffer
	require.NoError(t, reports.Write(table, FormatXLSX, &xlsx))
	assert.True(t, bytes.HasPrefix(xlsx.Bytes(), []byte("PK")))

	var pdf bytes.Buffer
	require.NoError(t, reports.Write(table, FormatPDF, &pdf))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))

	assert.Error(t, reports.Write(table, "docx", &pdf))
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", columnName(1))
	assert.Equal(t, "Z", columnName(26))
	assert.Equal(t, "AA", columnName(27))
	assert.Equal(t, "AZ", columnName(52))
}

package services

import (
	"bytes"
	"testing"
	"time"

	"AguaPos/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func seedSales(store *StateStore) {
	store.State().SalesHistory = []models.SaleRecord{
		{ID: "s1", Date: day(2024, time.February, 20), Total: 10, Items: []models.SaleLineItem{
			{ProductID: "p1", ProductName: "Agua", PresentationName: "1L", Price: 2, Count: 5, Total: 10},
		}},
		{ID: "s2", Date: day(2024, time.March, 11), Total: 7.5, Items: []models.SaleLineItem{
			{ProductID: "p1", ProductName: "Agua", PresentationName: "500ml", Price: 1.5, Count: 3, Total: 4.5},
			{ProductID: "p2", ProductName: "Hielo", PresentationName: "1L", Price: 3, Count: 1, Total: 3},
		}},
		{ID: "s3", Date: testNow, Total: 6, Items: []models.SaleLineItem{
			{ProductID: "p2", ProductName: "Hielo", PresentationName: "1L", Price: 3, Count: 2, Total: 6},
		}},
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{From: day(2024, time.March, 1), To: day(2024, time.March, 11)}
	assert.True(t, r.Contains(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, time.March, 11, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(day(2024, time.February, 29)))
	assert.True(t, DateRange{}.Contains(day(1999, time.January, 1)))
}

func TestSalesHistory(t *testing.T) {
	store := newTestStore(t)
	seedSales(store)
	sales := NewSalesService(store)

	all := sales.GetSales(DateRange{})
	require.Len(t, all, 3)
	assert.Equal(t, "s3", all[0].ID)

	march := sales.GetSales(DateRange{From: day(2024, time.March, 1)})
	assert.Len(t, march, 2)

	sale, err := sales.GetSale("s2")
	require.NoError(t, err)
	assert.Equal(t, 7.5, sale.Total)

	require.NoError(t, sales.DeleteSale("s2"))
	assert.ErrorIs(t, sales.DeleteSale("s2"), ErrSaleNotFound)
	_, err = sales.GetSale("s2")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestSalesExportCSV(t *testing.T) {
	store := newTestStore(t)
	seedSales(store)

	var buf bytes.Buffer
	require.NoError(t, NewSalesService(store).ExportCSV(DateRange{From: day(2024, time.March, 11), To: day(2024, time.March, 11)}, &buf))

	out := buf.String()
	assert.Contains(t, out, "sale_id,date,product,presentation,unit_price,count,line_total")
	assert.Contains(t, out, "s2,2024-03-11 12:00,Agua,500ml,")
	assert.Contains(t, out, "s2,2024-03-11 12:00,Hielo,1L,")
	assert.NotContains(t, out, "s3")
}

func TestDashboardStats(t *testing.T) {
	store := newTestStore(t)
	seedSales(store)
	store.State().Expenses = []models.Expense{
		{ID: "e1", Date: testNow, Amount: 2.5},
		{ID: "e2", Date: day(2024, time.March, 2), Amount: 4},
		{ID: "e3", Date: day(2024, time.January, 2), Amount: 100},
	}

	stats := NewDashboardService(store).GetDashboardStats(1)
	assert.Equal(t, 6.0, stats.TodaySales)
	// Week starts Sunday March 10
	assert.Equal(t, 13.5, stats.WeekSales)
	assert.Equal(t, 13.5, stats.MonthSales)
	assert.Equal(t, 23.5, stats.AllTimeSales)
	assert.Equal(t, 3, stats.SalesCount)
	assert.Equal(t, 2.5, stats.TodayExpenses)
	assert.Equal(t, 6.5, stats.MonthExpenses)

	require.Len(t, stats.TopSellingItems, 1)
	assert.Equal(t, "Agua", stats.TopSellingItems[0].ProductName)
	assert.Equal(t, 14.5, stats.TopSellingItems[0].TotalSales)
	assert.Equal(t, 8, stats.TopSellingItems[0].Quantity)
}

func TestTopProductsInRange(t *testing.T) {
	store := newTestStore(t)
	seedSales(store)

	top := NewDashboardService(store).GetTopProducts(DateRange{From: day(2024, time.March, 1)}, 0)
	require.Len(t, top, 2)
	assert.Equal(t, "Hielo", top[0].ProductName)
	assert.Equal(t, 9.0, top[0].TotalSales)
	assert.Equal(t, 4.5, top[1].TotalSales)
}

func TestExpenseCategories(t *testing.T) {
	store := newTestStore(t)
	expenses := NewExpenseService(store)

	fuel, err := expenses.CreateCategory("Combustible")
	require.NoError(t, err)
	_, err = expenses.CreateCategory(" combustible")
	assert.ErrorIs(t, err, ErrDuplicateCategory)
	_, err = expenses.CreateCategory("")
	assert.ErrorIs(t, err, ErrEmptyCategoryName)

	found, err := expenses.FindCategory("COMBUSTIBLE")
	require.NoError(t, err)
	assert.Equal(t, fuel.ID, found.ID)

	e, err := expenses.AddExpense(ExpenseInput{CategoryID: fuel.ID, Amount: 20, Description: "Diesel"})
	require.NoError(t, err)
	assert.Equal(t, testNow, e.Date)

	_, err = expenses.RenameCategory(fuel.ID, "Gasolina")
	require.NoError(t, err)
	assert.Equal(t, "Gasolina", expenses.CategoryName(store.State().Expenses[0]))

	require.NoError(t, expenses.DeleteCategory(fuel.ID))
	assert.Equal(t, "Gasolina", expenses.CategoryName(store.State().Expenses[0]))
	assert.ErrorIs(t, expenses.DeleteCategory(fuel.ID), ErrCategoryNotFound)
}

func TestExpensesFilterAndTotals(t *testing.T) {
	store := newTestStore(t)
	expenses := NewExpenseService(store)
	supplies, err := expenses.FindCategory("Insumos")
	require.NoError(t, err)
	services, err := expenses.FindCategory("Servicios")
	require.NoError(t, err)

	_, err = expenses.AddExpense(ExpenseInput{CategoryID: supplies.ID, Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = expenses.AddExpense(ExpenseInput{CategoryID: "missing", Amount: 5})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	inputs := []ExpenseInput{
		{CategoryID: supplies.ID, Amount: 12.5, Description: "Tapas", Date: day(2024, time.March, 1)},
		{CategoryID: supplies.ID, Amount: 7.25, Description: "Botellones", Date: day(2024, time.March, 5)},
		{CategoryID: services.ID, Amount: 30, Description: "Luz", Date: day(2024, time.March, 10)},
	}
	for _, in := range inputs {
		_, err := expenses.AddExpense(in)
		require.NoError(t, err)
	}

	list := expenses.GetExpenses(ExpenseFilter{Keyword: "insumos"})
	require.Len(t, list, 2)
	assert.Equal(t, "Botellones", list[0].Description)

	list = expenses.GetExpenses(ExpenseFilter{Keyword: "LUZ"})
	assert.Len(t, list, 1)

	list = expenses.GetExpenses(ExpenseFilter{Range: DateRange{From: day(2024, time.March, 4), To: day(2024, time.March, 6)}})
	assert.Len(t, list, 1)

	totals := expenses.TotalsByCategory(ExpenseFilter{})
	require.Len(t, totals, 2)
	assert.Equal(t, CategoryTotal{CategoryName: "Servicios", Total: 30, Count: 1}, totals[0])
	assert.Equal(t, CategoryTotal{CategoryName: "Insumos", Total: 19.75, Count: 2}, totals[1])

	id := list[0].ID
	require.NoError(t, expenses.DeleteExpense(id))
	assert.ErrorIs(t, expenses.DeleteExpense(id), ErrExpenseNotFound)
}

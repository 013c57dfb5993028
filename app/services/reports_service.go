package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// ReportsService builds tabular reports and renders them to documents
type ReportsService struct {
	*BaseService
	expenses *ExpenseService
	currency string
}

// NewReportsService creates a new reports service
func NewReportsService(store *StateStore, expenses *ExpenseService, currencySymbol string) *ReportsService {
	if currencySymbol == "" {
		currencySymbol = "$"
	}
	return &ReportsService{
		BaseService: NewBaseService(store),
		expenses:    expenses,
		currency:    currencySymbol,
	}
}

// Table is a report ready for any document writer. The last row of a
// report with totals holds them.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Report types
const (
	ReportSales    = "sales"
	ReportExpenses = "expenses"
)

// Output formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

func (s *ReportsService) amount(v float64) string {
	return fmt.Sprintf("%s%.2f", s.currency, v)
}

func rangeLabel(r DateRange) string {
	from, to := "inicio", "hoy"
	if !r.From.IsZero() {
		from = r.From.Format("2006-01-02")
	}
	if !r.To.IsZero() {
		to = r.To.Format("2006-01-02")
	}
	return from + " a " + to
}

// SalesTable aggregates sold units and revenue by product and presentation,
// followed by a totals row
func (s *ReportsService) SalesTable(r DateRange) *Table {
	type key struct{ product, presentation string }
	type agg struct {
		count int
		total decimal.Decimal
	}
	byKey := make(map[key]*agg)
	var keys []key

	for _, sale := range s.State().SalesHistory {
		if !r.Contains(sale.Date) {
			continue
		}
		for _, line := range sale.Items {
			k := key{line.ProductName, line.PresentationName}
			a, ok := byKey[k]
			if !ok {
				a = &agg{}
				byKey[k] = a
				keys = append(keys, k)
			}
			a.count += line.Count
			a.total = a.total.Add(money(line.Total))
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].product != keys[j].product {
			return normalizeName(keys[i].product) < normalizeName(keys[j].product)
		}
		return keys[i].presentation < keys[j].presentation
	})

	table := &Table{
		Title:   "Ventas por producto " + rangeLabel(r),
		Headers: []string{"Producto", "Presentación", "Cantidad", "Total"},
		Rows:    [][]string{},
	}
	units := 0
	grand := decimal.Zero
	for _, k := range keys {
		a := byKey[k]
		units += a.count
		grand = grand.Add(a.total)
		table.Rows = append(table.Rows, []string{k.product, k.presentation, fmt.Sprint(a.count), s.amount(toAmount(a.total))})
	}
	table.Rows = append(table.Rows, []string{"TOTAL", "", fmt.Sprint(units), s.amount(toAmount(grand))})
	return table
}

// ExpensesTable lists expenses by date with their category, followed by a
// totals row
func (s *ReportsService) ExpensesTable(r DateRange, keyword string) *Table {
	list := s.expenses.GetExpenses(ExpenseFilter{Range: r, Keyword: keyword})
	// Oldest first reads better on paper
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})

	table := &Table{
		Title:   "Gastos " + rangeLabel(r),
		Headers: []string{"Fecha", "Categoría", "Descripción", "Monto"},
		Rows:    [][]string{},
	}
	total := decimal.Zero
	for _, e := range list {
		total = total.Add(money(e.Amount))
		table.Rows = append(table.Rows, []string{
			e.Date.Format("2006-01-02"),
			s.expenses.CategoryName(e),
			e.Description,
			s.amount(e.Amount),
		})
	}
	table.Rows = append(table.Rows, []string{"TOTAL", "", "", s.amount(toAmount(total))})
	return table
}

// Table builds the named report
func (s *ReportsService) Table(reportType string, r DateRange, keyword string) (*Table, error) {
	switch reportType {
	case ReportSales:
		return s.SalesTable(r), nil
	case ReportExpenses:
		return s.ExpensesTable(r, keyword), nil
	}
	return nil, fmt.Errorf("unknown report type: %s", reportType)
}

// Write renders the table in the given format
func (s *ReportsService) Write(t *Table, format string, w io.Writer) error {
	switch format {
	case FormatCSV:
		return WriteCSV(t, w)
	case FormatXLSX:
		return WriteXLSX(t, w)
	case FormatPDF:
		return WritePDF(t, w)
	}
	return fmt.Errorf("unsupported format: %s", format)
}

// WriteCSV writes the headers and rows as CSV
func WriteCSV(t *Table, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Headers); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

const xlsxSheet = "Sheet1"

// columnName converts a 1-based column index to its spreadsheet letters
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// WriteXLSX writes the table as a workbook with a title row, bold headers
// and bold totals
func WriteXLSX(t *Table, w io.Writer) error {
	f := excelize.NewFile()

	bold, err := f.NewStyle(`{"font":{"bold":true}}`)
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	f.SetCellValue(xlsxSheet, "A1", t.Title)
	f.SetCellStyle(xlsxSheet, "A1", "A1", bold)

	last := columnName(len(t.Headers))
	for i, h := range t.Headers {
		f.SetCellValue(xlsxSheet, fmt.Sprintf("%s3", columnName(i+1)), h)
	}
	if len(t.Headers) > 0 {
		f.SetCellStyle(xlsxSheet, "A3", last+"3", bold)
		f.SetColWidth(xlsxSheet, "A", last, 20)
	}

	for r, row := range t.Rows {
		for c, cell := range row {
			f.SetCellValue(xlsxSheet, fmt.Sprintf("%s%d", columnName(c+1), r+4), cell)
		}
	}
	if n := len(t.Rows); n > 0 && len(t.Headers) > 0 {
		f.SetCellStyle(xlsxSheet, fmt.Sprintf("A%d", n+3), fmt.Sprintf("%s%d", last, n+3), bold)
	}

	return f.Write(w)
}

// WritePDF writes the table as a single A4 document
func WritePDF(t *Table, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(t.Headers) == 0 {
		return pdf.Output(w)
	}
	width := 190.0 / float64(len(t.Headers))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(220, 230, 241)
	for _, h := range t.Headers {
		pdf.CellFormat(width, 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for i, row := range t.Rows {
		if i == len(t.Rows)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		for c := range t.Headers {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			pdf.CellFormat(width, 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

package services

import (
	"io"
	"sort"
	"time"

	"AguaPos/app/models"

	"github.com/gocarina/gocsv"
)

// SalesService handles the history of closed days
type SalesService struct {
	*BaseService
}

// NewSalesService creates a new sales service
func NewSalesService(store *StateStore) *SalesService {
	return &SalesService{BaseService: NewBaseService(store)}
}

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the range, comparing whole days
// in t's location
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(startOfDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && !t.Before(startOfDay(r.To).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetSales returns sales within the range, newest first
func (s *SalesService) GetSales(r DateRange) []models.SaleRecord {
	var sales []models.SaleRecord
	for _, sale := range s.State().SalesHistory {
		if r.Contains(sale.Date) {
			sales = append(sales, sale)
		}
	}
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Date.After(sales[j].Date)
	})
	return sales
}

// GetSale gets a single sale by ID
func (s *SalesService) GetSale(id string) (*models.SaleRecord, error) {
	for _, sale := range s.State().SalesHistory {
		if sale.ID == id {
			found := sale
			return &found, nil
		}
	}
	return nil, ErrSaleNotFound
}

// DeleteSale removes a sale record. Records are never edited otherwise.
func (s *SalesService) DeleteSale(id string) error {
	history := s.State().SalesHistory
	for i, sale := range history {
		if sale.ID == id {
			s.State().SalesHistory = append(history[:i], history[i+1:]...)
			return s.Persist()
		}
	}
	return ErrSaleNotFound
}

// ExportCSV writes one row per sale line within the range
func (s *SalesService) ExportCSV(r DateRange, w io.Writer) error {
	rows := []models.SaleCSVRow{}
	for _, sale := range s.GetSales(r) {
		for _, line := range sale.Items {
			rows = append(rows, models.SaleCSVRow{
				SaleID:           sale.ID,
				Date:             sale.Date.Format("2006-01-02 15:04"),
				ProductName:      line.ProductName,
				PresentationName: line.PresentationName,
				Price:            line.Price,
				Count:            line.Count,
				Total:            line.Total,
			})
		}
	}
	return gocsv.Marshal(&rows, w)
}

package models

import "time"

// SaleRecord is the immutable summary of one closed day
type SaleRecord struct {
	ID    string         `json:"id"`
	Date  time.Time      `json:"date"`
	Total float64        `json:"total"`
	Items []SaleLineItem `json:"items"`
}

// SaleLineItem is one sold presentation of a product
type SaleLineItem struct {
	ProductID        string  `json:"productId"`
	ProductName      string  `json:"productName"`
	PresentationName string  `json:"presentationName"`
	Price            float64 `json:"price"`
	Count            int     `json:"count"`
	Total            float64 `json:"total"`
}

// SaleCSVRow is the flat projection of a sale line used by the CSV ledger export
type SaleCSVRow struct {
	SaleID           string  `csv:"sale_id"`
	Date             string  `csv:"date"`
	ProductName      string  `csv:"product"`
	PresentationName string  `csv:"presentation"`
	Price            float64 `csv:"unit_price"`
	Count            int     `csv:"count"`
	Total            float64 `csv:"line_total"`
}

package models

import "time"

// Expense represents a business expense
type Expense struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	CategoryID   string    `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"` // Fallback when the category is gone
	Amount       float64   `json:"amount"`
	Description  string    `json:"description"`
}

// ExpenseCategory groups expenses
type ExpenseCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultExpenseCategories are created on first run
var DefaultExpenseCategories = []string{"Insumos", "Servicios", "Otros"}

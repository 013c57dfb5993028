package services

import (
	"sort"
	"strings"
	"time"

	"AguaPos/app/models"

	"github.com/shopspring/decimal"
)

// ExpenseService handles expenses and their categories
type ExpenseService struct {
	*BaseService
}

// NewExpenseService creates a new expense service
func NewExpenseService(store *StateStore) *ExpenseService {
	return &ExpenseService{BaseService: NewBaseService(store)}
}

// ExpenseInput carries the fields of a new expense
type ExpenseInput struct {
	CategoryID  string
	Amount      float64
	Description string
	Date        time.Time // Zero means now
}

// ExpenseFilter narrows an expense listing
type ExpenseFilter struct {
	Range   DateRange
	Keyword string // Matches description or category name, case-insensitive
}

// CategoryTotal is the expense total of one category
type CategoryTotal struct {
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
}

// Categories

// GetAllCategories returns the categories sorted by name
func (s *ExpenseService) GetAllCategories() []models.ExpenseCategory {
	cats := append([]models.ExpenseCategory(nil), s.State().ExpenseCategories...)
	sort.SliceStable(cats, func(i, j int) bool {
		return normalizeName(cats[i].Name) < normalizeName(cats[j].Name)
	})
	return cats
}

// FindCategory resolves a category by id or case-insensitive name
func (s *ExpenseService) FindCategory(idOrName string) (*models.ExpenseCategory, error) {
	key := normalizeName(idOrName)
	for _, c := range s.State().ExpenseCategories {
		if c.ID == idOrName || normalizeName(c.Name) == key {
			found := c
			return &found, nil
		}
	}
	return nil, ErrCategoryNotFound
}

// CreateCategory adds a category
func (s *ExpenseService) CreateCategory(name string) (*models.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if err := s.validateCategory("", name); err != nil {
		return nil, err
	}
	cat := models.ExpenseCategory{ID: s.newID(), Name: name}
	s.State().ExpenseCategories = append(s.State().ExpenseCategories, cat)
	if err := s.Persist(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// RenameCategory renames a category and the fallback name on its expenses
func (s *ExpenseService) RenameCategory(id, name string) (*models.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	idx := s.categoryIndex(id)
	if idx < 0 {
		return nil, ErrCategoryNotFound
	}
	if err := s.validateCategory(id, name); err != nil {
		return nil, err
	}

	state := s.State()
	state.ExpenseCategories[idx].Name = name
	for i := range state.Expenses {
		if state.Expenses[i].CategoryID == id {
			state.Expenses[i].CategoryName = name
		}
	}

	if err := s.Persist(); err != nil {
		return nil, err
	}
	cat := state.ExpenseCategories[idx]
	return &cat, nil
}

// DeleteCategory removes a category. Its expenses keep the category name.
func (s *ExpenseService) DeleteCategory(id string) error {
	idx := s.categoryIndex(id)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	state := s.State()
	for i := range state.Expenses {
		if state.Expenses[i].CategoryID == id {
			state.Expenses[i].CategoryID = ""
		}
	}
	state.ExpenseCategories = append(state.ExpenseCategories[:idx], state.ExpenseCategories[idx+1:]...)
	return s.Persist()
}

// Expenses

// AddExpense records an expense
func (s *ExpenseService) AddExpense(input ExpenseInput) (*models.Expense, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	idx := s.categoryIndex(input.CategoryID)
	if idx < 0 {
		return nil, ErrCategoryNotFound
	}
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	cat := s.State().ExpenseCategories[idx]
	expense := models.Expense{
		ID:           s.newID(),
		Date:         date,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Amount:       toAmount(money(input.Amount)),
		Description:  strings.TrimSpace(input.Description),
	}
	s.State().Expenses = append(s.State().Expenses, expense)
	if err := s.Persist(); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense removes an expense by id
func (s *ExpenseService) DeleteExpense(id string) error {
	expenses := s.State().Expenses
	for i, e := range expenses {
		if e.ID == id {
			s.State().Expenses = append(expenses[:i], expenses[i+1:]...)
			return s.Persist()
		}
	}
	return ErrExpenseNotFound
}

// CategoryName resolves the display name of an expense's category
func (s *ExpenseService) CategoryName(e models.Expense) string {
	if e.CategoryID != "" {
		if idx := s.categoryIndex(e.CategoryID); idx >= 0 {
			return s.State().ExpenseCategories[idx].Name
		}
	}
	if e.CategoryName != "" {
		return e.CategoryName
	}
	return "Sin categoría"
}

// GetExpenses returns matching expenses, newest first
func (s *ExpenseService) GetExpenses(filter ExpenseFilter) []models.Expense {
	keyword := normalizeName(filter.Keyword)
	var out []models.Expense
	for _, e := range s.State().Expenses {
		if !filter.Range.Contains(e.Date) {
			continue
		}
		if keyword != "" {
			haystack := strings.ToLower(e.Description + " " + s.CategoryName(e))
			if !strings.Contains(haystack, keyword) {
				continue
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// TotalsByCategory sums the filtered expenses per category, largest first
func (s *ExpenseService) TotalsByCategory(filter ExpenseFilter) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	var names []string
	for _, e := range s.GetExpenses(filter) {
		name := s.CategoryName(e)
		if _, ok := totals[name]; !ok {
			names = append(names, name)
		}
		totals[name] = totals[name].Add(money(e.Amount))
		counts[name]++
	}

	out := make([]CategoryTotal, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryTotal{CategoryName: name, Total: toAmount(totals[name]), Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

func (s *ExpenseService) validateCategory(id, name string) error {
	if name == "" {
		return ErrEmptyCategoryName
	}
	key := normalizeName(name)
	for _, c := range s.State().ExpenseCategories {
		if c.ID != id && normalizeName(c.Name) == key {
			return ErrDuplicateCategory
		}
	}
	return nil
}

func (s *ExpenseService) categoryIndex(id string) int {
	for i, c := range s.State().ExpenseCategories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

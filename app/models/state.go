package models

// DataVersion tags the persisted document layout
const DataVersion = "2"

// AppState is the whole durable state of the application.
// It is saved and exported as a single JSON document.
type AppState struct {
	Products          []Product         `json:"products"`
	SalesHistory      []SaleRecord      `json:"salesHistory"`
	Expenses          []Expense         `json:"expenses"`
	ExpenseCategories []ExpenseCategory `json:"expenseCategories"`
	POSActiveProducts []POSEntry        `json:"posActiveProducts"`
	Presentations     []Presentation    `json:"presentations"`
	DataVersion       string            `json:"dataVersion"`

	// NextPresentationID is the id the next created presentation gets.
	// It only grows, so ids of deleted presentations are never reused.
	NextPresentationID int `json:"nextPresentationId"`
}

// NewAppState returns an empty state with non-nil collections
func NewAppState() *AppState {
	return &AppState{
		Products:          []Product{},
		SalesHistory:      []SaleRecord{},
		Expenses:          []Expense{},
		ExpenseCategories: []ExpenseCategory{},
		POSActiveProducts: []POSEntry{},
		Presentations:     []Presentation{},
		DataVersion:       DataVersion,
	}
}

// Normalize replaces nil collections so the document always serializes arrays
func (s *AppState) Normalize() {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.SalesHistory == nil {
		s.SalesHistory = []SaleRecord{}
	}
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	if s.ExpenseCategories == nil {
		s.ExpenseCategories = []ExpenseCategory{}
	}
	if s.POSActiveProducts == nil {
		s.POSActiveProducts = []POSEntry{}
	}
	if s.Presentations == nil {
		s.Presentations = []Presentation{}
	}
	for i := range s.Products {
		if s.Products[i].Presentations == nil {
			s.Products[i].Presentations = []ProductPresentation{}
		}
	}
	s.DataVersion = DataVersion
	s.raisePresentationSequence()
}

// AllocatePresentationID returns a fresh presentation id and advances the
// sequence
func (s *AppState) AllocatePresentationID() int {
	s.raisePresentationSequence()
	id := s.NextPresentationID
	s.NextPresentationID++
	return id
}

// raisePresentationSequence keeps the sequence above every id still in use,
// including copies held by products and the open session
func (s *AppState) raisePresentationSequence() {
	floor := func(id int) {
		if id >= s.NextPresentationID {
			s.NextPresentationID = id + 1
		}
	}
	floor(0)
	for _, p := range s.Presentations {
		floor(p.ID)
	}
	for i := range s.Products {
		for _, ref := range s.Products[i].Presentations {
			floor(ref.PresentationID)
		}
	}
	for i := range s.POSActiveProducts {
		for _, it := range s.POSActiveProducts[i].Items {
			floor(it.PresentationID)
		}
	}
}

package services

import (
	"AguaPos/app/config"
	"AguaPos/app/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// POSService runs the daily sales session: the products selected for the
// day, their running counters and the undo history of counter edits
type POSService struct {
	*BaseService
	emptyCloseMode string
}

// NewPOSService creates a new POS service
func NewPOSService(store *StateStore, cfg config.POSConfig) *POSService {
	mode := cfg.EmptyCloseMode
	if mode != config.EmptyCloseReset {
		mode = config.EmptyCloseRecord
	}
	return &POSService{
		BaseService:    NewBaseService(store),
		emptyCloseMode: mode,
	}
}

// CloseOptions controls CloseDay
type CloseOptions struct {
	// ConfirmEmpty allows closing a day on which nothing was sold
	ConfirmEmpty bool
}

// IsActive reports whether a day is open
func (s *POSService) IsActive() bool {
	return len(s.State().POSActiveProducts) > 0
}

// Entries returns a copy of the open session
func (s *POSService) Entries() []models.POSEntry {
	return models.CloneEntries(s.State().POSActiveProducts)
}

// CanUndo reports whether a counter change can be reverted
func (s *POSService) CanUndo() bool {
	return s.store.undo.CanUndo()
}

// UndoDepth returns the number of stored snapshots
func (s *POSService) UndoDepth() int {
	return s.store.undo.Depth()
}

// StartSession opens a day with the selected products. Ids that are not in
// the catalog are skipped; prices are fixed for the whole session.
func (s *POSService) StartSession(productIDs []string) ([]models.POSEntry, error) {
	if len(productIDs) == 0 {
		return nil, ErrEmptySelection
	}
	if s.IsActive() {
		return nil, ErrSessionActive
	}

	catalog := make(map[string]models.Product, len(s.State().Products))
	for _, p := range s.State().Products {
		catalog[p.ID] = p
	}

	seen := make(map[string]bool, len(productIDs))
	entries := make([]models.POSEntry, 0, len(productIDs))
	for _, id := range productIDs {
		product, ok := catalog[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true

		entry := models.POSEntry{
			ProductID: product.ID,
			Name:      product.Name,
			Color:     product.Color,
			Items:     make([]models.PresentationItem, 0, len(product.Presentations)),
		}
		entry.Presentations = models.ClonePresentations(product.Presentations)
		for _, pp := range product.Presentations {
			entry.Items = append(entry.Items, models.PresentationItem{
				PresentationID: pp.PresentationID,
				Price:          ResolveUnitPrice(product.PricePerLiter, pp),
				Count:          0,
			})
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrEmptySelection
	}

	s.State().POSActiveProducts = entries
	s.store.undo.Clear()
	if err := s.Persist(); err != nil {
		return nil, err
	}

	zap.S().Infow("Day started", "products", len(entries))
	return s.Entries(), nil
}

// UpdateItemCount adds delta to a presentation counter. A result below zero
// is rejected without touching state or undo history.
func (s *POSService) UpdateItemCount(productID string, presentationID int, delta int) (int, error) {
	entryIdx, item := s.findItem(productID, presentationID)
	if item == nil {
		return 0, ErrItemNotFound
	}

	if delta == 0 {
		return item.Count, nil
	}
	newCount := item.Count + delta
	if newCount < 0 {
		return item.Count, ErrNegativeCount
	}

	s.store.undo.Push(s.State().POSActiveProducts)
	s.State().POSActiveProducts[entryIdx].Item(presentationID).Count = newCount

	if err := s.Persist(); err != nil {
		return 0, err
	}
	return newCount, nil
}

// ResetProductCounts sets every counter of a product to zero. Returns false
// without recording history when all counters were already zero.
func (s *POSService) ResetProductCounts(productID string) (bool, error) {
	idx := s.entryIndex(productID)
	if idx < 0 {
		return false, ErrItemNotFound
	}

	entry := &s.State().POSActiveProducts[idx]
	dirty := false
	for _, it := range entry.Items {
		if it.Count != 0 {
			dirty = true
			break
		}
	}
	if !dirty {
		return false, nil
	}

	s.store.undo.Push(s.State().POSActiveProducts)
	for i := range entry.Items {
		entry.Items[i].Count = 0
	}

	if err := s.Persist(); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPresentationCount sets one counter to zero. Returns false without
// recording history when it was already zero.
func (s *POSService) ResetPresentationCount(productID string, presentationID int) (bool, error) {
	entryIdx, item := s.findItem(productID, presentationID)
	if item == nil {
		return false, ErrItemNotFound
	}
	if item.Count == 0 {
		return false, nil
	}

	s.store.undo.Push(s.State().POSActiveProducts)
	s.State().POSActiveProducts[entryIdx].Item(presentationID).Count = 0

	if err := s.Persist(); err != nil {
		return false, err
	}
	return true, nil
}

// Undo restores the session to the state before the last counter change
func (s *POSService) Undo() error {
	snapshot, ok := s.store.undo.Pop()
	if !ok {
		return ErrNothingToUndo
	}
	s.State().POSActiveProducts = snapshot
	return s.Persist()
}

// ComputeTotal returns the sum of price × count over the open session
func (s *POSService) ComputeTotal() float64 {
	return toAmount(sessionTotal(s.State().POSActiveProducts))
}

// EntryTotal returns the running total of one product
func (s *POSService) EntryTotal(productID string) float64 {
	idx := s.entryIndex(productID)
	if idx < 0 {
		return 0
	}
	return toAmount(sessionTotal(s.State().POSActiveProducts[idx : idx+1]))
}

func sessionTotal(entries []models.POSEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		for _, it := range e.Items {
			total = total.Add(money(it.Price).Mul(decimal.NewFromInt(int64(it.Count))))
		}
	}
	return total
}

// CloseDay folds the positive counters into one sale record, appends it to
// the sales history and clears the session and its undo history.
//
// When nothing was sold the caller must confirm; in "reset" mode the session
// is then cleared without a record and the returned record is nil.
func (s *POSService) CloseDay(opts CloseOptions) (*models.SaleRecord, error) {
	if !s.IsActive() {
		return nil, ErrNoActiveSession
	}

	record := BuildSaleRecord(s.State().POSActiveProducts)
	if len(record.Items) == 0 && !opts.ConfirmEmpty {
		return nil, ErrEmptyCloseConfirm
	}

	var closed *models.SaleRecord
	if len(record.Items) > 0 || s.emptyCloseMode == config.EmptyCloseRecord {
		record.ID = s.newID()
		record.Date = s.now()
		s.State().SalesHistory = append(s.State().SalesHistory, record)
		closed = &record
	}

	s.State().POSActiveProducts = []models.POSEntry{}
	s.store.undo.Clear()

	if err := s.Persist(); err != nil {
		return nil, err
	}

	if closed != nil {
		zap.S().Infow("Day closed", "sale", closed.ID, "total", closed.Total, "lines", len(closed.Items))
	} else {
		zap.S().Info("Day closed without sales, no record kept")
	}
	return closed, nil
}

// BuildSaleRecord projects a session into an unsaved sale record holding
// only the presentations with a positive count
func BuildSaleRecord(entries []models.POSEntry) models.SaleRecord {
	record := models.SaleRecord{Items: []models.SaleLineItem{}}
	total := decimal.Zero
	for _, e := range entries {
		for _, it := range e.Items {
			if it.Count <= 0 {
				continue
			}
			line := models.SaleLineItem{
				ProductID:        e.ProductID,
				ProductName:      e.Name,
				PresentationName: e.PresentationName(it.PresentationID),
				Price:            it.Price,
				Count:            it.Count,
				Total:            LineTotal(it.Price, it.Count),
			}
			total = total.Add(money(line.Total))
			record.Items = append(record.Items, line)
		}
	}
	record.Total = toAmount(total)
	return record
}

func (s *POSService) entryIndex(productID string) int {
	for i, e := range s.State().POSActiveProducts {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *POSService) findItem(productID string, presentationID int) (int, *models.PresentationItem) {
	idx := s.entryIndex(productID)
	if idx < 0 {
		return -1, nil
	}
	return idx, s.State().POSActiveProducts[idx].Item(presentationID)
}

package services

import (
	"encoding/json"
	"fmt"
	"time"

	"AguaPos/app/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys
const (
	StateKey = "appState"
	UndoKey  = "posHistory"
)

// Storage is the on-device key/value store the state is mirrored to
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItems(items map[string]string) error
}

// StateStore owns the in-memory application state and mirrors it to storage.
// Every mutating service call ends with Persist.
type StateStore struct {
	storage Storage
	state   *models.AppState
	undo    *UndoLog
	now     func() time.Time
	newID   func() string
}

// NewStateStore loads the state from storage, seeding defaults on first run
func NewStateStore(storage Storage) (*StateStore, error) {
	s := &StateStore{
		storage: storage,
		undo:    NewUndoLog(MaxUndoDepth),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory state with the stored one
func (s *StateStore) Load() error {
	raw, ok, err := s.storage.GetItem(StateKey)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	state := models.NewAppState()
	firstRun := !ok || raw == ""
	if !firstRun {
		if err := json.Unmarshal([]byte(raw), state); err != nil {
			return fmt.Errorf("failed to parse stored state: %w", err)
		}
		state.Normalize()
	}

	undo := NewUndoLog(MaxUndoDepth)
	if rawUndo, ok, err := s.storage.GetItem(UndoKey); err != nil {
		return fmt.Errorf("failed to load undo history: %w", err)
	} else if ok && rawUndo != "" {
		var snapshots [][]models.POSEntry
		if err := json.Unmarshal([]byte(rawUndo), &snapshots); err != nil {
			zap.S().Warnw("Discarding unreadable undo history", "error", err)
		} else {
			undo.Restore(snapshots)
		}
	}

	s.state = state
	s.undo = undo

	if firstRun {
		s.seedDefaults()
	}
	EnsureProtectedPresentations(s.state)

	if firstRun {
		zap.S().Info("First run detected, seeded default data")
		return s.Persist()
	}
	return nil
}

// seedDefaults fills the first-run presentations and expense categories
func (s *StateStore) seedDefaults() {
	s.state.Presentations = models.DefaultPresentations()
	for _, name := range models.DefaultExpenseCategories {
		s.state.ExpenseCategories = append(s.state.ExpenseCategories, models.ExpenseCategory{
			ID:   s.newID(),
			Name: name,
		})
	}
}

// Persist writes the whole state and the undo history in one transaction
func (s *StateStore) Persist() error {
	s.state.Normalize()
	stateJSON, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	undoJSON, err := json.Marshal(s.undo.Snapshots())
	if err != nil {
		return fmt.Errorf("failed to marshal undo history: %w", err)
	}

	if err := s.storage.SetItems(map[string]string{
		StateKey: string(stateJSON),
		UndoKey:  string(undoJSON),
	}); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// State returns the live state
func (s *StateStore) State() *models.AppState {
	return s.state
}

// Undo returns the undo log of the active session
func (s *StateStore) Undo() *UndoLog {
	return s.undo
}

// SetClock replaces the time source (useful for testing)
func (s *StateStore) SetClock(now func() time.Time) {
	s.now = now
}

// BaseService provides common functionality for all services
type BaseService struct {
	store *StateStore
}

// NewBaseService creates a new base service instance
func NewBaseService(store *StateStore) *BaseService {
	return &BaseService{store: store}
}

// State returns the live application state
func (b *BaseService) State() *models.AppState {
	return b.store.state
}

// Persist saves the state after a mutation
func (b *BaseService) Persist() error {
	return b.store.Persist()
}

func (b *BaseService) now() time.Time {
	return b.store.now()
}

func (b *BaseService) newID() string {
	return b.store.newID()
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// BackupFilePrefix starts every exported backup file name
const BackupFilePrefix = "aguapos-backup-"

// ErrInvalidDocument is returned when an import is not a JSON object
var ErrInvalidDocument = errors.New("import document must be a JSON object")

// ImportResult reports what an import had to fix
type ImportResult struct {
	Products      int      `json:"products"`
	Sales         int      `json:"sales"`
	Expenses      int      `json:"expenses"`
	Presentations int      `json:"presentations"`
	Warnings      []string `json:"warnings"`
}

// DataService exports and imports the whole application state
type DataService struct {
	*BaseService
}

// NewDataService creates a new data service
func NewDataService(store *StateStore) *DataService {
	return &DataService{BaseService: NewBaseService(store)}
}

// BackupFileName returns the timestamped name of an export file
func BackupFileName(t time.Time) string {
	return BackupFilePrefix + t.Format("2006-01-02-150405") + ".json"
}

// Export writes the state document as indented JSON
func (s *DataService) Export(w io.Writer) error {
	s.State().Normalize()
	data, err := json.MarshalIndent(s.State(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportToDir writes a timestamped export file into dir and returns its path
func (s *DataService) ExportToDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, BackupFileName(s.now()))
	if err := WriteOutputFile(path, s.Export); err != nil {
		return "", err
	}
	return path, nil
}

// Import replaces the state with a sanitized copy of the document. Invalid
// JSON or a non-object document fails without touching the state; anything
// else is repaired and reported as a warning. The open session and its undo
// history are always discarded.
func (s *DataService) Import(data []byte) (*ImportResult, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidDocument
	}

	z := &importSanitizer{now: s.now(), newID: s.newID}
	state := z.sanitize(doc)

	previous := s.store.state
	previousUndo := s.store.undo.Snapshots()
	s.store.state = state
	s.store.undo.Clear()
	if err := s.Persist(); err != nil {
		s.store.state = previous
		s.store.undo.Restore(previousUndo)
		return nil, err
	}

	result := &ImportResult{
		Products:      len(state.Products),
		Sales:         len(state.SalesHistory),
		Expenses:      len(state.Expenses),
		Presentations: len(state.Presentations),
		Warnings:      z.warnings,
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	for _, w := range result.Warnings {
		zap.S().Warnw("Import warning", "detail", w)
	}
	zap.S().Infow("Data imported", "products", result.Products, "sales", result.Sales, "expenses", result.Expenses)
	return result, nil
}

// ImportFile imports a document from disk
func (s *DataService) ImportFile(path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return s.Import(data)
}

// WriteOutputFile creates path and fills it with write. On any failure,
// including the final close, the partial file is removed.
func WriteOutputFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", filepath.Base(path), cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return write(f)
}

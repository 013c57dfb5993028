package services

import (
	"sort"
	"strings"

	"AguaPos/app/models"

	"go.uber.org/zap"
)

// PresentationService manages the shared registry of package sizes
type PresentationService struct {
	*BaseService
}

// NewPresentationService creates a new presentation service
func NewPresentationService(store *StateStore) *PresentationService {
	return &PresentationService{BaseService: NewBaseService(store)}
}

// EnsureProtectedPresentations re-seeds the canonical presentations when
// missing and re-asserts their protection flag. Existing names and volumes
// are kept since they may have been edited.
func EnsureProtectedPresentations(state *models.AppState) {
	for _, def := range models.DefaultPresentations() {
		found := false
		for i := range state.Presentations {
			if state.Presentations[i].ID == def.ID {
				state.Presentations[i].IsProtected = true
				if state.Presentations[i].Volume <= 0 {
					state.Presentations[i].Volume = def.Volume
				}
				found = true
				break
			}
		}
		if !found {
			state.Presentations = append(state.Presentations, def)
		}
	}
	sort.SliceStable(state.Presentations, func(i, j int) bool {
		return state.Presentations[i].ID < state.Presentations[j].ID
	})
}

// GetAllPresentations returns the registry ordered by id
func (s *PresentationService) GetAllPresentations() []models.Presentation {
	return append([]models.Presentation(nil), s.State().Presentations...)
}

// GetPresentation returns one presentation
func (s *PresentationService) GetPresentation(id int) (*models.Presentation, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrPresentationNotFound
	}
	p := s.State().Presentations[idx]
	return &p, nil
}

// CreatePresentation adds a new size. Ids come from a persisted sequence and
// are never reused after a delete.
func (s *PresentationService) CreatePresentation(name string, volume float64) (*models.Presentation, error) {
	name = strings.TrimSpace(name)
	if err := s.validate(0, name, volume); err != nil {
		return nil, err
	}

	p := models.Presentation{ID: s.State().AllocatePresentationID(), Name: name, Volume: volume}
	s.State().Presentations = append(s.State().Presentations, p)

	if err := s.Persist(); err != nil {
		return nil, err
	}
	zap.S().Infow("Presentation created", "id", p.ID, "name", p.Name)
	return &p, nil
}

// UpdatePresentation renames or resizes a presentation and cascades the
// change into every product that references it. Closed sales are untouched.
func (s *PresentationService) UpdatePresentation(id int, name string, volume float64) (*models.Presentation, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrPresentationNotFound
	}
	name = strings.TrimSpace(name)
	if err := s.validate(id, name, volume); err != nil {
		return nil, err
	}

	state := s.State()
	state.Presentations[idx].Name = name
	state.Presentations[idx].Volume = volume

	for i := range state.Products {
		changed := false
		for j := range state.Products[i].Presentations {
			ref := &state.Products[i].Presentations[j]
			if ref.PresentationID == id {
				ref.Name = name
				ref.Volume = volume
				changed = true
			}
		}
		if changed {
			state.Products[i].UpdatedAt = s.now()
		}
	}

	if err := s.Persist(); err != nil {
		return nil, err
	}
	p := state.Presentations[idx]
	return &p, nil
}

// DeletePresentation removes a presentation and its references from every
// product. Protected presentations are rejected.
func (s *PresentationService) DeletePresentation(id int) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrPresentationNotFound
	}
	state := s.State()
	if state.Presentations[idx].IsProtected {
		return ErrProtectedPresentation
	}

	state.Presentations = append(state.Presentations[:idx], state.Presentations[idx+1:]...)

	for i := range state.Products {
		refs := state.Products[i].Presentations[:0]
		for _, ref := range state.Products[i].Presentations {
			if ref.PresentationID != id {
				refs = append(refs, ref)
			}
		}
		if len(refs) != len(state.Products[i].Presentations) {
			state.Products[i].Presentations = refs
			state.Products[i].UpdatedAt = s.now()
			if len(refs) == 0 {
				zap.S().Warnw("Product left without presentations", "product", state.Products[i].Name)
			}
		}
	}

	return s.Persist()
}

// CountProductsUsing returns how many products reference a presentation
func (s *PresentationService) CountProductsUsing(id int) int {
	n := 0
	for i := range s.State().Products {
		if s.State().Products[i].HasPresentation(id) {
			n++
		}
	}
	return n
}

func (s *PresentationService) validate(id int, name string, volume float64) error {
	if name == "" {
		return ErrEmptyPresentationName
	}
	if volume <= 0 {
		return ErrInvalidVolume
	}
	key := normalizeName(name)
	for _, p := range s.State().Presentations {
		if p.ID != id && normalizeName(p.Name) == key {
			return ErrDuplicatePresentation
		}
	}
	return nil
}

func (s *PresentationService) indexOf(id int) int {
	for i, p := range s.State().Presentations {
		if p.ID == id {
			return i
		}
	}
	return -1
}

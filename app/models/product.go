package models

import "time"

// Product represents a product in the catalog
type Product struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	PricePerLiter float64               `json:"pricePerLiter"`
	Color         string                `json:"color,omitempty"`
	Presentations []ProductPresentation `json:"presentations"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ProductPresentation references a registry presentation from a product.
// Name and Volume are copies of the registry entry, kept in sync on registry edits.
type ProductPresentation struct {
	PresentationID int      `json:"presentationId"`
	Name           string   `json:"name"`
	Volume         float64  `json:"volume"`
	Price          *float64 `json:"price,omitempty"` // Fixed price, overrides pricePerLiter × volume
}

// HasPresentation reports whether the product references the given presentation
func (p *Product) HasPresentation(presentationID int) bool {
	for _, pp := range p.Presentations {
		if pp.PresentationID == presentationID {
			return true
		}
	}
	return false
}

// ClonePresentations deep-copies a list of presentation references
func ClonePresentations(refs []ProductPresentation) []ProductPresentation {
	out := make([]ProductPresentation, len(refs))
	for i, ref := range refs {
		out[i] = ref
		if ref.Price != nil {
			price := *ref.Price
			out[i].Price = &price
		}
	}
	return out
}

// Presentation is a package size shared across products
type Presentation struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Volume      float64 `json:"volume"` // Liters
	IsProtected bool    `json:"isProtected"`
}

// Canonical presentation ids, seeded on first run and re-asserted on every load
const (
	PresentationHalfLiterID = 1
	PresentationLiterID     = 2
)

// DefaultPresentations returns the protected presentations every registry must hold
func DefaultPresentations() []Presentation {
	return []Presentation{
		{ID: PresentationHalfLiterID, Name: "500ml", Volume: 0.5, IsProtected: true},
		{ID: PresentationLiterID, Name: "1L", Volume: 1, IsProtected: true},
	}
}

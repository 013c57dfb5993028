package services

import (
	"sort"
	"strings"

	"AguaPos/app/models"

	"go.uber.org/zap"
)

// ProductService handles catalog operations
type ProductService struct {
	*BaseService
}

// NewProductService creates a new product service
func NewProductService(store *StateStore) *ProductService {
	return &ProductService{BaseService: NewBaseService(store)}
}

// ProductInput carries the editable fields of a product
type ProductInput struct {
	Name          string
	PricePerLiter float64
	Color         string
	Presentations []PresentationChoice
}

// PresentationChoice selects a registry presentation with an optional fixed price
type PresentationChoice struct {
	PresentationID int
	Price          *float64
}

// GetAllProducts returns the catalog sorted by name
func (s *ProductService) GetAllProducts() []models.Product {
	products := append([]models.Product(nil), s.State().Products...)
	sort.SliceStable(products, func(i, j int) bool {
		return normalizeName(products[i].Name) < normalizeName(products[j].Name)
	})
	return products
}

// GetProduct gets a single product by ID
func (s *ProductService) GetProduct(id string) (*models.Product, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	p := s.State().Products[idx]
	return &p, nil
}

// FindProductByName looks a product up by case-insensitive name
func (s *ProductService) FindProductByName(name string) (*models.Product, error) {
	key := normalizeName(name)
	for _, p := range s.State().Products {
		if normalizeName(p.Name) == key {
			found := p
			return &found, nil
		}
	}
	return nil, ErrProductNotFound
}

// CreateProduct validates and adds a product
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	refs, err := s.validate("", input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	product := models.Product{
		ID:            s.newID(),
		Name:          strings.TrimSpace(input.Name),
		PricePerLiter: input.PricePerLiter,
		Color:         strings.TrimSpace(input.Color),
		Presentations: refs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if product.Color == "" {
		product.Color = ColorForName(product.Name)
	}

	s.State().Products = append(s.State().Products, product)
	if err := s.Persist(); err != nil {
		return nil, err
	}

	zap.S().Infow("Product created", "id", product.ID, "name", product.Name)
	return &product, nil
}

// UpdateProduct replaces the editable fields of a product. An open day keeps
// the prices it started with.
func (s *ProductService) UpdateProduct(id string, input ProductInput) (*models.Product, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	refs, err := s.validate(id, input)
	if err != nil {
		return nil, err
	}

	product := &s.State().Products[idx]
	product.Name = strings.TrimSpace(input.Name)
	product.PricePerLiter = input.PricePerLiter
	if color := strings.TrimSpace(input.Color); color != "" {
		product.Color = color
	} else if product.Color == "" {
		product.Color = ColorForName(product.Name)
	}
	product.Presentations = refs
	product.UpdatedAt = s.now()

	if err := s.Persist(); err != nil {
		return nil, err
	}
	updated := *product
	return &updated, nil
}

// DeleteProduct removes a product from the catalog. Sale records keep their
// denormalized names.
func (s *ProductService) DeleteProduct(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrProductNotFound
	}
	state := s.State()
	state.Products = append(state.Products[:idx], state.Products[idx+1:]...)
	return s.Persist()
}

// DisplayPrices returns the current unit price per presentation of a product
func (s *ProductService) DisplayPrices(p models.Product) map[int]float64 {
	prices := make(map[int]float64, len(p.Presentations))
	for _, pp := range p.Presentations {
		prices[pp.PresentationID] = ResolveUnitPrice(p.PricePerLiter, pp)
	}
	return prices
}

// SearchProducts returns products whose name contains query, case-insensitive
func (s *ProductService) SearchProducts(query string) []models.Product {
	q := normalizeName(query)
	var out []models.Product
	for _, p := range s.GetAllProducts() {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// validate checks the input and returns the denormalized presentation refs
func (s *ProductService) validate(id string, input ProductInput) ([]models.ProductPresentation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyProductName
	}
	key := normalizeName(name)
	for _, p := range s.State().Products {
		if p.ID != id && normalizeName(p.Name) == key {
			return nil, ErrDuplicateProductName
		}
	}
	if input.PricePerLiter < 0 {
		return nil, ErrNegativePrice
	}
	if len(input.Presentations) == 0 {
		return nil, ErrNoPresentations
	}

	registry := make(map[int]models.Presentation, len(s.State().Presentations))
	for _, p := range s.State().Presentations {
		registry[p.ID] = p
	}

	seen := make(map[int]bool, len(input.Presentations))
	refs := make([]models.ProductPresentation, 0, len(input.Presentations))
	for _, choice := range input.Presentations {
		reg, ok := registry[choice.PresentationID]
		if !ok {
			return nil, ErrPresentationNotFound
		}
		if seen[choice.PresentationID] {
			continue
		}
		seen[choice.PresentationID] = true

		ref := models.ProductPresentation{
			PresentationID: reg.ID,
			Name:           reg.Name,
			Volume:         reg.Volume,
		}
		if choice.Price != nil {
			if *choice.Price < 0 {
				return nil, ErrNegativePrice
			}
			price := *choice.Price
			ref.Price = &price
		}
		refs = append(refs, ref)
	}

	// Registry order keeps product cards consistent
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].PresentationID < refs[j].PresentationID
	})
	return refs, nil
}

func (s *ProductService) indexOf(id string) int {
	for i, p := range s.State().Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

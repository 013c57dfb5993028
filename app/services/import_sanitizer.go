package services

import (
	"fmt"
	"strings"
	"time"

	"AguaPos/app/models"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// importSanitizer turns a loosely typed document into a clean state,
// collecting a warning for everything it had to drop or replace
type importSanitizer struct {
	warnings []string
	now      time.Time
	newID    func() string
}

func (z *importSanitizer) warn(format string, args ...interface{}) {
	z.warnings = append(z.warnings, fmt.Sprintf(format, args...))
}

// list returns doc[key] as an array. A missing key is an empty list, a value
// of any other type is replaced by an empty list with a warning.
func (z *importSanitizer) list(doc map[string]interface{}, key string) []interface{} {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil
	}
	arr, ok := raw.([]interface{})
	if !ok {
		z.warn("%s: expected a list, got %T; imported as empty", key, raw)
		return nil
	}
	return arr
}

func (z *importSanitizer) record(section string, i int, raw interface{}) (map[string]interface{}, bool) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		z.warn("%s[%d]: not an object, dropped", section, i)
		return nil, false
	}
	return obj, true
}

func str(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			if s := strings.TrimSpace(cast.ToString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// num coerces a numeric field, falling back to def when absent or unparseable
func num(obj map[string]interface{}, key string, def float64) float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		if s, isStr := v.(string); isStr {
			// Comma decimal separator
			if f, err = cast.ToFloat64E(strings.ReplaceAll(strings.TrimSpace(s), ",", ".")); err == nil {
				return f
			}
		}
		return def
	}
	return f
}

func integer(obj map[string]interface{}, key string, def int) int {
	return int(num(obj, key, float64(def)))
}

// timestamp accepts any common date layout or epoch milliseconds
func (z *importSanitizer) timestamp(obj map[string]interface{}, key string) (time.Time, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
		parsed, err := dateparse.ParseLocal(t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	case float64:
		return time.UnixMilli(int64(t)), true
	}
	return time.Time{}, false
}

func (z *importSanitizer) presentations(doc map[string]interface{}) []models.Presentation {
	out := []models.Presentation{}
	seen := make(map[int]bool)
	for i, raw := range z.list(doc, "presentations") {
		obj, ok := z.record("presentations", i, raw)
		if !ok {
			continue
		}
		id := integer(obj, "id", 0)
		name := str(obj, "name")
		if id <= 0 || name == "" {
			z.warn("presentations[%d]: missing id or name, dropped", i)
			continue
		}
		if seen[id] {
			z.warn("presentations[%d]: duplicate id %d, dropped", i, id)
			continue
		}
		volume := num(obj, "volume", 0)
		// Protected sizes get their default volume back afterwards
		if volume <= 0 && id != models.PresentationHalfLiterID && id != models.PresentationLiterID {
			z.warn("presentations[%d]: invalid volume for %q, dropped", i, name)
			continue
		}
		seen[id] = true
		out = append(out, models.Presentation{ID: id, Name: name, Volume: volume})
	}
	return out
}

// products sanitizes the catalog. Presentation refs are rebuilt from the
// registry so their names and volumes match it.
func (z *importSanitizer) products(doc map[string]interface{}, registry []models.Presentation) []models.Product {
	byID := make(map[int]models.Presentation, len(registry))
	for _, p := range registry {
		byID[p.ID] = p
	}

	out := []models.Product{}
	seenNames := make(map[string]bool)
	for i, raw := range z.list(doc, "products") {
		obj, ok := z.record("products", i, raw)
		if !ok {
			continue
		}
		id := str(obj, "id")
		name := str(obj, "name")
		if id == "" || name == "" {
			z.warn("products[%d]: missing id or name, dropped", i)
			continue
		}
		if seenNames[normalizeName(name)] {
			z.warn("products[%d]: duplicate name %q, dropped", i, name)
			continue
		}
		seenNames[normalizeName(name)] = true

		p := models.Product{
			ID:            id,
			Name:          name,
			PricePerLiter: num(obj, "pricePerLiter", 0),
			Color:         str(obj, "color"),
			Presentations: []models.ProductPresentation{},
		}
		if p.PricePerLiter < 0 {
			z.warn("products[%d]: negative price for %q reset to 0", i, name)
			p.PricePerLiter = 0
		}
		if p.Color == "" {
			p.Color = ColorForName(name)
		}
		p.CreatedAt, _ = z.timestamp(obj, "createdAt")
		p.UpdatedAt, _ = z.timestamp(obj, "updatedAt")

		refs, _ := obj["presentations"].([]interface{})
		seen := make(map[int]bool)
		for _, rawRef := range refs {
			ref, ok := rawRef.(map[string]interface{})
			if !ok {
				continue
			}
			pid := integer(ref, "presentationId", integer(ref, "id", 0))
			reg, ok := byID[pid]
			if !ok || seen[pid] {
				if !ok {
					z.warn("products[%d]: unknown presentation %d dropped from %q", i, pid, name)
				}
				continue
			}
			seen[pid] = true
			pp := models.ProductPresentation{PresentationID: reg.ID, Name: reg.Name, Volume: reg.Volume}
			if v, ok := ref["price"]; ok && v != nil {
				if price := num(ref, "price", -1); price >= 0 {
					pp.Price = &price
				}
			}
			p.Presentations = append(p.Presentations, pp)
		}
		out = append(out, p)
	}
	return out
}

func (z *importSanitizer) sales(doc map[string]interface{}) []models.SaleRecord {
	out := []models.SaleRecord{}
	for i, raw := range z.list(doc, "salesHistory") {
		obj, ok := z.record("salesHistory", i, raw)
		if !ok {
			continue
		}
		id := str(obj, "id")
		if id == "" {
			z.warn("salesHistory[%d]: missing id, dropped", i)
			continue
		}
		date, ok := z.timestamp(obj, "date")
		if !ok {
			z.warn("salesHistory[%d]: unreadable date, dropped", i)
			continue
		}

		sale := models.SaleRecord{ID: id, Date: date, Items: []models.SaleLineItem{}}
		items, _ := obj["items"].([]interface{})
		for _, rawItem := range items {
			item, ok := rawItem.(map[string]interface{})
			if !ok {
				continue
			}
			line := models.SaleLineItem{
				ProductID:        str(item, "productId"),
				ProductName:      str(item, "productName", "name"),
				PresentationName: str(item, "presentationName", "presentation"),
				Price:            num(item, "price", 0),
				Count:            integer(item, "count", 0),
			}
			line.Total = num(item, "total", LineTotal(line.Price, line.Count))
			sale.Items = append(sale.Items, line)
		}

		sale.Total = num(obj, "total", -1)
		if sale.Total < 0 {
			var sum float64
			for _, line := range sale.Items {
				sum = toAmount(money(sum).Add(money(line.Total)))
			}
			sale.Total = sum
		}
		out = append(out, sale)
	}
	return out
}

func (z *importSanitizer) categories(doc map[string]interface{}) []models.ExpenseCategory {
	out := []models.ExpenseCategory{}
	for i, raw := range z.list(doc, "expenseCategories") {
		obj, ok := z.record("expenseCategories", i, raw)
		if !ok {
			continue
		}
		id := str(obj, "id")
		name := str(obj, "name")
		if id == "" || name == "" {
			z.warn("expenseCategories[%d]: missing id or name, dropped", i)
			continue
		}
		out = append(out, models.ExpenseCategory{ID: id, Name: name})
	}
	return out
}

func (z *importSanitizer) expenses(doc map[string]interface{}, categories []models.ExpenseCategory) []models.Expense {
	names := make(map[string]string, len(categories))
	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
		ids[normalizeName(c.Name)] = c.ID
	}

	out := []models.Expense{}
	for i, raw := range z.list(doc, "expenses") {
		obj, ok := z.record("expenses", i, raw)
		if !ok {
			continue
		}
		id := str(obj, "id")
		if id == "" {
			z.warn("expenses[%d]: missing id, dropped", i)
			continue
		}
		date, ok := z.timestamp(obj, "date")
		if !ok {
			z.warn("expenses[%d]: unreadable date, using import time", i)
			date = z.now
		}

		e := models.Expense{
			ID:           id,
			Date:         date,
			CategoryID:   str(obj, "categoryId"),
			CategoryName: str(obj, "categoryName", "category"),
			Amount:       num(obj, "amount", 0),
			Description:  str(obj, "description"),
		}
		if name, ok := names[e.CategoryID]; ok {
			e.CategoryName = name
		} else if id, ok := ids[normalizeName(e.CategoryName)]; ok {
			e.CategoryID = id
		} else {
			e.CategoryID = ""
		}
		if e.Amount < 0 {
			z.warn("expenses[%d]: negative amount reset to 0", i)
			e.Amount = 0
		}
		out = append(out, e)
	}
	return out
}

// sanitize builds a full state from a decoded document
func (z *importSanitizer) sanitize(doc map[string]interface{}) *models.AppState {
	state := models.NewAppState()
	state.Presentations = z.presentations(doc)
	EnsureProtectedPresentations(state)
	state.Products = z.products(doc, state.Presentations)
	state.SalesHistory = z.sales(doc)
	state.ExpenseCategories = z.categories(doc)
	if len(state.ExpenseCategories) == 0 {
		for _, name := range models.DefaultExpenseCategories {
			state.ExpenseCategories = append(state.ExpenseCategories, models.ExpenseCategory{ID: z.newID(), Name: name})
		}
	}
	state.Expenses = z.expenses(doc, state.ExpenseCategories)
	state.NextPresentationID = integer(doc, "nextPresentationId", 0)
	state.Normalize()
	return state
}

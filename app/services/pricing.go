package services

import (
	"fmt"
	"math"
	"strings"

	"AguaPos/app/models"

	"github.com/shopspring/decimal"
)

// money converts a stored float amount to a decimal
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// toAmount rounds a decimal to cents and returns the stored float form
func toAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ResolveUnitPrice returns the fixed price of a presentation when set,
// otherwise price-per-liter × volume, rounded to cents
func ResolveUnitPrice(pricePerLiter float64, pp models.ProductPresentation) float64 {
	if pp.Price != nil {
		return toAmount(money(*pp.Price))
	}
	return toAmount(money(pricePerLiter).Mul(money(pp.Volume)))
}

// LineTotal returns price × count rounded to cents
func LineTotal(price float64, count int) float64 {
	return toAmount(money(price).Mul(decimal.NewFromInt(int64(count))))
}

// ColorForName derives a stable display color from a product name
func ColorForName(name string) string {
	var hash int32
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		hash = int32(r) + ((hash << 5) - hash)
	}
	hue := int(hash) % 360
	if hue < 0 {
		hue = -hue
	}
	return hslToHex(float64(hue), 0.65, 0.45)
}

func hslToHex(h, s, l float64) string {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	to8 := func(v float64) int { return int(math.Round((v + m) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", to8(r), to8(g), to8(b))
}

// normalizeName is the comparison key for case-insensitive unique names
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

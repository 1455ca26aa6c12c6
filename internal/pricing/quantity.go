package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// unitConversions maps units onto a common base so 1l and 1000ml compare
// equal. Volume and weight happen to share scale factors, which is all the
// tolerance filter needs.
var unitConversions = map[string]float64{
	"ml":       1,
	"l":        1000,
	"litre":    1000,
	"liter":    1000,
	"g":        1,
	"gm":       1,
	"gram":     1,
	"kg":       1000,
	"kilogram": 1000,
	"piece":    1,
	"pcs":      1,
	"pack":     1,
	"unit":     1,
}

var (
	multiPackPattern = regexp.MustCompile(`(\d+)\s*x\s*(\d+(?:\.\d+)?)\s*(ml|l|litre|liter|g|gm|gram|kg|kilogram)`)
	quantityPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(ml|l|litre|liter|g|gm|gram|kg|kilogram|piece|pcs|pack|unit)\b`)
	packOfPattern    = regexp.MustCompile(`pack\s*of\s*(\d+)`)
	piecesPattern    = regexp.MustCompile(`(\d+)\s*pieces?`)
)

// ExtractQuantity pulls a quantity and unit out of a product title.
// Unrecognized titles count as a single piece.
func ExtractQuantity(title string) (float64, string) {
	lower := strings.ToLower(title)

	if m := multiPackPattern.FindStringSubmatch(lower); m != nil {
		count, _ := strconv.ParseFloat(m[1], 64)
		qty, _ := strconv.ParseFloat(m[2], 64)
		return count * qty, m[3]
	}
	if m := quantityPattern.FindStringSubmatch(lower); m != nil {
		qty, _ := strconv.ParseFloat(m[1], 64)
		return qty, m[2]
	}
	if m := packOfPattern.FindStringSubmatch(lower); m != nil {
		qty, _ := strconv.ParseFloat(m[1], 64)
		return qty, "piece"
	}
	if m := piecesPattern.FindStringSubmatch(lower); m != nil {
		qty, _ := strconv.ParseFloat(m[1], 64)
		return qty, "piece"
	}
	return 1, "piece"
}

// NormalizeQuantity converts a quantity to its base unit for comparison.
func NormalizeQuantity(quantity float64, unit string) float64 {
	factor, ok := unitConversions[strings.ToLower(unit)]
	if !ok {
		factor = 1
	}
	return quantity * factor
}

// FilterByQuantity keeps offers whose extracted quantity is within tolerance
// of the target, annotating each kept offer with its parsed quantity.
func FilterByQuantity(offers []Offer, targetQuantity float64, targetUnit string, tolerance float64) []Offer {
	target := NormalizeQuantity(targetQuantity, targetUnit)
	if target <= 0 {
		return offers
	}

	filtered := make([]Offer, 0, len(offers))
	for _, o := range offers {
		qty, unit := ExtractQuantity(o.Title)
		normalized := NormalizeQuantity(qty, unit)
		if abs(normalized-target)/target > tolerance {
			continue
		}
		o.Quantity = qty
		o.QuantityUnit = unit
		o.NormalizedQuantity = normalized
		filtered = append(filtered, o)
	}
	return filtered
}

// ParseQuantitySpec parses a user-supplied quantity string like "500ml" or
// "2 kg". An empty or unparseable spec disables quantity filtering.
func ParseQuantitySpec(spec string) (float64, string, bool) {
	lower := strings.ToLower(strings.TrimSpace(spec))
	if lower == "" {
		return 0, "", false
	}
	if m := quantityPattern.FindStringSubmatch(lower); m != nil {
		qty, _ := strconv.ParseFloat(m[1], 64)
		return qty, m[2], true
	}
	return 0, "", false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

package products

import (
	"regexp"
	"strings"
)

// UnknownProduct is returned when no product marker can be found.
const UnknownProduct = "Unknown"

var productNamePattern = regexp.MustCompile(`(?i)product_name\s*=\s*(.+)`)

// ExtractProductName pulls the canonical product name out of free text by
// matching an explicit "product_name = X" marker. The value is truncated at
// the first period or line break to drop trailing punctuation.
func ExtractProductName(text string) string {
	match := productNamePattern.FindStringSubmatch(text)
	if match == nil {
		return UnknownProduct
	}
	name := strings.TrimSpace(match[1])
	if i := strings.IndexAny(name, ".\n"); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if name == "" {
		return UnknownProduct
	}
	return name
}

// IsUnknown reports whether a resolved name is empty or the unknown marker.
func IsUnknown(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed == "" || strings.EqualFold(trimmed, UnknownProduct)
}

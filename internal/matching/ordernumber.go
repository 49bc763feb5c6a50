package matching

import "strings"

// Order numbers arrive from customers as "#12345", "MX12345", "#MX12345" or
// bare "12345"; the platform stores its own prefix convention, so searches
// work on the normalized numeric key.

// NormalizeOrderNumber strips leading '#' characters and a leading MX store
// prefix, returning the bare uppercase key.
func NormalizeOrderNumber(orderNumber string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderNumber))
	normalized = strings.TrimLeft(normalized, "#")
	normalized = strings.TrimPrefix(normalized, "MX")
	return strings.TrimSpace(normalized)
}

// IsValidOrderNumberFormat reports whether the input reduces to a non-empty
// all-digit key after normalization.
func IsValidOrderNumberFormat(orderNumber string) bool {
	cleaned := NormalizeOrderNumber(orderNumber)
	if cleaned == "" {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

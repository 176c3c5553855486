package services

import (
	"fmt"
	"strings"
)

// FormatCOP formats an amount using Colombian peso conventions: dot as the
// thousands separator, comma as the decimal mark, always two decimals
// (e.g. $1.234.567,89).
func FormatCOP(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + groupThousands(intPart) + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent renders a margin percentage with two decimals, e.g. 25,50%.
func FormatPercent(pct float64) string {
	raw := fmt.Sprintf("%.2f", pct)
	return strings.Replace(raw, ".", ",", 1) + "%"
}

// groupThousands inserts a dot every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "." + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "." + result
}

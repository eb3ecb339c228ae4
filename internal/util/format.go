package util

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Dollars formats an amount as whole dollars with thousands separators,
// e.g. 1234567.89 -> "$1,234,568".
func Dollars(v float64) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	return neg + "$" + humanize.CommafWithDigits(v, 0)
}

// DollarsCompact formats large amounts with a magnitude suffix,
// e.g. 1234567890 -> "$1.2B". Small amounts fall back to Dollars.
func DollarsCompact(v float64) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%s$%.1fB", neg, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s$%.1fM", neg, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.1fK", neg, v/1e3)
	default:
		return neg + Dollars(v)
	}
}

// Percent formats a percentage with two decimals, e.g. 1.425 -> "1.43%".
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

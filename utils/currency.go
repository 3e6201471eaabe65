package utils

import (
	"fmt"
	"math"
	"strings"
)

// RoundMoney rounds to 2 decimal places, half away from zero. All order
// amounts go through this so stored totals never carry float dust.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatMoney renders an amount with thousands separators, e.g.
// 15000.5 -> "15,000.50". Used by the PDF/CSV exports.
func FormatMoney(amount float64) string {
	formatted := fmt.Sprintf("%.2f", RoundMoney(amount))

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := strings.HasPrefix(integerPart, "-")
	if negative {
		integerPart = integerPart[1:]
	}

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := strings.Join(groups, ",") + "." + decimalPart
	if negative {
		out = "-" + out
	}
	return out
}

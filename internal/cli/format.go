// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a decimal amount with thousands separators and two places.
// e.g., 26543.2 -> "$26,543.20"
func FormatMoney(d decimal.Decimal, symbol string) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + symbol + fixed
	}
	return sign + symbol + FormatNumber(n) + "." + frac
}

// FormatAmount formats a float spend value as money.
func FormatAmount(f float64, symbol string) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return symbol + "-"
	}
	return FormatMoney(decimal.NewFromFloat(f), symbol)
}

// FormatCompactMoney formats a float for chart axes.
// e.g., 1234 -> "$1.2K", 2500000 -> "$2.5M"
func FormatCompactMoney(f float64, symbol string) string {
	abs := math.Abs(f)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", symbol, f/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%.1fK", symbol, f/1_000)
	default:
		return fmt.Sprintf("%s%.0f", symbol, f)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

// FormatChange formats a period-over-period change with an explicit sign.
// Non-finite changes from a zero baseline render as "n/a".
func FormatChange(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "n/a"
	}
	if pct >= 0 {
		return "+" + FormatPercent(pct)
	}
	return FormatPercent(pct)
}

// FormatFloat formats a usage metric with one decimal place.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// FormatPorts joins open ports, or returns "None" when there are none.
func FormatPorts(ports []int) string {
	if len(ports) == 0 {
		return "None"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[Currency]string{
	CurrencyNIS: "₪",
	CurrencyUSD: "$",
	CurrencyEUR: "€",
}

// Symbol returns the display symbol of c.
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c) + " "
}

// FormatMoney formats amount with the currency symbol, thousands separators
// and exactly 2 decimal places (e.g. ₪1,234,567.89).
func FormatMoney(amount float64, c Currency) string {
	formatted := FormatAmount(amount)
	if strings.HasPrefix(formatted, "-") {
		return "-" + c.Symbol() + formatted[1:]
	}
	return c.Symbol() + formatted
}

// FormatAmount formats amount with thousands separators and 2 decimal
// places, without a currency symbol. Used where the core PDF fonts cannot
// render the shekel sign.
func FormatAmount(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	raw := d.Abs().StringFixed(2)
	parts := strings.SplitN(raw, ".", 2)
	result := applyThousandsGrouping(parts[0]) + "." + parts[1]
	if d.IsNegative() {
		result = "-" + result
	}
	return result
}

// FormatILS is FormatMoney in NIS.
func FormatILS(amount float64) string {
	return FormatMoney(amount, CurrencyNIS)
}

// FormatPercent formats a percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

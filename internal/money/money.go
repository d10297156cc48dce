// Package money formats amounts for display.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Japanese)

// Format renders an amount as yen with digit grouping, e.g. "¥1,234". Fractions are
// kept to two places.
func Format(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + Format(d.Neg())
	}

	if d.IsInteger() {
		return printer.Sprintf("¥%d", d.IntPart())
	}

	return printer.Sprintf("¥%.2f", d.InexactFloat64())
}

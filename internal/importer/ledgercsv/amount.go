package ledgercsv

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// parseAmount parses amounts as people type them in Japanese spreadsheets:
// "1,234", "¥1,234", "1,234円" and full-width digits are all accepted.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := width.Narrow.String(strings.TrimSpace(s))
	clean = strings.TrimPrefix(clean, "¥")
	clean = strings.TrimPrefix(clean, "\\")
	clean = strings.TrimSuffix(clean, "円")
	clean = strings.ReplaceAll(clean, ",", "")

	return decimal.NewFromString(strings.TrimSpace(clean))
}

package importer

import (
	"io"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type Format string

const (
	// FormatLedger is the layout written by the CSV export, plus an optional type column.
	FormatLedger Format = "kakeibo"
)

// Row is one parsed line of an import file. Type is empty when the file does not
// say, in which case it is taken from the category.
type Row struct {
	Line     int
	Date     string
	Category string
	Amount   decimal.Decimal
	Memo     string
	Type     ledger.Type
}

type Parser interface {
	Parse(r io.Reader) ([]Row, error)
}

package ledgercsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/kakeibo/internal/encoding"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

var ErrNoHeader = errors.New("no matching header found: expected 日付,カテゴリ,金額 or date,category,amount")

var dateLayouts = []string{time.DateOnly, "2006/01/02", "2006/1/2", "2006-1-2"}

// Parser reads files in the export layout. It finds the header row by matching
// column names against known profiles, so leading notes and column order do not matter.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]importer.Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrNoHeader
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) int {
	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips blank lines and fails on the first malformed one, reporting its
// 1-based line number.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]importer.Row, error) {
	dateIdx := cols.get(p.DateCol)
	categoryIdx := cols.get(p.CategoryCol)
	amountIdx := cols.get(p.AmountCol)
	memoIdx := cols.get(p.MemoCol)
	typeIdx := cols.get(p.TypeCol)

	var out []importer.Row

	for i, row := range rows {
		line := headerRowNum + i + 1

		if isBlank(row) {
			continue
		}

		date, err := parseDate(cellValue(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		category := cellValue(row, categoryIdx)
		if category == "" {
			return nil, fmt.Errorf("line %d: missing category", line)
		}

		amount, err := parseAmount(cellValue(row, amountIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, cellValue(row, amountIdx))
		}

		typ, err := parseType(cellValue(row, typeIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		out = append(out, importer.Row{
			Line:     line,
			Date:     date,
			Category: category,
			Amount:   amount,
			Memo:     cellValue(row, memoIdx),
			Type:     typ,
		})
	}

	return out, nil
}

// parseDate normalises the accepted layouts to YYYY-MM-DD.
func parseDate(s string) (string, error) {
	if s == "" {
		return "", errors.New("missing date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}

	return "", fmt.Errorf("invalid date %q", s)
}

func parseType(s string) (ledger.Type, error) {
	if s == "" {
		return "", nil
	}

	v, ok := typeLabels[strings.ToLower(s)]
	if !ok {
		return "", fmt.Errorf("invalid type %q", s)
	}

	return ledger.Type(v), nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

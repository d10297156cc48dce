package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// BOM is written before the header so spreadsheet tools detect UTF-8.
const BOM = "\uFEFF"

// ContentType is the media type served for exported files.
const ContentType = "text/csv; charset=utf-8"

var header = []string{"日付", "カテゴリ", "金額", "メモ"}

var ErrNoData = errors.New("no entries to export")

// Source provides the entries to export.
type Source interface {
	Expenses() []ledger.Expense
}

// File is a rendered export.
type File struct {
	Name    string
	Content []byte
	Rows    int
}

type Service struct {
	source Source
	now    func() time.Time
}

func NewService(source Source) *Service {
	return &Service{source: source, now: time.Now}
}

// Export renders the entries matching filter, in store order.
func (s *Service) Export(filter ledger.Filter) (File, error) {
	expenses := ledger.FilterExpenses(s.source.Expenses(), filter)
	if len(expenses) == 0 {
		return File{}, ErrNoData
	}

	var sb strings.Builder
	if err := Encode(&sb, expenses); err != nil {
		return File{}, fmt.Errorf("encoding csv: %w", err)
	}

	return File{
		Name:    Filename(s.now()),
		Content: []byte(sb.String()),
		Rows:    len(expenses),
	}, nil
}

// WriteFile exports into dir and returns the path of the created file.
func (s *Service) WriteFile(filter ledger.Filter, dir string) (string, error) {
	f, err := s.Export(filter)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, f.Name)

	if err := os.WriteFile(path, f.Content, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// Filename is the download name for an export made at t, using the UTC date.
func Filename(t time.Time) string {
	return fmt.Sprintf("家計簿_%s.csv", t.UTC().Format(time.DateOnly))
}

// Encode writes the BOM, the header and one line per entry. Lines are separated by a
// single "\n" with no trailing newline; the memo is always quoted.
func Encode(w io.Writer, expenses []ledger.Expense) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(BOM)
	bw.WriteString(strings.Join(header, ","))

	for _, e := range expenses {
		bw.WriteByte('\n')
		bw.WriteString(Row(e))
	}

	return bw.Flush()
}

// Row formats a single entry.
func Row(e ledger.Expense) string {
	return strings.Join([]string{
		e.Date,
		e.Category,
		e.Amount.String(),
		quote(e.Memo),
	}, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// Ledger is the write side the importer adds entries through.
type Ledger interface {
	AddExpense(ctx context.Context, params ledger.ExpenseParams) (ledger.Expense, error)
}

// Categories resolves the type of rows that do not carry one.
type Categories interface {
	CategoryByName(name string) (ledger.Category, error)
}

type Skipped struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Result struct {
	Imported []ledger.Expense `json:"imported"`
	Skipped  []Skipped        `json:"skipped"`
	// Unsynced counts imported rows whose remote sync failed.
	Unsynced int `json:"unsynced"`
}

type Service struct {
	parsers    map[Format]Parser
	ledger     Ledger
	categories Categories
}

func NewService(l Ledger, categories Categories, parsers map[Format]Parser) *Service {
	return &Service{
		parsers:    parsers,
		ledger:     l,
		categories: categories,
	}
}

// Import parses r and adds every row it can. Rows rejected by the ledger are reported
// in Result.Skipped rather than aborting the import. When some rows failed to sync the
// result is returned together with an error wrapping ledger.ErrRemoteSync.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (Result, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown format %q", ledger.ErrValidation, format)
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: parsing file: %w", ledger.ErrValidation, err)
	}

	res := Result{Imported: []ledger.Expense{}, Skipped: []Skipped{}}

	for _, row := range rows {
		typ := row.Type
		if typ == "" {
			cat, err := s.categories.CategoryByName(row.Category)
			if err != nil {
				res.Skipped = append(res.Skipped, Skipped{Line: row.Line, Reason: fmt.Sprintf("unknown category %q", row.Category)})
				continue
			}

			typ = cat.Type
		}

		e, err := s.ledger.AddExpense(ctx, ledger.ExpenseParams{
			Date:     row.Date,
			Category: row.Category,
			Amount:   row.Amount,
			Memo:     row.Memo,
			Type:     typ,
		})

		switch {
		case err == nil:
			res.Imported = append(res.Imported, e)
		case errors.Is(err, ledger.ErrRemoteSync):
			res.Imported = append(res.Imported, e)
			res.Unsynced++
		case errors.Is(err, ledger.ErrValidation):
			res.Skipped = append(res.Skipped, Skipped{Line: row.Line, Reason: err.Error()})
		default:
			return res, fmt.Errorf("importing line %d: %w", row.Line, err)
		}
	}

	slog.InfoContext(ctx, "import finished",
		"format", format,
		"imported", len(res.Imported),
		"skipped", len(res.Skipped),
		"unsynced", res.Unsynced)

	if res.Unsynced > 0 {
		return res, fmt.Errorf("%w: %d imported entries not synced", ledger.ErrRemoteSync, res.Unsynced)
	}

	return res, nil
}

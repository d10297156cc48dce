package ledger

import (
	"fmt"
	"slices"
	"strings"
)

type SortField string

const (
	SortByDate     SortField = "date"
	SortByCategory SortField = "category"
	SortByAmount   SortField = "amount"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort lists the newest entries first.
var DefaultSort = Sort{Field: SortByDate, Order: SortDesc}

// ParseSort builds a Sort from its string form, falling back to DefaultSort for empty values.
func ParseSort(field, order string) (Sort, error) {
	s := DefaultSort

	if field != "" {
		switch f := SortField(strings.ToLower(field)); f {
		case SortByDate, SortByCategory, SortByAmount:
			s.Field = f
		default:
			return Sort{}, fmt.Errorf("%w: unknown sort field %q", ErrValidation, field)
		}
	}

	if order != "" {
		switch o := SortOrder(strings.ToLower(order)); o {
		case SortAsc, SortDesc:
			s.Order = o
		default:
			return Sort{}, fmt.Errorf("%w: unknown sort order %q", ErrValidation, order)
		}
	}

	return s, nil
}

// SortExpenses returns a sorted copy of expenses. Entries with equal keys keep their
// input order.
func SortExpenses(expenses []Expense, s Sort) []Expense {
	out := slices.Clone(expenses)

	slices.SortStableFunc(out, func(a, b Expense) int {
		var c int

		switch s.Field {
		case SortByCategory:
			c = strings.Compare(a.Category, b.Category)
		case SortByAmount:
			c = a.Amount.Cmp(b.Amount)
		default:
			c = strings.Compare(a.Date, b.Date)
		}

		if s.Order == SortDesc {
			return -c
		}

		return c
	})

	return out
}

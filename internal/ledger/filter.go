package ledger

import (
	"strconv"
	"strings"
	"time"
)

// Filter selects entries. Every non-empty field is a predicate and an entry matches
// only if it satisfies all of them; the zero Filter matches everything.
type Filter struct {
	DateFrom   string `json:"dateFrom"`
	DateTo     string `json:"dateTo"`
	Category   string `json:"category"`
	SearchText string `json:"searchText"`
	Year       string `json:"year"`
	Month      string `json:"month"`
}

func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// WithYearMonth sets the year/month pair and clears the date range.
func (f Filter) WithYearMonth(year, month string) Filter {
	f.Year, f.Month = year, month
	f.DateFrom, f.DateTo = "", ""

	return f
}

// WithDateRange sets the date range and clears the year/month pair.
func (f Filter) WithDateRange(from, to string) Filter {
	f.DateFrom, f.DateTo = from, to
	f.Year, f.Month = "", ""

	return f
}

// Match reports whether e satisfies every active predicate of f.
func (f Filter) Match(e Expense) bool {
	// ISO dates order lexicographically.
	if f.DateFrom != "" && e.Date < f.DateFrom {
		return false
	}

	if f.DateTo != "" && e.Date > f.DateTo {
		return false
	}

	if f.Category != "" && e.Category != f.Category {
		return false
	}

	if f.SearchText != "" && !strings.Contains(strings.ToLower(e.Memo), strings.ToLower(f.SearchText)) {
		return false
	}

	if f.Year == "" && f.Month == "" {
		return true
	}

	d, err := time.Parse(time.DateOnly, e.Date)
	if err != nil {
		return false
	}

	if f.Year != "" && !componentEquals(f.Year, d.Year()) {
		return false
	}

	if f.Month != "" && !componentEquals(f.Month, int(d.Month())) {
		return false
	}

	return true
}

func componentEquals(want string, got int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(want))
	if err != nil {
		return false
	}

	return n == got
}

// FilterExpenses returns the entries matching f in their original order.
func FilterExpenses(expenses []Expense, f Filter) []Expense {
	out := make([]Expense, 0, len(expenses))

	for _, e := range expenses {
		if f.Match(e) {
			out = append(out, e)
		}
	}

	return out
}

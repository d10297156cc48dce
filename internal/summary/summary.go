// Package summary derives read-only aggregate views from a set of ledger entries.
// Callers filter first; nothing here mutates its input.
package summary

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// MonthLimit is how many of the most recent months ByMonth keeps.
const MonthLimit = 12

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
	Color    string          `json:"color"`
}

type MonthTotal struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type WeekTotal struct {
	Label     string          `json:"label"`
	Start     string          `json:"start"`
	End       string          `json:"end"`
	DateRange string          `json:"dateRange"`
	Amount    decimal.Decimal `json:"amount"`
}

type DayTotal struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Count   int             `json:"count"`
}

// Totals is the header line of the summary: amounts split by type, the balance and
// the plain sum over all entries.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

// ByCategory groups entries by category name, ordered by descending amount. Groups
// with equal amounts keep the order in which their category first appeared.
func ByCategory(expenses []ledger.Expense, categories []ledger.Category) []CategoryTotal {
	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c.Name] = c.Color
	}

	index := make(map[string]int)

	var out []CategoryTotal

	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			color := colors[e.Category]
			if color == "" {
				color = ledger.DefaultColor
			}

			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category, Amount: decimal.Zero, Color: color})
		}

		out[i].Amount = out[i].Amount.Add(e.Amount)
		out[i].Count++
	}

	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})

	return out
}

// ByMonth sums entries per calendar month, oldest first, keeping the last MonthLimit
// months that have entries. Entries with unparseable dates are ignored.
func ByMonth(expenses []ledger.Expense) []MonthTotal {
	type key struct{ year, month int }

	totals := make(map[key]decimal.Decimal)

	for _, e := range expenses {
		d, err := time.Parse(time.DateOnly, e.Date)
		if err != nil {
			continue
		}

		k := key{d.Year(), int(d.Month())}
		totals[k] = totals[k].Add(e.Amount)
	}

	out := make([]MonthTotal, 0, len(totals))
	for k, amount := range totals {
		out = append(out, MonthTotal{
			Year:   k.year,
			Month:  k.month,
			Label:  MonthLabel(k.year, k.month),
			Amount: amount,
		})
	}

	slices.SortFunc(out, func(a, b MonthTotal) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})

	if len(out) > MonthLimit {
		out = out[len(out)-MonthLimit:]
	}

	return out
}

// MonthLabel formats a month as shown in the monthly chart, e.g. "2024年3月".
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%d年%d月", year, month)
}

// ByWeek splits the month into 7-day windows starting on day 1 and sums the entries
// falling in each. The last window ends on the month's last day.
func ByWeek(expenses []ledger.Expense, year, month int) ([]WeekTotal, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", ledger.ErrValidation, month)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var out []WeekTotal

	for start, n := first, 1; !start.After(last); start, n = start.AddDate(0, 0, 7), n+1 {
		end := start.AddDate(0, 0, 6)
		if end.After(last) {
			end = last
		}

		from, to := start.Format(time.DateOnly), end.Format(time.DateOnly)

		amount := decimal.Zero

		for _, e := range expenses {
			if e.Date >= from && e.Date <= to {
				amount = amount.Add(e.Amount)
			}
		}

		out = append(out, WeekTotal{
			Label:     fmt.Sprintf("%d週目", n),
			Start:     from,
			End:       to,
			DateRange: fmt.Sprintf("%s〜%s", dayLabel(start), dayLabel(end)),
			Amount:    amount,
		})
	}

	return out, nil
}

func dayLabel(t time.Time) string {
	return fmt.Sprintf("%d月%d日", int(t.Month()), t.Day())
}

// ByDay returns one row per day of the month that has entries, in date order.
func ByDay(expenses []ledger.Expense, year, month int) []DayTotal {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	index := make(map[string]int)

	var out []DayTotal

	for _, e := range expenses {
		if !strings.HasPrefix(e.Date, prefix) {
			continue
		}

		i, ok := index[e.Date]
		if !ok {
			i = len(out)
			index[e.Date] = i
			out = append(out, DayTotal{Date: e.Date, Income: decimal.Zero, Expense: decimal.Zero})
		}

		switch e.Type {
		case ledger.TypeIncome:
			out[i].Income = out[i].Income.Add(e.Amount)
		default:
			out[i].Expense = out[i].Expense.Add(e.Amount)
		}

		out[i].Count++
	}

	slices.SortFunc(out, func(a, b DayTotal) int {
		return cmp.Compare(a.Date, b.Date)
	})

	return out
}

// ComputeTotals sums entries by type.
func ComputeTotals(expenses []ledger.Expense) Totals {
	t := Totals{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Total:   decimal.Zero,
	}

	for _, e := range expenses {
		switch e.Type {
		case ledger.TypeIncome:
			t.Income = t.Income.Add(e.Amount)
		default:
			t.Expense = t.Expense.Add(e.Amount)
		}

		t.Total = t.Total.Add(e.Amount)
		t.Count++
	}

	t.Balance = t.Income.Sub(t.Expense)

	return t
}

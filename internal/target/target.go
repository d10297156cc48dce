// Package target evaluates monthly saving targets against the current month's spending.
package target

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// FallbackColor is shown for targets whose category no longer exists.
const FallbackColor = "#9CA3AF"

type Status string

const (
	StatusWithin      Status = "within"
	StatusApproaching Status = "approaching"
	StatusOver        Status = "over"
)

// Message returns the advice shown next to a target with this status.
func (s Status) Message() string {
	switch s {
	case StatusOver:
		return "節約をしてください"
	case StatusApproaching:
		return "そろそろ節約が必要です"
	default:
		return "購入可能です"
	}
}

var two = decimal.NewFromInt(2)

// Classify compares current spending with a limit. Spending above half the limit is
// approaching; above the limit is over.
func Classify(limit, current decimal.Decimal) Status {
	switch {
	case current.GreaterThan(limit):
		return StatusOver
	case current.GreaterThan(limit.Div(two)):
		return StatusApproaching
	default:
		return StatusWithin
	}
}

type Evaluation struct {
	Category  string          `json:"category"`
	Color     string          `json:"color"`
	Target    decimal.Decimal `json:"target"`
	Current   decimal.Decimal `json:"current"`
	Available decimal.Decimal `json:"available"` // negative when over
	Status    Status          `json:"status"`
	Message   string          `json:"message"`
}

// MonthSpend sums expense-type entries of category dated in the month of now.
func MonthSpend(expenses []ledger.Expense, category string, now time.Time) decimal.Decimal {
	prefix := fmt.Sprintf("%04d-%02d-", now.Year(), int(now.Month()))

	total := decimal.Zero

	for _, e := range expenses {
		if e.Type != ledger.TypeExpense || e.Category != category {
			continue
		}

		if len(e.Date) < len(prefix) || e.Date[:len(prefix)] != prefix {
			continue
		}

		total = total.Add(e.Amount)
	}

	return total
}

// Evaluate returns one evaluation per target, in target order.
func Evaluate(targets []ledger.SavingTarget, expenses []ledger.Expense, categories []ledger.Category, now time.Time) []Evaluation {
	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c.Name] = c.Color
	}

	out := make([]Evaluation, 0, len(targets))

	for _, t := range targets {
		current := MonthSpend(expenses, t.Category, now)
		status := Classify(t.Amount, current)

		color, ok := colors[t.Category]
		if !ok {
			color = FallbackColor
		}

		out = append(out, Evaluation{
			Category:  t.Category,
			Color:     color,
			Target:    t.Amount,
			Current:   current,
			Available: t.Amount.Sub(current),
			Status:    status,
			Message:   status.Message(),
		})
	}

	return out
}

package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type expenseRow struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	Date      string          `json:"date"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo"`
	Type      ledger.Type     `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (r expenseRow) toExpense() ledger.Expense {
	return ledger.Expense{
		ID:        r.ID,
		Date:      r.Date,
		Category:  r.Category,
		Amount:    r.Amount,
		Memo:      r.Memo,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
	}
}

type categoryRow struct {
	ID        uuid.UUID   `json:"id"`
	UserID    string      `json:"user_id"`
	Name      string      `json:"name"`
	Color     string      `json:"color"`
	IsDefault bool        `json:"is_default"`
	Type      ledger.Type `json:"type"`
}

func (r categoryRow) toCategory() ledger.Category {
	return ledger.Category{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		IsDefault: r.IsDefault,
		Type:      r.Type,
	}
}

type savingTargetRow struct {
	UserID    string          `json:"user_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func (c *Client) newExpenseRow(e ledger.Expense) expenseRow {
	return expenseRow{
		ID:        e.ID,
		UserID:    c.userID,
		Date:      e.Date,
		Category:  e.Category,
		Amount:    e.Amount,
		Memo:      e.Memo,
		Type:      e.Type,
		CreatedAt: e.CreatedAt,
		UpdatedAt: c.now(),
	}
}

func (c *Client) newCategoryRow(cat ledger.Category) categoryRow {
	return categoryRow{
		ID:        cat.ID,
		UserID:    c.userID,
		Name:      cat.Name,
		Color:     cat.Color,
		IsDefault: cat.IsDefault,
		Type:      cat.Type,
	}
}

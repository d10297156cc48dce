package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type expenseResponse struct {
	ID        uuid.UUID       `json:"id"`
	Date      string          `json:"date"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo"`
	Type      ledger.Type     `json:"type"`
	TypeLabel string          `json:"type_label"`
	CreatedAt time.Time       `json:"created_at"`
}

func toResponse(e ledger.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		Date:      e.Date,
		Category:  e.Category,
		Amount:    e.Amount,
		Memo:      e.Memo,
		Type:      e.Type,
		TypeLabel: e.Type.Label(),
		CreatedAt: e.CreatedAt,
	}
}

func toResponseList(expenses []ledger.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	return resp
}

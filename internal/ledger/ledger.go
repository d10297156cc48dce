package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of entry (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Label returns the display name used by the client.
func (t Type) Label() string {
	if t == TypeIncome {
		return "収入"
	}

	return "支出"
}

// Expense is a single ledger entry. Despite the name it covers income too; Type tells them apart.
type Expense struct {
	ID        uuid.UUID       `json:"id"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo"`
	Type      Type            `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Category groups entries of one type. Name is the key entries and targets refer to.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"isDefault"`
	Type      Type      `json:"type"`
}

// SavingTarget is a spending ceiling for the current calendar month of one category.
type SavingTarget struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Snapshot is the whole persisted state of the ledger.
type Snapshot struct {
	Expenses      []Expense      `json:"expenses"`
	Categories    []Category     `json:"categories"`
	SavingTargets []SavingTarget `json:"savingTargets"`
}

// Clone returns a copy that shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Expenses:      append([]Expense(nil), s.Expenses...),
		Categories:    append([]Category(nil), s.Categories...),
		SavingTargets: append([]SavingTarget(nil), s.SavingTargets...),
	}
}

type ExpenseParams struct {
	Date     string
	Category string
	Amount   decimal.Decimal
	Memo     string
	Type     Type
}

type CategoryParams struct {
	Name      string
	Color     string
	Type      Type
	IsDefault bool
}

// CategoryDeletion describes everything removed by DeleteCategory.
type CategoryDeletion struct {
	Category Category
	Expenses []Expense
	Target   *SavingTarget
}

// CategoryRename describes the effect of RenameCategory.
type CategoryRename struct {
	Category      Category
	OldName       string
	ExpenseIDs    []uuid.UUID
	TargetRenamed bool
}

package ledger

import "github.com/google/uuid"

// DefaultColor is used for categories created without a color and for summaries of
// entries whose category no longer exists.
const DefaultColor = "#6B7280"

var defaultCategories = []CategoryParams{
	{Name: "食費", Color: "#3B82F6", Type: TypeExpense, IsDefault: true},
	{Name: "交通費", Color: "#10B981", Type: TypeExpense, IsDefault: true},
	{Name: "娯楽", Color: "#F59E0B", Type: TypeExpense, IsDefault: true},
	{Name: "光熱費", Color: "#EF4444", Type: TypeExpense, IsDefault: true},
	{Name: "通信費", Color: "#8B5CF6", Type: TypeExpense, IsDefault: true},
	{Name: "日用品", Color: "#EC4899", Type: TypeExpense, IsDefault: true},
	{Name: "医療", Color: "#06B6D4", Type: TypeExpense, IsDefault: true},
	{Name: "衣服", Color: "#84CC16", Type: TypeExpense, IsDefault: true},
	{Name: "給与", Color: "#22C55E", Type: TypeIncome, IsDefault: true},
	{Name: "副業", Color: "#14B8A6", Type: TypeIncome, IsDefault: true},
	{Name: "投資", Color: "#6366F1", Type: TypeIncome, IsDefault: true},
	{Name: "その他収入", Color: "#8B5CF6", Type: TypeIncome, IsDefault: true},
}

// DefaultCategories returns the seed category set with freshly generated IDs.
func DefaultCategories(newID func() uuid.UUID) []Category {
	cats := make([]Category, len(defaultCategories))
	for i, p := range defaultCategories {
		cats[i] = Category{
			ID:        newID(),
			Name:      p.Name,
			Color:     p.Color,
			IsDefault: p.IsDefault,
			Type:      p.Type,
		}
	}

	return cats
}

// DefaultSnapshot is the state of a fresh ledger.
func DefaultSnapshot(newID func() uuid.UUID) Snapshot {
	return Snapshot{
		Expenses:      []Expense{},
		Categories:    DefaultCategories(newID),
		SavingTargets: []SavingTarget{},
	}
}

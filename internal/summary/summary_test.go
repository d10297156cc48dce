package summary_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/summary"
)

func entry(date, category string, amount int64, typ ledger.Type) ledger.Expense {
	return ledger.Expense{Date: date, Category: category, Amount: decimal.NewFromInt(amount), Type: typ}
}

func TestByCategory(t *testing.T) {
	categories := []ledger.Category{
		{Name: "食費", Color: "#3B82F6"},
		{Name: "交通費", Color: "#10B981"},
	}

	expenses := []ledger.Expense{
		entry("2024-01-01", "交通費", 300, ledger.TypeExpense),
		entry("2024-01-02", "食費", 1000, ledger.TypeExpense),
		entry("2024-01-03", "食費", 500, ledger.TypeExpense),
		entry("2024-01-04", "削除済み", 200, ledger.TypeExpense),
	}

	got := summary.ByCategory(expenses, categories)
	require.Len(t, got, 3)

	assert.Equal(t, "食費", got[0].Category)
	assert.Equal(t, "1500", got[0].Amount.String())
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "#3B82F6", got[0].Color)

	assert.Equal(t, "交通費", got[1].Category)
	assert.Equal(t, "300", got[1].Amount.String())
	assert.Equal(t, 1, got[1].Count)

	assert.Equal(t, "削除済み", got[2].Category)
	assert.Equal(t, ledger.DefaultColor, got[2].Color)
}

func TestByCategory_Empty(t *testing.T) {
	assert.Empty(t, summary.ByCategory(nil, nil))
}

func TestByMonth(t *testing.T) {
	t.Run("ChronologicalAcrossYears", func(t *testing.T) {
		expenses := []ledger.Expense{
			entry("2024-02-01", "食費", 100, ledger.TypeExpense),
			entry("2023-11-15", "食費", 200, ledger.TypeExpense),
			entry("2024-02-20", "食費", 50, ledger.TypeExpense),
			entry("2023-12-31", "食費", 10, ledger.TypeExpense),
		}

		got := summary.ByMonth(expenses)
		require.Len(t, got, 3)

		assert.Equal(t, "2023年11月", got[0].Label)
		assert.Equal(t, "2023年12月", got[1].Label)
		assert.Equal(t, "2024年2月", got[2].Label)
		assert.Equal(t, "150", got[2].Amount.String())
	})

	t.Run("KeepsMostRecentTwelve", func(t *testing.T) {
		var expenses []ledger.Expense

		for m := 1; m <= 12; m++ {
			expenses = append(expenses, entry(fmt.Sprintf("2023-%02d-10", m), "食費", 1, ledger.TypeExpense))
		}

		expenses = append(expenses, entry("2024-01-10", "食費", 1, ledger.TypeExpense))

		got := summary.ByMonth(expenses)
		require.Len(t, got, summary.MonthLimit)
		assert.Equal(t, "2023年2月", got[0].Label)
		assert.Equal(t, "2024年1月", got[len(got)-1].Label)
	})
}

func TestByWeek(t *testing.T) {
	expenses := []ledger.Expense{
		entry("2024-02-01", "食費", 100, ledger.TypeExpense),
		entry("2024-02-07", "食費", 200, ledger.TypeExpense),
		entry("2024-02-08", "食費", 400, ledger.TypeExpense),
		entry("2024-02-29", "食費", 800, ledger.TypeExpense),
		entry("2024-03-01", "食費", 1600, ledger.TypeExpense),
	}

	got, err := summary.ByWeek(expenses, 2024, 2)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, "1週目", got[0].Label)
	assert.Equal(t, "2月1日〜2月7日", got[0].DateRange)
	assert.Equal(t, "300", got[0].Amount.String())

	assert.Equal(t, "400", got[1].Amount.String())

	assert.Equal(t, "5週目", got[4].Label)
	assert.Equal(t, "2024-02-29", got[4].Start)
	assert.Equal(t, "2024-02-29", got[4].End)
	assert.Equal(t, "2月29日〜2月29日", got[4].DateRange)
	assert.Equal(t, "800", got[4].Amount.String())

	_, err = summary.ByWeek(expenses, 2024, 13)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestByDay(t *testing.T) {
	expenses := []ledger.Expense{
		entry("2024-01-05", "食費", 500, ledger.TypeExpense),
		entry("2024-01-02", "給与", 200000, ledger.TypeIncome),
		entry("2024-01-05", "交通費", 300, ledger.TypeExpense),
		entry("2024-02-05", "食費", 999, ledger.TypeExpense),
	}

	got := summary.ByDay(expenses, 2024, 1)
	require.Len(t, got, 2)

	assert.Equal(t, "2024-01-02", got[0].Date)
	assert.Equal(t, "200000", got[0].Income.String())
	assert.True(t, got[0].Expense.IsZero())

	assert.Equal(t, "2024-01-05", got[1].Date)
	assert.Equal(t, "800", got[1].Expense.String())
	assert.Equal(t, 2, got[1].Count)
}

func TestByDay_YearWiderThanDate(t *testing.T) {
	expenses := []ledger.Expense{entry("2024-01-05", "食費", 500, ledger.TypeExpense)}

	assert.NotPanics(t, func() {
		assert.Empty(t, summary.ByDay(expenses, 1000000, 1))
	})
}

func TestComputeTotals(t *testing.T) {
	got := summary.ComputeTotals([]ledger.Expense{
		entry("2024-01-02", "給与", 1000, ledger.TypeIncome),
		entry("2024-01-05", "食費", 300, ledger.TypeExpense),
		entry("2024-01-06", "交通費", 200, ledger.TypeExpense),
	})

	assert.Equal(t, "1000", got.Income.String())
	assert.Equal(t, "500", got.Expense.String())
	assert.Equal(t, "500", got.Balance.String())
	assert.Equal(t, "1500", got.Total.String())
	assert.Equal(t, 3, got.Count)
}

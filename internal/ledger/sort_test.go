package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

func TestSortExpenses(t *testing.T) {
	input := []ledger.Expense{
		{Date: "2024-01-02", Category: "食費", Amount: decimal.NewFromInt(500), Memo: "a"},
		{Date: "2024-01-01", Category: "交通費", Amount: decimal.NewFromInt(1500), Memo: "b"},
		{Date: "2024-01-02", Category: "交通費", Amount: decimal.NewFromInt(90), Memo: "c"},
		{Date: "2023-12-31", Category: "食費", Amount: decimal.NewFromInt(500), Memo: "d"},
	}

	memos := func(expenses []ledger.Expense) string {
		var out string
		for _, e := range expenses {
			out += e.Memo
		}

		return out
	}

	type testCase struct {
		name string
		sort ledger.Sort
		want string
	}

	tests := []testCase{
		{name: "DateAsc", sort: ledger.Sort{Field: ledger.SortByDate, Order: ledger.SortAsc}, want: "dbac"},
		{name: "DateDesc", sort: ledger.Sort{Field: ledger.SortByDate, Order: ledger.SortDesc}, want: "acbd"},
		{name: "CategoryAsc", sort: ledger.Sort{Field: ledger.SortByCategory, Order: ledger.SortAsc}, want: "bcad"},
		{name: "AmountAsc", sort: ledger.Sort{Field: ledger.SortByAmount, Order: ledger.SortAsc}, want: "cadb"},
		{name: "AmountDesc", sort: ledger.Sort{Field: ledger.SortByAmount, Order: ledger.SortDesc}, want: "badc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.SortExpenses(input, tt.sort)
			assert.Equal(t, tt.want, memos(got))
		})
	}

	assert.Equal(t, "abcd", memos(input), "input must not be reordered")
}

func TestParseSort(t *testing.T) {
	got, err := ledger.ParseSort("", "")
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultSort, got)

	got, err = ledger.ParseSort("Amount", "ASC")
	require.NoError(t, err)
	assert.Equal(t, ledger.Sort{Field: ledger.SortByAmount, Order: ledger.SortAsc}, got)

	_, err = ledger.ParseSort("memo", "")
	require.ErrorIs(t, err, ledger.ErrValidation)

	_, err = ledger.ParseSort("date", "up")
	require.ErrorIs(t, err, ledger.ErrValidation)
}

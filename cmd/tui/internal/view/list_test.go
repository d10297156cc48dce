package view

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

func newTestService(t *testing.T, entries ...ledger.ExpenseParams) *ledger.Service {
	t.Helper()

	repo := ledger.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := ledger.NewService(ledger.NewDefaultStore(), repo, nil)

	for _, p := range entries {
		_, err := svc.AddExpense(context.Background(), p)
		require.NoError(t, err)
	}

	return svc
}

func entry(date, category string, amount int64, memo string, typ ledger.Type) ledger.ExpenseParams {
	return ledger.ExpenseParams{
		Date:     date,
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Memo:     memo,
		Type:     typ,
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m ListModel, keys ...string) ListModel {
	t.Helper()

	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ListModel)
	}

	return m
}

func sampleEntries() []ledger.ExpenseParams {
	return []ledger.ExpenseParams{
		entry("2024-03-01", "食費", 800, "lunch", ledger.TypeExpense),
		entry("2024-03-05", "交通費", 300, "train", ledger.TypeExpense),
		entry("2024-02-25", "給与", 250000, "", ledger.TypeIncome),
		entry("2024-03-10", "食費", 1200, "dinner", ledger.TypeExpense),
	}
}

func newTestList(t *testing.T) ListModel {
	t.Helper()

	m := NewListModel(newTestService(t, sampleEntries()...))
	m.now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }
	m.refresh()

	return m
}

func dates(entries []ledger.Expense) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Date
	}

	return out
}

func TestListModel_DefaultsToNewestFirst(t *testing.T) {
	m := newTestList(t)

	assert.Equal(t, []string{"2024-03-10", "2024-03-05", "2024-03-01", "2024-02-25"}, dates(m.entries))
}

func TestListModel_PeriodCycle(t *testing.T) {
	m := press(t, newTestList(t), "d")

	assert.Equal(t, PeriodThisMonth, m.period)
	assert.Len(t, m.entries, 3)

	m = press(t, m, "d")
	assert.Equal(t, PeriodLastMonth, m.period)
	assert.Equal(t, []string{"2024-02-25"}, dates(m.entries))

	m = press(t, m, "d", "d")
	assert.Equal(t, PeriodAll, m.period)
	assert.Len(t, m.entries, 4)
}

func TestListModel_CategoryCycle(t *testing.T) {
	m := press(t, newTestList(t), "c")

	assert.Equal(t, "食費", m.Filter().Category)
	assert.Equal(t, []string{"2024-03-10", "2024-03-01"}, dates(m.entries))
}

func TestListModel_Search(t *testing.T) {
	m := press(t, newTestList(t), "/")
	require.Equal(t, listStateSearch, m.state)

	m.search.SetValue("DIN")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ListModel)

	assert.Equal(t, listStateBrowse, m.state)
	assert.Equal(t, []string{"2024-03-10"}, dates(m.entries))

	m = press(t, m, "/")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ListModel)

	assert.Empty(t, m.search.Value())
	assert.Len(t, m.entries, 4)
}

func TestListModel_SortByAmount(t *testing.T) {
	m := press(t, newTestList(t), "s", "s")
	require.Equal(t, ledger.SortByAmount, sortFields[m.sortIdx])

	amounts := func() []string {
		out := make([]string, len(m.entries))
		for i, e := range m.entries {
			out[i] = e.Amount.String()
		}

		return out
	}

	assert.Equal(t, []string{"250000", "1200", "800", "300"}, amounts())

	m = press(t, m, "o")
	assert.Equal(t, []string{"300", "800", "1200", "250000"}, amounts())
}

func TestListModel_SaveCmd(t *testing.T) {
	m := newTestList(t)
	target := m.entries[0]

	msg := m.saveCmd(listStateEdit, target, listForm{amount: "1,500"})().(listSavedMsg)
	require.NoError(t, msg.err)

	next, _ := m.Update(msg)
	m = next.(ListModel)
	assert.Equal(t, "1500", m.entries[0].Amount.String())

	msg = m.saveCmd(listStateDelete, target, listForm{})().(listSavedMsg)
	require.NoError(t, msg.err)

	next, _ = m.Update(msg)
	m = next.(ListModel)
	assert.Len(t, m.entries, 3)
	assert.NotContains(t, dates(m.entries), "2024-03-10")
}

func TestListModel_SaveCmdRejectsBadAmount(t *testing.T) {
	m := newTestList(t)

	msg := m.saveCmd(listStateEdit, m.entries[0], listForm{amount: "0"})().(listSavedMsg)
	assert.Error(t, msg.err)
}

func TestListModel_EscGoesBack(t *testing.T) {
	_, cmd := newTestList(t).Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, BackMsg{}, cmd())
}

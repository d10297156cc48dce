package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/summary"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateEdit
	listStateDelete
)

var sortFields = []ledger.SortField{ledger.SortByDate, ledger.SortByCategory, ledger.SortByAmount}

type listForm struct {
	amount  string
	confirm bool
}

// ListModel browses entries with period, category and memo filters.
type ListModel struct {
	svc *ledger.Service
	now func() time.Time

	state   listState
	table   table.Model
	entries []ledger.Expense

	period      Period
	categoryIdx int // 0 selects every category
	search      textinput.Model
	sortIdx     int
	order       ledger.SortOrder

	form   *huh.Form
	vals   *listForm
	status string
}

func NewListModel(svc *ledger.Service) ListModel {
	columns := []table.Column{
		{Title: "日付", Width: 12},
		{Title: "種類", Width: 6},
		{Title: "カテゴリ", Width: 14},
		{Title: "金額", Width: 14},
		{Title: "メモ", Width: 36},
	}

	search := textinput.New()
	search.Placeholder = "メモを検索"
	search.Prompt = "/ "
	search.Width = 30

	m := ListModel{
		svc:    svc,
		now:    time.Now,
		table:  newTable(columns, 15),
		search: search,
		order:  ledger.SortDesc,
	}
	m.refresh()

	return m
}

func (m ListModel) Title() string { return "記録一覧" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateSearch:
		return "Enter: 検索 | Esc: キャンセル"
	case listStateEdit, listStateDelete:
		return "Esc: キャンセル"
	}

	return "Esc: 戻る | d: 期間 | c: カテゴリ | /: 検索 | s: 並び替え | o: 昇順/降順 | e: 金額編集 | x: 削除 | r: 再読込"
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listSavedMsg:
		m.status = outcome(msg.done, msg.err)
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()
		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateEdit, listStateDelete:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.status = ""
			m.refresh()

			return m, nil
		case "d":
			m.period = Period((int(m.period) + 1) % cyclePeriods)
			m.refresh()

			return m, nil
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(m.svc.Store().Categories()) + 1)
			m.refresh()

			return m, nil
		case "/":
			m.state = listStateSearch
			m.table.Blur()
			cmd := m.search.Focus()

			return m, cmd
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(sortFields)
			m.refresh()

			return m, nil
		case "o":
			if m.order == ledger.SortDesc {
				m.order = ledger.SortAsc
			} else {
				m.order = ledger.SortDesc
			}

			m.refresh()

			return m, nil
		case "e":
			return m.enterForm(listStateEdit)
		case "x":
			return m.enterForm(listStateDelete)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.refresh()

			return m, nil
		case tea.KeyEsc:
			m.state = listStateBrowse
			m.search.SetValue("")
			m.search.Blur()
			m.table.Focus()
			m.refresh()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m ListModel) selected() (ledger.Expense, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return ledger.Expense{}, false
	}

	return m.entries[idx], true
}

func (m ListModel) enterForm(state listState) (tea.Model, tea.Cmd) {
	e, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.vals = &listForm{amount: e.Amount.String()}

	if state == listStateEdit {
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("amount").
					Title("金額").
					Value(&m.vals.amount).
					Validate(validateAmount),
			),
		).WithWidth(40).WithShowHelp(false)
	} else {
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Key("confirm").
					Title("この記録を削除しますか?").
					Description(fmt.Sprintf("%s %s %s", e.Date, e.Category, FormatAmount(e.Amount))).
					Affirmative("削除").
					Negative("キャンセル").
					Value(&m.vals.confirm),
			),
		).WithWidth(40).WithShowHelp(false)
	}

	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	e, _ := m.selected()

	if m.state == listStateDelete && !m.vals.confirm {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.saveCmd(m.state, e, *m.vals)
}

// Filter is the filter currently applied to the list.
func (m ListModel) Filter() ledger.Filter {
	f := m.period.Filter(m.now())
	f.SearchText = m.search.Value()

	if cats := m.svc.Store().Categories(); m.categoryIdx > 0 && m.categoryIdx <= len(cats) {
		f.Category = cats[m.categoryIdx-1].Name
	}

	return f
}

func (m *ListModel) refresh() {
	sort := ledger.Sort{Field: sortFields[m.sortIdx], Order: m.order}
	m.entries = ledger.SortExpenses(ledger.FilterExpenses(m.svc.Store().Expenses(), m.Filter()), sort)

	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			e.Date,
			e.Type.Label(),
			e.Category,
			FormatAmount(e.Amount),
			e.Memo,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m ListModel) View() string {
	f := m.Filter()

	category := "すべて"
	if f.Category != "" {
		category = f.Category
	}

	order := "降順"
	if m.order == ledger.SortAsc {
		order = "昇順"
	}

	header := fmt.Sprintf(
		"[d] 期間: %s | [c] カテゴリ: %s | [s] 並び: %s %s",
		activeStyle(m.period.String()),
		activeStyle(category),
		activeStyle(string(sortFields[m.sortIdx])),
		activeStyle(order),
	)

	totals := summary.ComputeTotals(m.entries)
	footer := faintStyle.Render(fmt.Sprintf("%d件 | 収入 %s | 支出 %s | 収支 %s",
		totals.Count, FormatAmount(totals.Income), FormatAmount(totals.Expense), FormatAmount(totals.Balance)))

	parts := []string{header}
	if m.state == listStateSearch || m.search.Value() != "" {
		parts = append(parts, m.search.View())
	}

	parts = append(parts, renderTable(m.table), footer)

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if (m.state == listStateEdit || m.state == listStateDelete) && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(44).Render(m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type listSavedMsg struct {
	done string
	err  error
}

func (m ListModel) saveCmd(state listState, e ledger.Expense, vals listForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if state == listStateDelete {
			_, err := m.svc.DeleteExpense(ctx, e.ID)
			return listSavedMsg{done: "記録を削除しました", err: err}
		}

		amount, err := ParseAmount(vals.amount)
		if err != nil {
			return listSavedMsg{err: err}
		}

		_, err = m.svc.UpdateExpenseAmount(ctx, e.ID, amount)

		return listSavedMsg{done: "金額を更新しました", err: err}
	}
}

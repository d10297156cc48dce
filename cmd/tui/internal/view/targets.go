package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/target"
)

type targetState int

const (
	targetStateBrowse targetState = iota
	targetStateAdd
	targetStateDelete
)

type targetForm struct {
	category string
	amount   string
	confirm  bool
}

// TargetsModel shows this month's saving targets and lets the user set or remove them.
type TargetsModel struct {
	svc *ledger.Service
	now func() time.Time

	state       targetState
	table       table.Model
	evaluations []target.Evaluation

	form   *huh.Form
	vals   *targetForm
	status string
}

func NewTargetsModel(svc *ledger.Service) TargetsModel {
	columns := []table.Column{
		{Title: "カテゴリ", Width: 12},
		{Title: "目標", Width: 12},
		{Title: "今月", Width: 12},
		{Title: "残り", Width: 12},
		{Title: "状況", Width: 24},
	}

	m := TargetsModel{svc: svc, now: time.Now, table: newTable(columns, 10)}
	m.refresh()

	return m
}

func (m TargetsModel) Title() string { return "貯蓄目標" }

func (m TargetsModel) ShortHelp() string {
	if m.state != targetStateBrowse {
		return "Esc: キャンセル"
	}

	return "Esc: 戻る | a: 追加 | x: 削除"
}

func (m TargetsModel) Init() tea.Cmd {
	return nil
}

func (m TargetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(targetSavedMsg); ok {
		m.status = outcome(saved.done, saved.err)
		m.state = targetStateBrowse
		m.form = nil
		m.table.Focus()
		m.refresh()

		return m, nil
	}

	if m.state != targetStateBrowse {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterForm(targetStateAdd)
		case "x":
			if len(m.evaluations) > 0 {
				return m.enterForm(targetStateDelete)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TargetsModel) enterForm(state targetState) (tea.Model, tea.Cmd) {
	m.vals = &targetForm{}

	var group *huh.Group

	if state == targetStateAdd {
		var opts []huh.Option[string]
		for _, c := range m.svc.Store().Categories() {
			if c.Type == ledger.TypeExpense {
				opts = append(opts, huh.NewOption(c.Name, c.Name))
			}
		}

		if len(opts) == 0 {
			m.status = errorStyle.Render("支出カテゴリがありません")
			return m, nil
		}

		group = huh.NewGroup(
			huh.NewSelect[string]().Title("カテゴリ").Options(opts...).Value(&m.vals.category),
			huh.NewInput().
				Title("月の目標額").
				Description("カテゴリごとに1つまで設定できます").
				Value(&m.vals.amount).
				Validate(validateAmount),
		)
	} else {
		m.vals.category = m.evaluations[m.table.Cursor()].Category
		group = huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("「%s」の目標を削除しますか?", m.vals.category)).
				Affirmative("削除").
				Negative("キャンセル").
				Value(&m.vals.confirm),
		)
	}

	m.form = huh.NewForm(group).WithWidth(44).WithShowHelp(false)
	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m TargetsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = targetStateBrowse
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

	if m.state == targetStateDelete && !m.vals.confirm {
		m.state = targetStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.saveCmd(m.state, *m.vals)
}

func (m *TargetsModel) refresh() {
	store := m.svc.Store()
	m.evaluations = target.Evaluate(store.SavingTargets(), store.Expenses(), store.Categories(), m.now())

	rows := make([]table.Row, 0, len(m.evaluations))
	for _, ev := range m.evaluations {
		rows = append(rows, table.Row{
			ev.Category,
			FormatAmount(ev.Target),
			FormatAmount(ev.Current),
			FormatAmount(ev.Available),
			ev.Message,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

var statusStyles = map[target.Status]lipgloss.Style{
	target.StatusWithin:      okStyle,
	target.StatusApproaching: warnStyle,
	target.StatusOver:        errorStyle,
}

func (m TargetsModel) View() string {
	if len(m.evaluations) == 0 && m.form == nil {
		content := faintStyle.Render("目標はまだありません (a で追加)")
		if m.status != "" {
			content = m.status + "\n\n" + content
		}

		return lipgloss.NewStyle().Padding(1).Render(content)
	}

	content := renderTable(m.table)

	// Highlight the selected target's status below the table.
	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.evaluations) {
		ev := m.evaluations[idx]
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(ev.Color)).Render("■")
		content += "\n" + swatch + " " + statusStyles[ev.Status].Render(ev.Category+": "+ev.Message)
	}

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(48).Render(m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type targetSavedMsg struct {
	done string
	err  error
}

func (m TargetsModel) saveCmd(state targetState, vals targetForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if state == targetStateDelete {
			removed, err := m.svc.DeleteSavingTarget(ctx, vals.category)
			if err == nil && !removed {
				err = fmt.Errorf("「%s」の目標が見つかりません", vals.category)
			}

			return targetSavedMsg{done: fmt.Sprintf("「%s」の目標を削除しました", vals.category), err: err}
		}

		amount, err := ParseAmount(vals.amount)
		if err != nil {
			return targetSavedMsg{err: err}
		}

		t, err := m.svc.AddSavingTarget(ctx, ledger.SavingTarget{Category: vals.category, Amount: amount})

		return targetSavedMsg{done: fmt.Sprintf("「%s」の目標を%sにしました", t.Category, FormatAmount(t.Amount)), err: err}
	}
}

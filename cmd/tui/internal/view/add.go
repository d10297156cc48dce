package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type addValues struct {
	date     string
	category string
	amount   string
	memo     string
}

// AddModel records a new entry. The entry type follows from the chosen category.
type AddModel struct {
	svc *ledger.Service

	form   *huh.Form
	vals   *addValues
	status string
}

func NewAddModel(svc *ledger.Service) AddModel {
	m := AddModel{svc: svc}
	m.form, m.vals = m.buildForm()

	return m
}

func (m AddModel) Title() string { return "記録を追加" }

func (m AddModel) ShortHelp() string { return "Enter: 次へ | Esc: 戻る" }

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddModel) buildForm() (*huh.Form, *addValues) {
	vals := &addValues{date: time.Now().Format(time.DateOnly)}

	cats := m.svc.Store().Categories()

	opts := make([]huh.Option[string], 0, len(cats))
	for _, c := range cats {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", c.Name, c.Type.Label()), c.Name))
	}

	if len(cats) > 0 {
		vals.category = cats[0].Name
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("日付").
				Placeholder("YYYY-MM-DD").
				Value(&vals.date).
				Validate(validateDate),

			huh.NewSelect[string]().
				Key("category").
				Title("カテゴリ").
				Options(opts...).
				Value(&vals.category),

			huh.NewInput().
				Key("amount").
				Title("金額").
				Placeholder("1000").
				Value(&vals.amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("memo").
				Title("メモ").
				Value(&vals.memo),
		),
	).WithWidth(50).WithShowHelp(false)

	return form, vals
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addSavedMsg:
		m.status = outcome(msg.done, msg.err)
		m.form, m.vals = m.buildForm()

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m AddModel) View() string {
	content := m.form.View()
	if m.status != "" {
		content = m.status + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type addSavedMsg struct {
	done string
	err  error
}

func (m AddModel) saveCmd() tea.Cmd {
	vals := *m.vals

	return func() tea.Msg {
		amount, err := ParseAmount(vals.amount)
		if err != nil {
			return addSavedMsg{err: err}
		}

		cat, err := m.svc.Store().CategoryByName(vals.category)
		if err != nil {
			return addSavedMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		e, err := m.svc.AddExpense(ctx, ledger.ExpenseParams{
			Date:     vals.date,
			Category: cat.Name,
			Amount:   amount,
			Memo:     vals.memo,
			Type:     cat.Type,
		})

		return addSavedMsg{
			done: fmt.Sprintf("%s %s %s を追加しました", e.Date, e.Category, FormatAmount(e.Amount)),
			err:  err,
		}
	}
}

package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type categoryAction int

const (
	categoryActionNone categoryAction = iota
	categoryActionAdd
	categoryActionRename
	categoryActionColor
	categoryActionDelete
)

type categoryForm struct {
	name    string
	color   string
	typ     ledger.Type
	confirm bool
}

// CategoriesModel manages categories. Renames and deletions carry over to entries and
// saving targets.
type CategoriesModel struct {
	svc *ledger.Service

	table      table.Model
	categories []ledger.Category

	action categoryAction
	target ledger.Category
	usage  int
	form   *huh.Form
	vals   *categoryForm
	status string
}

func NewCategoriesModel(svc *ledger.Service) CategoriesModel {
	columns := []table.Column{
		{Title: "名前", Width: 16},
		{Title: "種類", Width: 6},
		{Title: "色", Width: 10},
		{Title: "件数", Width: 6},
		{Title: "既定", Width: 6},
	}

	m := CategoriesModel{svc: svc, table: newTable(columns, 14)}
	m.refresh()

	return m
}

func (m CategoriesModel) Title() string { return "カテゴリ" }

func (m CategoriesModel) ShortHelp() string {
	if m.action != categoryActionNone {
		return "Esc: キャンセル"
	}

	return "Esc: 戻る | a: 追加 | n: 名前変更 | p: 色変更 | x: 削除"
}

func (m CategoriesModel) Init() tea.Cmd {
	return nil
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(categorySavedMsg); ok {
		m.status = outcome(saved.done, saved.err)
		m.action = categoryActionNone
		m.form = nil
		m.table.Focus()
		m.refresh()

		return m, nil
	}

	if m.action != categoryActionNone {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterForm(categoryActionAdd)
		case "n":
			return m.enterForm(categoryActionRename)
		case "p":
			return m.enterForm(categoryActionColor)
		case "x":
			return m.enterForm(categoryActionDelete)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CategoriesModel) enterForm(action categoryAction) (tea.Model, tea.Cmd) {
	if action != categoryActionAdd {
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.categories) {
			return m, nil
		}

		m.target = m.categories[idx]
		m.usage = m.svc.Store().CategoryUsage(m.target.Name)
	}

	m.vals = &categoryForm{name: m.target.Name, color: m.target.Color, typ: ledger.TypeExpense}

	var fields []huh.Field

	switch action {
	case categoryActionAdd:
		m.vals.name, m.vals.color = "", ledger.DefaultColor
		fields = []huh.Field{
			huh.NewInput().Title("名前").Value(&m.vals.name).Validate(validateName),
			huh.NewSelect[ledger.Type]().
				Title("種類").
				Options(
					huh.NewOption(ledger.TypeExpense.Label(), ledger.TypeExpense),
					huh.NewOption(ledger.TypeIncome.Label(), ledger.TypeIncome),
				).
				Value(&m.vals.typ),
			huh.NewInput().Title("色").Value(&m.vals.color).Validate(validateColor),
		}
	case categoryActionRename:
		fields = []huh.Field{
			huh.NewInput().
				Title("新しい名前").
				Description(fmt.Sprintf("%d件の記録と貯蓄目標も変更されます", m.usage)).
				Value(&m.vals.name).
				Validate(validateName),
		}
	case categoryActionColor:
		fields = []huh.Field{
			huh.NewInput().Title("色").Placeholder("#RRGGBB").Value(&m.vals.color).Validate(validateColor),
		}
	case categoryActionDelete:
		desc := "このカテゴリを削除します"
		if m.usage > 0 {
			desc = fmt.Sprintf("このカテゴリの%d件の記録も削除されます", m.usage)
		}

		fields = []huh.Field{
			huh.NewConfirm().
				Title(fmt.Sprintf("「%s」を削除しますか?", m.target.Name)).
				Description(desc).
				Affirmative("削除").
				Negative("キャンセル").
				Value(&m.vals.confirm),
		}
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(44).WithShowHelp(false)
	m.action = action
	m.table.Blur()

	return m, m.form.Init()
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("名前を入力してください")
	}

	return nil
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.action = categoryActionNone
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

	if m.action == categoryActionDelete && !m.vals.confirm {
		m.action = categoryActionNone
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.saveCmd(m.action, m.target, m.usage, *m.vals)
}

func (m *CategoriesModel) refresh() {
	m.categories = m.svc.Store().Categories()

	rows := make([]table.Row, 0, len(m.categories))
	for _, c := range m.categories {
		isDefault := ""
		if c.IsDefault {
			isDefault = "✓"
		}

		rows = append(rows, table.Row{
			c.Name,
			c.Type.Label(),
			c.Color,
			fmt.Sprint(m.svc.Store().CategoryUsage(c.Name)),
			isDefault,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m CategoriesModel) View() string {
	content := renderTable(m.table)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(48).Render(m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type categorySavedMsg struct {
	done string
	err  error
}

func (m CategoriesModel) saveCmd(action categoryAction, target ledger.Category, usage int, vals categoryForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		switch action {
		case categoryActionAdd:
			c, err := m.svc.AddCategory(ctx, ledger.CategoryParams{Name: vals.name, Color: vals.color, Type: vals.typ})
			return categorySavedMsg{done: fmt.Sprintf("「%s」を追加しました", c.Name), err: err}
		case categoryActionRename:
			res, err := m.svc.RenameCategory(ctx, target.ID, vals.name)
			return categorySavedMsg{
				done: fmt.Sprintf("「%s」を「%s」に変更しました (%d件)", res.OldName, res.Category.Name, len(res.ExpenseIDs)),
				err:  err,
			}
		case categoryActionColor:
			_, err := m.svc.UpdateCategoryColor(ctx, target.ID, vals.color)
			return categorySavedMsg{done: "色を変更しました", err: err}
		default:
			res, err := m.svc.DeleteCategory(ctx, target.ID, usage > 0)
			return categorySavedMsg{
				done: fmt.Sprintf("「%s」を削除しました (%d件)", target.Name, len(res.Expenses)),
				err:  err,
			}
		}
	}
}

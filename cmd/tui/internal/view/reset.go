package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type resetValues struct {
	confirm     bool
	acknowledge string
}

// ResetModel wipes the ledger after a confirmation and a typed acknowledgement.
type ResetModel struct {
	svc *ledger.Service

	form   *huh.Form
	vals   *resetValues
	status string
}

func NewResetModel(svc *ledger.Service) ResetModel {
	m := ResetModel{svc: svc}
	m.form, m.vals = m.buildForm()

	return m
}

func (m ResetModel) Title() string { return "データ初期化" }

func (m ResetModel) ShortHelp() string { return "Esc: 戻る" }

func (m ResetModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ResetModel) buildForm() (*huh.Form, *resetValues) {
	vals := &resetValues{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("すべての記録と貯蓄目標を削除しますか?").
				Description("カテゴリは初期状態に戻ります。この操作は取り消せません。").
				Affirmative("はい").
				Negative("いいえ").
				Value(&vals.confirm),
		),
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("確認のため「%s」と入力してください", ledger.ResetAcknowledgement)).
				Value(&vals.acknowledge).
				Validate(func(s string) error {
					if s != ledger.ResetAcknowledgement {
						return fmt.Errorf("「%s」と入力してください", ledger.ResetAcknowledgement)
					}

					return nil
				}),
		).WithHideFunc(func() bool { return !vals.confirm }),
	).WithWidth(56).WithShowHelp(false)

	return form, vals
}

func (m ResetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	case resetDoneMsg:
		m.status = outcome("初期化しました", msg.err)
		m.form, m.vals = m.buildForm()

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.vals.confirm {
		return m, Back
	}

	return m, m.resetCmd()
}

func (m ResetModel) View() string {
	content := m.form.View()
	if m.status != "" {
		content = m.status + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type resetDoneMsg struct {
	err error
}

func (m ResetModel) resetCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return resetDoneMsg{err: m.svc.Reset(ctx, true)}
	}
}

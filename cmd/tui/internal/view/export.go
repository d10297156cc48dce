package view

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/export"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type exportState int

const (
	exportStatePeriod exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

// ExportModel writes the entries of a chosen period to a CSV file.
type ExportModel struct {
	exportService *export.Service

	state  exportState
	picker PeriodPicker
	filter ledger.Filter
	label  string

	form    *huh.Form
	path    *string
	spinner spinner.Model

	written string
	err     error
}

func NewExportModel(svc *export.Service, dir string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		state:         exportStatePeriod,
		picker:        NewPeriodPicker(PeriodThisMonth),
		path:          &dir,
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "CSV出力" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: 戻る"
	case exportStateExporting:
		return "出力中..."
	}

	return "Esc: 戻る | Enter: 決定"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if selected, ok := msg.(PeriodSelectedMsg); ok {
		m.filter = selected.Filter
		m.label = selected.Label
		m.form = m.buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case exportStatePeriod:
		return m.updatePeriod(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStatePeriod
			m.picker.Reset()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.filter, *m.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.written = result.path
		m.err = result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("出力先フォルダ").
				Description("存在しない場合は作成されます").
				Placeholder("./exports").
				Value(m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStatePeriod:
		return style.Render(m.picker.View())
	case exportStatePath:
		return style.Render("期間: " + activeStyle(m.label) + "\n\n" + m.form.View())
	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s 出力しています...", m.spinner.View()))
	case exportStateResult:
		return style.Render(m.viewResult())
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if errors.Is(m.err, export.ErrNoData) {
		return warnStyle.Render("出力するデータがありません")
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("エラー: %v", m.err))
	}

	return okStyle.Render("✓ 出力しました") + "\n\n" + m.written
}

type exportResultMsg struct {
	path string
	err  error
}

func (m ExportModel) runExportCmd(filter ledger.Filter, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.exportService.WriteFile(filter, dir)
		return exportResultMsg{path: path, err: err}
	}
}

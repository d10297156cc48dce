package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel reads a CSV file chosen from disk into the ledger.
type ImportModel struct {
	importService *importer.Service

	state       importState
	filePicker  filepicker.Model
	skippedList list.Model

	result importer.Result
	status string
	err    error
}

func NewImportModel(svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: svc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "CSV取込" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: 戻る | ↑/↓: スキップ行"
	}

	return "Esc: 戻る | Enter: 選択"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result
		m.err = msg.err

		if msg.err != nil && !errors.Is(msg.err, ledger.ErrRemoteSync) {
			m.status = errorStyle.Render(fmt.Sprintf("エラー: %v", msg.err))
		} else {
			m.status = outcome(fmt.Sprintf("%d件を取り込みました", len(msg.result.Imported)), msg.err)
		}

		m.skippedList = newSkippedList(msg.result.Skipped)

		return m, nil
	}

	switch m.state {
	case importStateFilePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = importStateImporting
			m.status = fmt.Sprintf("%s を取り込んでいます...", path)

			return m, m.importCmd(path)
		}

		return m, cmd

	case importStateResult:
		var cmd tea.Cmd
		m.skippedList, cmd = m.skippedList.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.result = importer.Result{}
		m.status = ""
		m.err = nil

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("取り込むファイルを選択してください:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	content := m.status
	if len(m.result.Skipped) > 0 {
		content += "\n\n" + m.skippedList.View()
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render("(Esc で戻る)"))
}

type importResultMsg struct {
	result importer.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, importer.FormatLedger, f)

		return importResultMsg{result: result, err: err}
	}
}

func newSkippedList(skipped []importer.Skipped) list.Model {
	items := make([]list.Item, len(skipped))
	for i, s := range skipped {
		items[i] = skippedItem(s)
	}

	l := list.New(items, skippedDelegate{}, 80, 12)
	l.Title = fmt.Sprintf("スキップした行 (%d)", len(skipped))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

type skippedItem importer.Skipped

func (i skippedItem) FilterValue() string { return "" }

type skippedDelegate struct{}

func (d skippedDelegate) Height() int                             { return 1 }
func (d skippedDelegate) Spacing() int                            { return 0 }
func (d skippedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d skippedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(skippedItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%s%s %s", cursor, warnStyle.Render(fmt.Sprintf("%d行目", item.Line)), item.Reason)
}

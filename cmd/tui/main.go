package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/kakeibo/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/kakeibo/internal/app"
	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	"github.com/MrJamesThe3rd/kakeibo/internal/logging"
)

// tab is a screen reachable from the menu. key is what gets persisted as the active tab.
type tab struct {
	key   string
	label string
	open  func(a *app.App) view.View
}

var tabs = []tab{
	{key: "add", label: "記録を追加", open: func(a *app.App) view.View { return view.NewAddModel(a.Ledger) }},
	{key: "list", label: "記録一覧", open: func(a *app.App) view.View { return view.NewListModel(a.Ledger) }},
	{key: "summary", label: "集計", open: func(a *app.App) view.View { return view.NewSummaryModel(a.Ledger.Store()) }},
	{key: "targets", label: "貯蓄目標", open: func(a *app.App) view.View { return view.NewTargetsModel(a.Ledger) }},
	{key: "categories", label: "カテゴリ", open: func(a *app.App) view.View { return view.NewCategoriesModel(a.Ledger) }},
	{key: "import", label: "CSV取込", open: func(a *app.App) view.View { return view.NewImportModel(a.Import) }},
	{key: "export", label: "CSV出力", open: func(a *app.App) view.View { return view.NewExportModel(a.Export, "./exports") }},
	{key: "reset", label: "データ初期化", open: func(a *app.App) view.View { return view.NewResetModel(a.Ledger) }},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tabStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTab  = tabStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type model struct {
	app *app.App

	cursor  int
	current view.View // nil while the menu is shown
}

func tabIndex(key string) (int, bool) {
	for i, t := range tabs {
		if t.key == key {
			return i, true
		}
	}

	return 0, false
}

func initialModel(a *app.App) model {
	m := model{app: a}

	key, err := a.Records.ActiveTab(context.Background())
	if err != nil {
		slog.Warn("failed to restore active tab", "error", err)
	}

	if i, ok := tabIndex(key); ok {
		m.cursor = i
		m.current = tabs[i].open(a)
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.current != nil {
		return m.current.Init()
	}

	return nil
}

func (m model) open(i int) (tea.Model, tea.Cmd) {
	m.cursor = i
	m.current = tabs[i].open(m.app)

	if err := m.app.Records.SetActiveTab(context.Background(), tabs[i].key); err != nil {
		slog.Warn("failed to store active tab", "tab", tabs[i].key, "error", err)
	}

	return m, m.current.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k", "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "right", "l", "tab":
		if m.cursor < len(tabs)-1 {
			m.cursor++
		}
	case "enter":
		return m.open(m.cursor)
	default:
		var n int
		if _, err := fmt.Sscanf(msg.String(), "%d", &n); err == nil && n >= 1 && n <= len(tabs) {
			return m.open(n - 1)
		}
	}

	return m, nil
}

func (m model) tabBar() string {
	labels := make([]string, len(tabs))
	for i, t := range tabs {
		if i == m.cursor {
			labels[i] = activeTab.Render(t.label)
		} else {
			labels[i] = tabStyle.Render(t.label)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, labels...)
}

func (m model) View() string {
	header := titleStyle.Render(m.app.Config.App.Name) + "\n" + m.tabBar()

	if m.current != nil {
		return header + "\n" + m.current.View() + "\n" + helpStyle.Render(m.current.ShortHelp())
	}

	var sb strings.Builder
	for i, t := range tabs {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		fmt.Fprintf(&sb, "%s%d. %s\n", cursor, i+1, t.label)
	}

	return header + "\n" + lipgloss.NewStyle().Padding(1, 2).Render(sb.String()) +
		"\n" + helpStyle.Render("↑/↓: 移動 | Enter: 開く | q: 終了")
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file beside the database.
	logPath := filepath.Join(filepath.Dir(cfg.DB.Path), "kakeibo-tui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		slog.Error("failed to create log directory", "error", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "path", logPath, "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	level, _ := config.ParseLevel(cfg.Log.Level)
	logging.Setup(logFile, level, cfg.Log.Format, "tui")

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open ledger: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

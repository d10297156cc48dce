package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/summary"
)

type summaryMode int

const (
	summaryModeCategory summaryMode = iota
	summaryModeMonthly
	summaryModeWeekly
	summaryModeDaily
	summaryModeCount
)

func (m summaryMode) String() string {
	switch m {
	case summaryModeMonthly:
		return "月別"
	case summaryModeWeekly:
		return "週別"
	case summaryModeDaily:
		return "日別"
	default:
		return "カテゴリ別"
	}
}

const barWidth = 30

type bar struct {
	label  string
	detail string
	amount decimal.Decimal
	color  string
}

// SummaryModel renders the aggregate charts as horizontal bars.
type SummaryModel struct {
	store *ledger.Store
	now   func() time.Time

	mode   summaryMode
	period Period
	// month is the first day of the month shown by the weekly and daily charts.
	month time.Time
}

func NewSummaryModel(store *ledger.Store) SummaryModel {
	now := time.Now()

	return SummaryModel{
		store:  store,
		now:    time.Now,
		period: PeriodThisMonth,
		month:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m SummaryModel) Title() string { return "集計" }

func (m SummaryModel) ShortHelp() string {
	if m.monthly() {
		return "Esc: 戻る | tab: 表示切替 | ←/→: 月"
	}

	return "Esc: 戻る | tab: 表示切替 | d: 期間"
}

func (m SummaryModel) Init() tea.Cmd {
	return nil
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "tab", "m":
		m.mode = (m.mode + 1) % summaryModeCount
	case "shift+tab":
		m.mode = (m.mode + summaryModeCount - 1) % summaryModeCount
	case "d":
		m.period = Period((int(m.period) + 1) % cyclePeriods)
	case "left", "h":
		m.month = m.month.AddDate(0, -1, 0)
	case "right", "l":
		m.month = m.month.AddDate(0, 1, 0)
	}

	return m, nil
}

func (m SummaryModel) monthly() bool {
	return m.mode == summaryModeWeekly || m.mode == summaryModeDaily
}

// expenses returns the entries in view. The weekly and daily charts cover the selected
// month regardless of the period.
func (m SummaryModel) expenses() []ledger.Expense {
	filter := m.period.Filter(m.now())
	if m.monthly() {
		filter = ledger.Filter{}.WithYearMonth(strconv.Itoa(m.month.Year()), strconv.Itoa(int(m.month.Month())))
	}

	return ledger.FilterExpenses(m.store.Expenses(), filter)
}

func (m SummaryModel) bars(expenses []ledger.Expense) []bar {
	var out []bar

	year, month := m.month.Year(), int(m.month.Month())

	switch m.mode {
	case summaryModeCategory:
		for _, c := range summary.ByCategory(expenses, m.store.Categories()) {
			out = append(out, bar{
				label:  c.Category,
				detail: fmt.Sprintf("%d件", c.Count),
				amount: c.Amount,
				color:  c.Color,
			})
		}
	case summaryModeMonthly:
		for _, mt := range summary.ByMonth(expenses) {
			out = append(out, bar{label: mt.Label, amount: mt.Amount, color: "63"})
		}
	case summaryModeWeekly:
		weeks, _ := summary.ByWeek(expenses, year, month)
		for _, w := range weeks {
			out = append(out, bar{label: w.Label, detail: w.DateRange, amount: w.Amount, color: "63"})
		}
	case summaryModeDaily:
		for _, d := range summary.ByDay(expenses, year, month) {
			out = append(out, bar{
				label:  d.Date,
				detail: "収入 " + FormatAmount(d.Income),
				amount: d.Expense,
				color:  "203",
			})
		}
	}

	return out
}

func renderBars(bars []bar) string {
	if len(bars) == 0 {
		return faintStyle.Render("データがありません")
	}

	peak := decimal.Zero
	labelWidth := 0

	for _, b := range bars {
		if b.amount.GreaterThan(peak) {
			peak = b.amount
		}

		labelWidth = max(labelWidth, lipgloss.Width(b.label))
	}

	var sb strings.Builder

	for _, b := range bars {
		n := 0
		if peak.IsPositive() {
			n = int(b.amount.Mul(decimal.NewFromInt(barWidth)).Div(peak).IntPart())
		}

		label := b.label + strings.Repeat(" ", labelWidth-lipgloss.Width(b.label))
		fill := lipgloss.NewStyle().Foreground(lipgloss.Color(b.color)).Render(strings.Repeat("█", n))
		pad := strings.Repeat(" ", barWidth-n)

		fmt.Fprintf(&sb, "%s  %s%s  %s", label, fill, pad, FormatAmount(b.amount))

		if b.detail != "" {
			sb.WriteString("  " + faintStyle.Render(b.detail))
		}

		sb.WriteByte('\n')
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func (m SummaryModel) View() string {
	expenses := m.expenses()
	totals := summary.ComputeTotals(expenses)

	tabs := make([]string, 0, summaryModeCount)
	for mode := summaryModeCategory; mode < summaryModeCount; mode++ {
		if mode == m.mode {
			tabs = append(tabs, activeStyle("["+mode.String()+"]"))
		} else {
			tabs = append(tabs, faintStyle.Render(" "+mode.String()+" "))
		}
	}

	header := strings.Join(tabs, " ") + "   期間: " + activeStyle(m.period.String())
	if m.monthly() {
		header = strings.Join(tabs, " ") + "   " + activeStyle(summary.MonthLabel(m.month.Year(), int(m.month.Month())))
	}

	footer := fmt.Sprintf("収入 %s   支出 %s   収支 %s   (%d件)",
		okStyle.Render(FormatAmount(totals.Income)),
		errorStyle.Render(FormatAmount(totals.Expense)),
		FormatAmount(totals.Balance),
		totals.Count,
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			panelStyle.Render(renderBars(m.bars(expenses))),
			"",
			footer,
		),
	)
}

package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// Period is a predefined or custom entry filter.
type Period int

const (
	PeriodAll Period = iota
	PeriodThisMonth
	PeriodLastMonth
	PeriodThisYear
	PeriodCustom
)

// cyclePeriods are the periods reachable without typing dates.
const cyclePeriods = int(PeriodCustom)

func (p Period) String() string {
	switch p {
	case PeriodAll:
		return "すべて"
	case PeriodThisMonth:
		return "今月"
	case PeriodLastMonth:
		return "先月"
	case PeriodThisYear:
		return "今年"
	case PeriodCustom:
		return "期間指定"
	}

	return "不明"
}

// Filter returns the entry filter for the period relative to now. PeriodCustom and
// PeriodAll match everything.
func (p Period) Filter(now time.Time) ledger.Filter {
	var f ledger.Filter

	switch p {
	case PeriodThisMonth:
		return f.WithYearMonth(strconv.Itoa(now.Year()), strconv.Itoa(int(now.Month())))
	case PeriodLastMonth:
		last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return f.WithYearMonth(strconv.Itoa(last.Year()), strconv.Itoa(int(last.Month())))
	case PeriodThisYear:
		return f.WithYearMonth(strconv.Itoa(now.Year()), "")
	}

	return f
}

// PeriodSelectedMsg is emitted when the user has picked a period.
type PeriodSelectedMsg struct {
	Filter ledger.Filter
	Label  string
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker lets the user choose a period or type a custom date range.
type PeriodPicker struct {
	state    periodState
	selected Period
	now      func() time.Time

	fromInput  textinput.Model
	toInput    textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker(initial Period) PeriodPicker {
	fi := textinput.New()
	fi.Placeholder = "YYYY-MM-DD"
	fi.CharLimit = 10
	fi.Width = 12
	fi.Prompt = "開始日: "

	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = "終了日: "

	return PeriodPicker{
		state:     periodStateSelect,
		selected:  initial,
		now:       time.Now,
		fromInput: fi,
		toInput:   ti,
	}
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case periodStateSelect:
			return m.updateSelect(keyMsg)
		case periodStateCustom:
			if next, cmd, handled := m.updateCustom(keyMsg); handled {
				return next, cmd
			}
		}
	}

	if m.state == periodStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodAll {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.state = periodStateCustom
			m.focusIndex = 0
			cmd := m.fromInput.Focus()

			return m, cmd
		}

		selected := PeriodSelectedMsg{Filter: m.selected.Filter(m.now()), Label: m.selected.String()}

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.fromInput.Blur()
		m.toInput.Blur()

		var cmd tea.Cmd
		if m.focusIndex == 0 {
			cmd = m.fromInput.Focus()
		} else {
			cmd = m.toInput.Focus()
		}

		return m, cmd, true

	case "enter":
		from, to := m.fromInput.Value(), m.toInput.Value()

		if err := validateDate(from); err != nil {
			m.err = err
			return m, nil, true
		}

		if err := validateDate(to); err != nil {
			m.err = err
			return m, nil, true
		}

		if from > to {
			m.err = fmt.Errorf("開始日は終了日より前にしてください")
			return m, nil, true
		}

		m.err = nil
		selected := PeriodSelectedMsg{
			Filter: ledger.Filter{}.WithDateRange(from, to),
			Label:  fmt.Sprintf("%s〜%s", from, to),
		}

		return m, func() tea.Msg { return selected }, true

	case "esc":
		m.state = periodStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.fromInput, c = m.fromInput.Update(msg)
	cmds = append(cmds, c)
	m.toInput, c = m.toInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nエラー: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf(
			"期間を入力してください:\n\n%s\n%s\n\n(Enter: 決定, Tab: 切替, Esc: 戻る)%s",
			m.fromInput.View(),
			m.toInput.View(),
			errStr,
		)
	}

	s := "期間を選択してください:\n\n"
	for p := PeriodAll; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p.String())
	}

	s += "\n(Enter: 選択, Esc: 戻る)"

	return s + errStr
}

// IsSelecting reports whether the picker shows the period list rather than date inputs.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}

func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.err = nil
	m.fromInput.SetValue("")
	m.toInput.SetValue("")
}

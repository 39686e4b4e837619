package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tickworks/chrono/pkg/mono"
	"github.com/tickworks/chrono/pkg/span"
	"github.com/tickworks/chrono/pkg/telemetry"
	"github.com/tickworks/chrono/pkg/tick"
	"github.com/tickworks/chrono/pkg/walltime"
)

// View states
type viewState int

const (
	viewMenu viewState = iota
	viewClock
	viewStopwatch
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7D56F4")).
		PaddingLeft(2)

	menuItemStyle = lipgloss.NewStyle().
		PaddingLeft(4)

	selectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("#7D56F4")).
		Bold(true)

	clockStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Padding(1, 4).
		MarginLeft(2).
		Bold(true)

	shiftStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFB800")).
		MarginLeft(2)

	lapStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#50FA7B")).
		PaddingLeft(4)

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		PaddingTop(1).
		PaddingLeft(2)
)

// Messages
type clockTickMsg tick.Tick

type stopwatchTickMsg struct{}

type model struct {
	state  viewState
	cursor int
	width  int
	height int

	cfg    *Config
	logger *zap.Logger

	// Live clock stream
	ticker     *tick.Ticker
	tickCtx    context.Context
	cancelTick context.CancelFunc
	lastTick   *tick.Tick
	crossings  int

	// Wall clock playground
	offset    span.Span
	lastShift walltime.DayShift

	// Stopwatch
	running  bool
	started  mono.Instant
	laps     []mono.Instant
	frozenAt span.Span
}

var menuChoices = []string{
	"Wall Clock Playground",
	"Stopwatch",
	"Exit",
}

func initialModel(cfg *Config, logger *zap.Logger, metrics *telemetry.Metrics) (model, error) {
	ticker, err := tick.NewTicker("tui", span.FromDuration(cfg.Tick.Interval),
		tick.WithBuffer(cfg.Tick.Buffer), tick.WithMetrics(metrics))
	if err != nil {
		return model{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return model{
		state:      viewMenu,
		cfg:        cfg,
		logger:     logger,
		ticker:     ticker,
		tickCtx:    ctx,
		cancelTick: cancel,
	}, nil
}

func (m model) Init() tea.Cmd {
	if err := m.ticker.Start(m.tickCtx); err != nil {
		m.logger.Warn("ticker start failed", zap.Error(err))
		return nil
	}
	return waitForTick(m.ticker)
}

// waitForTick forwards the next tick from the stream into the TUI loop.
func waitForTick(t *tick.Ticker) tea.Cmd {
	return func() tea.Msg {
		tk, ok := <-t.C()
		if !ok {
			return nil
		}
		return clockTickMsg(tk)
	}
}

func stopwatchTick(resolution time.Duration) tea.Cmd {
	return tea.Tick(resolution, func(time.Time) tea.Msg {
		return stopwatchTickMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clockTickMsg:
		tk := tick.Tick(msg)
		m.lastTick = &tk
		if tk.Shift != walltime.ShiftNone {
			m.crossings++
			m.logger.Info("midnight crossing observed",
				zap.Uint64("seq", tk.Seq), zap.String("shift", tk.Shift.String()))
		}
		return m, waitForTick(m.ticker)

	case stopwatchTickMsg:
		if m.state == viewStopwatch && m.running {
			return m, stopwatchTick(m.cfg.Stopwatch.Resolution)
		}
	}

	return m, nil
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case viewMenu:
		return m.handleMenuKeys(msg)
	case viewClock:
		return m.handleClockKeys(msg)
	case viewStopwatch:
		return m.handleStopwatchKeys(msg)
	}
	return m, nil
}

func (m model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}

	case "enter", " ":
		switch m.cursor {
		case 0:
			m.state = viewClock
		case 1:
			m.state = viewStopwatch
		case 2:
			return m.quit()
		}
	}
	return m, nil
}

func (m model) handleClockKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	adjust := func(d span.Span) {
		m.offset = m.offset.Add(d)
		if m.lastTick != nil {
			_, m.lastShift = m.lastTick.Wall.Add(m.offset)
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "esc":
		m.state = viewMenu
	case "h":
		adjust(span.FromSeconds(3600))
	case "H":
		adjust(span.FromSeconds(-3600))
	case "m":
		adjust(span.FromSeconds(60))
	case "M":
		adjust(span.FromSeconds(-60))
	case "s":
		adjust(span.FromSeconds(1))
	case "S":
		adjust(span.FromSeconds(-1))
	case "r":
		m.offset = span.Zero
		m.lastShift = walltime.ShiftNone
	}
	return m, nil
}

func (m model) handleStopwatchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "esc":
		m.state = viewMenu
	case "enter":
		if m.running {
			m.frozenAt = m.started.Elapsed()
			m.running = false
		} else {
			m.started = mono.Now()
			m.laps = nil
			m.frozenAt = span.Zero
			m.running = true
			return m, stopwatchTick(m.cfg.Stopwatch.Resolution)
		}
	case " ":
		if m.running {
			m.laps = append(m.laps, mono.Now())
		}
	case "r":
		m.running = false
		m.laps = nil
		m.frozenAt = span.Zero
	}
	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.cancelTick != nil {
		m.cancelTick()
	}
	return m, tea.Quit
}

func (m model) View() string {
	switch m.state {
	case viewClock:
		return m.clockView()
	case viewStopwatch:
		return m.stopwatchView()
	default:
		return m.menuView()
	}
}

func (m model) menuView() string {
	s := titleStyle.Render("chrono demo") + "\n\n"
	for i, choice := range menuChoices {
		if i == m.cursor {
			s += selectedItemStyle.Render("> "+choice) + "\n"
		} else {
			s += menuItemStyle.Render(choice) + "\n"
		}
	}
	s += helpStyle.Render("up/down: navigate • enter: select • q: quit")
	return s
}

func (m model) clockView() string {
	s := titleStyle.Render("Wall Clock Playground") + "\n\n"

	if m.lastTick == nil {
		s += menuItemStyle.Render("waiting for first tick...") + "\n"
	} else {
		adjusted, shift := m.lastTick.Wall.Add(m.offset)
		s += clockStyle.Render(adjusted.String()) + "\n"
		s += menuItemStyle.Render(fmt.Sprintf("live: %s   offset: %v", m.lastTick.Wall, m.offset)) + "\n"
		if shift != walltime.ShiftNone {
			s += shiftStyle.Render(fmt.Sprintf("offset wraps into the %s calendar day", shiftWord(shift))) + "\n"
		}
		if m.crossings > 0 {
			s += shiftStyle.Render(fmt.Sprintf("midnight crossings observed live: %d", m.crossings)) + "\n"
		}
	}

	s += helpStyle.Render("h/H: ±hour • m/M: ±minute • s/S: ±second • r: reset • esc: back • q: quit")
	return s
}

func (m model) stopwatchView() string {
	s := titleStyle.Render("Stopwatch") + "\n\n"

	elapsed := m.frozenAt
	if m.running {
		elapsed = m.started.Elapsed()
	}
	s += clockStyle.Render(elapsed.String()) + "\n"

	if len(m.laps) > 0 {
		s += menuItemStyle.Render("laps:") + "\n"
		prev := m.started
		for i, lap := range m.laps {
			s += lapStyle.Render(fmt.Sprintf("#%d  %v  (split %v)", i+1, lap.Diff(m.started), lap.Diff(prev))) + "\n"
			prev = lap
		}
	}

	s += helpStyle.Render("enter: start/stop • space: lap • r: reset • esc: back • q: quit")
	return s
}

func shiftWord(s walltime.DayShift) string {
	if s == walltime.ShiftPrevDay {
		return "previous"
	}
	return "next"
}

func startTUI(cfg *Config, logger *zap.Logger, metrics *telemetry.Metrics) error {
	m, err := initialModel(cfg, logger, metrics)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

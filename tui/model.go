package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/cdamarket/internal/game"
	"github.com/zappabad/cdamarket/internal/sim"
	"github.com/zappabad/cdamarket/internal/sim/runner"
	"github.com/zappabad/cdamarket/tui/panels"
	"github.com/zappabad/cdamarket/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusMarket    PanelFocus = 0
	FocusOrderbook PanelFocus = 1
	FocusChart     PanelFocus = 2
	FocusUtility   PanelFocus = 3

	panelCount = 4
)

// Model is the main TUI application model.
type Model struct {
	game      *game.Game
	timesteps int64

	// Panels
	marketPanel    *panels.MarketOverviewPanel
	orderbookPanel *panels.OrderbookPanel
	chartPanel     *panels.CandlestickPanel
	utilityPanel   *panels.UtilityPanel

	// Focus management
	focusedPanel PanelFocus

	// Window dimensions
	width  int
	height int

	// Status
	last      sim.StepReport
	trades    int
	finished  bool
	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model watching g.
func NewModel(g *game.Game) *Model {
	cfg := g.Config()

	period := cfg.Sim.Timesteps / 20
	m := &Model{
		game:           g,
		timesteps:      cfg.Sim.Timesteps,
		marketPanel:    panels.NewMarketOverviewPanel(),
		orderbookPanel: panels.NewOrderbookPanel(),
		chartPanel:     panels.NewCandlestickPanel(period),
		utilityPanel:   panels.NewUtilityPanel(),
		focusedPanel:   FocusMarket,
	}

	first := m.marketPanel.SelectedGood()
	m.orderbookPanel.SetGood(first)
	m.chartPanel.SetGood(first)
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.marketPanel.Init(),
		m.orderbookPanel.Init(),
		m.chartPanel.Init(),
		m.utilityPanel.Init(),
		m.listenSteps(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.cycleFocus()

		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = panelCount - 1
			}

		case "f1":
			m.setFocus(FocusMarket)
		case "f2":
			m.setFocus(FocusOrderbook)
		case "f3":
			m.setFocus(FocusChart)
		case "f4":
			m.setFocus(FocusUtility)

		case " ":
			m.togglePause()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case stepMsg:
		m.handleStep(runner.Event(msg))
		if !msg.Done {
			cmds = append(cmds, m.listenSteps())
		}

	case stepsClosedMsg:
		if !m.finished {
			m.statusMsg = "runner stopped"
		}
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusMarket:
		m.marketPanel, cmd = m.marketPanel.Update(msg)
		if g := m.marketPanel.SelectedGood(); g != m.orderbookPanel.Good() {
			m.selectGood()
		}
	case FocusOrderbook:
		m.orderbookPanel, cmd = m.orderbookPanel.Update(msg)
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusUtility:
		m.utilityPanel, cmd = m.utilityPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.marketPanel.SetFocus(m.focusedPanel == FocusMarket)
	m.orderbookPanel.SetFocus(m.focusedPanel == FocusOrderbook)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.utilityPanel.SetFocus(m.focusedPanel == FocusUtility)

	// Layout:
	// ┌──────────────────┬──────────────────────────┐
	// │  Market Overview │          Chart           │
	// ├──────────────────┼──────────────────────────┤
	// │    Orderbook     │         Utility          │
	// └──────────────────┴──────────────────────────┘

	leftWidth := m.width * 2 / 5
	rightWidth := m.width - leftWidth

	topHeight := (m.height - 1) / 3
	if topHeight < 8 {
		topHeight = 8
	}
	bottomHeight := m.height - topHeight - 1

	m.marketPanel.SetSize(leftWidth, topHeight)
	m.chartPanel.SetSize(rightWidth, topHeight+bottomHeight/2)
	m.orderbookPanel.SetSize(leftWidth, bottomHeight)
	m.utilityPanel.SetSize(rightWidth, bottomHeight-bottomHeight/2)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.marketPanel.View(),
		m.orderbookPanel.View(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.chartPanel.View(),
		m.utilityPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.renderStatusBar(),
	)
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F4") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" navigate"),
		styles.StatusBarKeyStyle.Render("↑↓") + styles.StatusBarDescStyle.Render(" select"),
		styles.StatusBarKeyStyle.Render("Space") + styles.StatusBarDescStyle.Render(" pause"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center,
		help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3], " │ ", help[4])

	status := " │ " + styles.FormatClock(m.last.Run, m.last.Period, m.last.Time) +
		fmt.Sprintf(" · %d trades", m.trades)
	if m.game.Runner.Paused() {
		status += " │ " + styles.StatusBarPausedStyle.Render("PAUSED")
	}
	if n := m.game.Runner.DroppedEvents(); n > 0 {
		status += fmt.Sprintf(" │ %d steps not shown", n)
	}
	if m.statusMsg != "" {
		status += " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) setFocus(panel PanelFocus) {
	m.focusedPanel = panel
}

func (m *Model) cycleFocus() {
	m.focusedPanel = (m.focusedPanel + 1) % panelCount
}

func (m *Model) togglePause() {
	if m.finished {
		return
	}
	if m.game.Runner.Paused() {
		m.game.Runner.Resume()
	} else {
		m.game.Runner.Pause()
	}
}

// selectGood switches the orderbook and chart to the market panel's
// selection and refills them from the exchange tape.
func (m *Model) selectGood() {
	g := m.marketPanel.SelectedGood()
	m.orderbookPanel.SetGood(g)
	m.chartPanel.SetGood(g)

	m.game.Inspect(func(s *sim.Simulation) {
		v := s.Exchange().View()
		m.orderbookPanel.SetBook(v.Snapshot())
		m.orderbookPanel.SetTrades(v.TradesOf(g))
	})
}

func (m *Model) handleStep(ev runner.Event) {
	if ev.Done {
		m.finished = true
		if ev.Err != nil {
			m.statusMsg = "error: " + ev.Err.Error()
		} else {
			m.statusMsg = "simulation finished"
		}
		return
	}

	rep := ev.Report
	if rep.Run != m.last.Run {
		m.chartPanel.Reset()
		m.marketPanel.ResetLastPrices()
	}
	if rep.Period != m.last.Period {
		m.marketPanel.ResetLastPrices()
	}
	m.last = rep

	m.marketPanel.SetBook(rep.Book, rep.Equilibrium)
	m.orderbookPanel.SetBook(rep.Book)
	m.utilityPanel.SetUtility(rep.Utility)

	tick := int64(rep.Period-1)*m.timesteps + rep.Time
	for _, tr := range rep.Trades {
		m.trades++
		te := tr.Event(tr.TakerSide())
		m.marketPanel.SetLastPrice(tr.Good, int64(tr.Price))
		m.orderbookPanel.AddTrade(te)
		m.chartPanel.AddTrade(tick, te)
	}
}

// stepMsg carries one runner event.
type stepMsg runner.Event

// stepsClosedMsg is sent when the runner's event channel is closed.
type stepsClosedMsg struct{}

func (m *Model) listenSteps() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.game.Runner.Events()
		if !ok {
			return stepsClosedMsg{}
		}
		return stepMsg(ev)
	}
}

package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/cdamarket/internal/results"
	"github.com/zappabad/cdamarket/tui/styles"
)

// UtilityPanel displays the average utility per algorithm and trader type.
type UtilityPanel struct {
	rows          []results.UtilityRecord
	previous      map[string]float64
	selectedIndex int
	scrollOffset  int
	focused       bool
	width         int
	height        int
}

// NewUtilityPanel creates a new utility panel.
func NewUtilityPanel() *UtilityPanel {
	return &UtilityPanel{previous: make(map[string]float64)}
}

// Init initializes the panel.
func (p *UtilityPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *UtilityPanel) Update(msg tea.Msg) (*UtilityPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				if p.selectedIndex < p.scrollOffset {
					p.scrollOffset = p.selectedIndex
				}
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.rows)-1 {
				p.selectedIndex++
				visibleItems := p.height - 5
				if p.selectedIndex >= p.scrollOffset+visibleItems {
					p.scrollOffset = p.selectedIndex - visibleItems + 1
				}
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *UtilityPanel) View() string {
	var content strings.Builder

	if len(p.rows) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("Waiting for the first step"))
	} else {
		header := fmt.Sprintf("%-5s %-6s %8s", "Algo", "Type", "Utility")
		content.WriteString(styles.HeaderStyle.Render(header))
		content.WriteString("\n")

		visibleItems := p.height - 5
		if visibleItems < 1 {
			visibleItems = 1
		}
		start := p.scrollOffset
		end := start + visibleItems
		if end > len(p.rows) {
			end = len(p.rows)
		}

		top := 0.0
		for _, r := range p.rows {
			if r.AvgUtil > top {
				top = r.AvgUtil
			}
		}
		barWidth := p.width - 30
		if barWidth < 5 {
			barWidth = 5
		}

		for i := start; i < end; i++ {
			r := p.rows[i]

			valueStyle := styles.PriceStyle
			if prev, ok := p.previous[rowKey(r)]; ok {
				switch {
				case r.AvgUtil > prev:
					valueStyle = styles.PriceUpStyle
				case r.AvgUtil < prev:
					valueStyle = styles.PriceDownStyle
				}
			}

			n := 0
			if top > 0 {
				n = int(r.AvgUtil / top * float64(barWidth))
			}
			label := fmt.Sprintf("%-5s %-6s ", r.Algo, fmt.Sprintf("type%d", r.Type))
			line := label + valueStyle.Render(fmt.Sprintf("%8.3f", r.AvgUtil)) + " " +
				styles.SizeStyle.Render(strings.Repeat("█", n))

			if i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}
			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("⚖ Utility", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func rowKey(r results.UtilityRecord) string {
	return fmt.Sprintf("%s/%d", r.Algo, r.Type)
}

// SetFocus sets the focus state of the panel.
func (p *UtilityPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *UtilityPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetUtility replaces the displayed averages, remembering the old ones to
// show the direction of change.
func (p *UtilityPanel) SetUtility(rows []results.UtilityRecord) {
	for _, r := range p.rows {
		p.previous[rowKey(r)] = r.AvgUtil
	}
	p.rows = rows
	if p.selectedIndex >= len(p.rows) {
		p.selectedIndex = len(p.rows) - 1
		if p.selectedIndex < 0 {
			p.selectedIndex = 0
		}
	}
}

// Rows returns the displayed averages.
func (p *UtilityPanel) Rows() []results.UtilityRecord {
	return p.rows
}

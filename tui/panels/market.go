package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/tui/styles"
)

// MarketOverviewPanel displays the best quotes and the shared equilibrium
// estimate for every good.
type MarketOverviewPanel struct {
	book          view.Published
	equilibrium   [len(market.Goods)]float64
	lastPrice     [len(market.Goods)]int64
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewMarketOverviewPanel creates a new market overview panel.
func NewMarketOverviewPanel() *MarketOverviewPanel {
	return &MarketOverviewPanel{}
}

// Init initializes the panel.
func (p *MarketOverviewPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *MarketOverviewPanel) Update(msg tea.Msg) (*MarketOverviewPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(market.Goods)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *MarketOverviewPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-5s %6s %6s %6s %6s %7s %6s",
		"Good", "Bid", "BidSz", "Ask", "AskSz", "Eq", "Last")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, g := range market.Goods {
		bid, ask := p.book.Bid(g), p.book.Ask(g)

		bidPrice, bidSize, askPrice, askSize := "-", "-", "-", "-"
		if bid.OK {
			bidPrice = fmt.Sprintf("%d", bid.Price)
			bidSize = fmt.Sprintf("%d", bid.Size)
		}
		if ask.OK {
			askPrice = fmt.Sprintf("%d", ask.Price)
			askSize = fmt.Sprintf("%d", ask.Size)
		}
		last := "-"
		if p.lastPrice[g] > 0 {
			last = fmt.Sprintf("%d", p.lastPrice[g])
		}

		row := fmt.Sprintf("%-5s %6s %6s %6s %6s %7.2f %6s",
			g, bidPrice, bidSize, askPrice, askSize, p.equilibrium[g], last)

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		if i < len(market.Goods)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Market Overview", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *MarketOverviewPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *MarketOverviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetBook sets the published quotes and equilibrium estimates.
func (p *MarketOverviewPanel) SetBook(book view.Published, eq [len(market.Goods)]float64) {
	p.book = book
	p.equilibrium = eq
}

// SetLastPrice records the latest trade price of g.
func (p *MarketOverviewPanel) SetLastPrice(g market.Good, price int64) {
	p.lastPrice[g] = price
}

// ResetLastPrices clears the last trade prices, e.g. at a period start.
func (p *MarketOverviewPanel) ResetLastPrices() {
	p.lastPrice = [len(market.Goods)]int64{}
}

// SelectedGood returns the currently selected good.
func (p *MarketOverviewPanel) SelectedGood() market.Good {
	return market.Goods[p.selectedIndex]
}

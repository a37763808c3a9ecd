package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/tui/styles"
)

// OrderbookPanel displays the single resting bid and ask of a good and
// its recent trades.
type OrderbookPanel struct {
	good         market.Good
	bid          view.Quote
	ask          view.Quote
	trades       []core.TradeEvent
	scrollOffset int
	focused      bool
	width        int
	height       int
	maxTrades    int
}

// NewOrderbookPanel creates a new orderbook panel.
func NewOrderbookPanel() *OrderbookPanel {
	return &OrderbookPanel{
		maxTrades: 50,
	}
}

// Init initializes the panel.
func (p *OrderbookPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *OrderbookPanel) Update(msg tea.Msg) (*OrderbookPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.scrollOffset < len(p.trades)-1 {
				p.scrollOffset++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *OrderbookPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%8s %8s │ %8s %8s", "BidSz", "Bid", "Ask", "AskSz")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	bidSize, bidPrice, askPrice, askSize := "", "-", "-", ""
	if p.bid.OK {
		bidSize = fmt.Sprintf("%d", p.bid.Size)
		bidPrice = fmt.Sprintf("%d", p.bid.Price)
	}
	if p.ask.OK {
		askPrice = fmt.Sprintf("%d", p.ask.Price)
		askSize = fmt.Sprintf("%d", p.ask.Size)
	}
	bidStyled := styles.BuyStyle.Render(fmt.Sprintf("%8s %8s", bidSize, bidPrice))
	askStyled := styles.SellStyle.Render(fmt.Sprintf("%8s %8s", askPrice, askSize))
	content.WriteString(fmt.Sprintf("%s │ %s\n", bidStyled, askStyled))

	if p.bid.OK && p.ask.OK {
		spread := fmt.Sprintf("spread %d", p.ask.Price-p.bid.Price)
		content.WriteString(styles.SizeStyle.Render(spread))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(styles.HeaderStyle.Render("Recent Trades"))
	content.WriteString("\n")

	visible := p.height - 10
	if visible < 3 {
		visible = 3
	}
	end := len(p.trades) - p.scrollOffset
	start := end - visible
	if start < 0 {
		start = 0
	}

	for i := end - 1; i >= start; i-- {
		trade := p.trades[i]

		sideStyle := styles.SellStyle
		if trade.TakerSide == market.SideBid {
			sideStyle = styles.BuyStyle
		}

		tradeStr := fmt.Sprintf("t%-4d %4d @ %4d", trade.Time, trade.Size, trade.Price)
		content.WriteString(sideStyle.Render(tradeStr))
		if trade.Arbitrage {
			content.WriteString(styles.ArbitrageStyle.Render(" arb"))
		}
		content.WriteString("\n")
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("📊 Orderbook - %s", p.good), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *OrderbookPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *OrderbookPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetGood sets the good to display.
func (p *OrderbookPanel) SetGood(g market.Good) {
	p.good = g
	p.bid = view.Quote{}
	p.ask = view.Quote{}
	p.trades = nil
	p.scrollOffset = 0
}

// SetBook updates the quotes from a published view.
func (p *OrderbookPanel) SetBook(book view.Published) {
	p.bid = book.Bid(p.good)
	p.ask = book.Ask(p.good)
}

// SetTrades sets the recent trades.
func (p *OrderbookPanel) SetTrades(trades []core.TradeEvent) {
	p.trades = trades
}

// AddTrade adds a trade of the displayed good.
func (p *OrderbookPanel) AddTrade(trade core.TradeEvent) {
	if trade.Good != p.good {
		return
	}
	p.trades = append(p.trades, trade)
	if len(p.trades) > p.maxTrades {
		p.trades = p.trades[len(p.trades)-p.maxTrades:]
	}
}

// Good returns the current good.
func (p *OrderbookPanel) Good() market.Good {
	return p.good
}

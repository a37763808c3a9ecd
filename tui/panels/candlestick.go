package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/tui/styles"
)

// Candle represents a single candlestick over a bucket of timesteps.
type Candle struct {
	Open   core.PriceTicks
	High   core.PriceTicks
	Low    core.PriceTicks
	Close  core.PriceTicks
	Volume core.Size
	// Tick is the first timestep of the bucket, counted from the start of
	// the run.
	Tick int64
}

// CandlestickPanel displays a candlestick chart of trade prices.
type CandlestickPanel struct {
	good    market.Good
	candles []Candle

	// Current candle being built
	currentCandle *Candle
	candleStart   int64
	candlePeriod  int64 // in timesteps

	focused bool
	width   int
	height  int

	maxCandles int
}

// NewCandlestickPanel creates a new candlestick chart panel with candles
// spanning period timesteps.
func NewCandlestickPanel(period int64) *CandlestickPanel {
	if period < 1 {
		period = 10
	}
	return &CandlestickPanel{
		candlePeriod: period,
		maxCandles:   100,
	}
}

// Init initializes the panel.
func (p *CandlestickPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *CandlestickPanel) Update(msg tea.Msg) (*CandlestickPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *CandlestickPanel) View() string {
	var content strings.Builder

	chartWidth := p.width - 12
	chartHeight := p.height - 6
	if chartHeight < 5 {
		chartHeight = 5
	}

	allCandles := p.Candles()
	if len(allCandles) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No trades yet..."))
	} else {
		content.WriteString(p.renderChart(chartWidth, chartHeight, allCandles))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("📉 Chart - %s (%d steps/candle)", p.good, p.candlePeriod), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// Candles returns all candles including the one being built.
func (p *CandlestickPanel) Candles() []Candle {
	if p.currentCandle == nil {
		return p.candles
	}
	out := make([]Candle, len(p.candles), len(p.candles)+1)
	copy(out, p.candles)
	return append(out, *p.currentCandle)
}

func (p *CandlestickPanel) renderChart(width, height int, candles []Candle) string {
	chartWidth := width - 10
	if chartWidth < 10 {
		chartWidth = 10
	}

	// Each candle takes two columns: candle and gap.
	candlesToShow := chartWidth / 2
	if candlesToShow < 1 {
		candlesToShow = 1
	}
	displayCandles := candles
	if len(candles) > candlesToShow {
		displayCandles = candles[len(candles)-candlesToShow:]
	}

	minPrice := displayCandles[0].Low
	maxPrice := displayCandles[0].High
	for _, c := range displayCandles {
		if c.Low < minPrice {
			minPrice = c.Low
		}
		if c.High > maxPrice {
			maxPrice = c.High
		}
	}

	priceRange := maxPrice - minPrice
	if priceRange < 10 {
		priceRange = 10
	}
	padding := core.PriceTicks(float64(priceRange) * 0.1)
	if padding < 1 {
		padding = 1
	}
	minPrice -= padding
	maxPrice += padding
	if minPrice < 0 {
		minPrice = 0
	}

	chartHeight := height - 3
	if chartHeight < 5 {
		chartHeight = 5
	}

	var result strings.Builder

	// Rows run from the highest price to the lowest.
	for row := 0; row < chartHeight; row++ {
		price := yToPrice(row, minPrice, maxPrice, chartHeight)
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8d │", price)))

		for _, candle := range displayCandles {
			char := candleChar(candle, row, minPrice, maxPrice, chartHeight)

			style := styles.CandleDownStyle
			if candle.Close >= candle.Open {
				style = styles.CandleUpStyle
			}
			result.WriteString(style.Render(string(char)))
			result.WriteString(" ")
		}
		result.WriteString("\n")
	}

	result.WriteString(styles.ChartAxisStyle.Render("─────────┴"))
	for range displayCandles {
		result.WriteString(styles.ChartAxisStyle.Render("──"))
	}
	result.WriteString("\n")

	// Time axis: bucket index, two digits, every fifth candle.
	result.WriteString(styles.ChartAxisStyle.Render("          "))
	for i, candle := range displayCandles {
		if i%5 == 0 {
			label := fmt.Sprintf("%02d", (candle.Tick/p.candlePeriod)%100)
			result.WriteString(styles.ChartLabelStyle.Render(label))
		} else {
			result.WriteString("  ")
		}
	}

	return result.String()
}

// candleChar returns the character to draw for a candle at a given row.
func candleChar(candle Candle, row int, minPrice, maxPrice core.PriceTicks, height int) rune {
	rowPrice := yToPrice(row, minPrice, maxPrice, height)

	bodyTop, bodyBottom := candle.Open, candle.Close
	if candle.Close > candle.Open {
		bodyTop, bodyBottom = candle.Close, candle.Open
	}

	tolerance := (maxPrice - minPrice) / core.PriceTicks(height*2)
	if tolerance < 1 {
		tolerance = 1
	}

	switch {
	case rowPrice <= bodyTop+tolerance && rowPrice >= bodyBottom-tolerance:
		return '┃'
	case rowPrice <= candle.High+tolerance && rowPrice > bodyTop:
		return '│'
	case rowPrice >= candle.Low-tolerance && rowPrice < bodyBottom:
		return '│'
	}
	return ' '
}

func yToPrice(y int, minPrice, maxPrice core.PriceTicks, height int) core.PriceTicks {
	if height <= 1 {
		return minPrice
	}
	ratio := float64(y) / float64(height-1)
	return maxPrice - core.PriceTicks(ratio*float64(maxPrice-minPrice))
}

// SetFocus sets the focus state of the panel.
func (p *CandlestickPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *CandlestickPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetGood sets the good to chart and drops the candles of the previous one.
func (p *CandlestickPanel) SetGood(g market.Good) {
	p.good = g
	p.Reset()
}

// Reset drops all candles.
func (p *CandlestickPanel) Reset() {
	p.candles = nil
	p.currentCandle = nil
}

// AddTrade folds a trade executed at tick into the candles. Trades of other
// goods are ignored.
func (p *CandlestickPanel) AddTrade(tick int64, trade core.TradeEvent) {
	if trade.Good != p.good {
		return
	}
	candleStart := (tick / p.candlePeriod) * p.candlePeriod

	if p.currentCandle == nil || candleStart != p.candleStart {
		if p.currentCandle != nil {
			p.candles = append(p.candles, *p.currentCandle)
			if len(p.candles) > p.maxCandles {
				p.candles = p.candles[len(p.candles)-p.maxCandles:]
			}
		}

		p.currentCandle = &Candle{
			Open:   trade.Price,
			High:   trade.Price,
			Low:    trade.Price,
			Close:  trade.Price,
			Volume: trade.Size,
			Tick:   candleStart,
		}
		p.candleStart = candleStart
		return
	}

	if trade.Price > p.currentCandle.High {
		p.currentCandle.High = trade.Price
	}
	if trade.Price < p.currentCandle.Low {
		p.currentCandle.Low = trade.Price
	}
	p.currentCandle.Close = trade.Price
	p.currentCandle.Volume += trade.Size
}

// Good returns the charted good.
func (p *CandlestickPanel) Good() market.Good {
	return p.good
}

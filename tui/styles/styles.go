package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette: bids and rising prices share one colour, asks and falling
// prices another.
var (
	BidColor       = lipgloss.Color("#10B981")
	AskColor       = lipgloss.Color("#EF4444")
	ArbitrageColor = lipgloss.Color("#F59E0B")

	accent    = lipgloss.Color("#7C3AED")
	border    = lipgloss.Color("#374151")
	statusBg  = lipgloss.Color("#1F2937")
	text      = lipgloss.Color("#F9FAFB")
	textDim   = lipgloss.Color("#9CA3AF")
	textMuted = lipgloss.Color("#6B7280")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func panel(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1)
}

// Panels and tables
var (
	PanelStyle        = panel(border)
	FocusedPanelStyle = panel(accent)

	HeaderStyle      = fg(textDim).Bold(true)
	RowStyle         = fg(text)
	SelectedRowStyle = fg(text).Background(border)
)

// Quotes and trades
var (
	BuyStyle       = fg(BidColor).Bold(true)
	SellStyle      = fg(AskColor).Bold(true)
	PriceStyle     = fg(text)
	PriceUpStyle   = fg(BidColor)
	PriceDownStyle = fg(AskColor)
	SizeStyle      = fg(textDim)
	ArbitrageStyle = fg(ArbitrageColor).Bold(true)
)

// Candlestick chart
var (
	CandleUpStyle   = fg(BidColor)
	CandleDownStyle = fg(AskColor)
	ChartAxisStyle  = fg(textMuted)
	ChartLabelStyle = fg(textDim)

	// TextMutedColor is used for placeholder text.
	TextMutedColor = textMuted
)

// Status bar
var (
	StatusBarStyle       = fg(textDim).Background(statusBg).Padding(0, 1)
	StatusBarKeyStyle    = fg(accent).Bold(true)
	StatusBarDescStyle   = fg(textDim)
	StatusBarPausedStyle = fg(ArbitrageColor).Bold(true)
)

// RenderTitle renders a panel title, highlighted when the panel has focus.
func RenderTitle(title string, focused bool) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	if !focused {
		style = style.Foreground(textDim)
	}
	return style.Render(title)
}

// FormatClock renders a run/period/timestep position.
func FormatClock(run, period int, time int64) string {
	return fmt.Sprintf("run %d · period %d · t %d", run, period, time)
}

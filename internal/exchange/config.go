package exchange

import "github.com/zappabad/cdamarket/internal/orderbook/core"

// Config holds configuration for the exchange.
type Config struct {
	// Orders must be priced strictly between MinPrice and MaxPrice.
	MinPrice core.PriceTicks
	MaxPrice core.PriceTicks
	// TapeCapacity bounds the trade tape kept for display.
	TapeCapacity int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinPrice:     1,
		MaxPrice:     201,
		TapeCapacity: 256,
	}
}

package strategy

import (
	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/market"
)

// Config holds per-algorithm parameters.
type Config struct {
	ZI  ZIConfig
	ZIP ZIPConfig
	EGD EGDConfig
	GDZ GDZConfig
}

// ZIConfig bounds the random prices of zero-intelligence traders.
type ZIConfig struct {
	MinPrice int
	MaxPrice int
}

// ZIPConfig holds the adaptive pricer parameters. Gamma, kappa and the
// initial shout prices are drawn uniformly from their ranges.
type ZIPConfig struct {
	Gamma belief.PriceRange
	Kappa belief.PriceRange
	Shout [len(market.Goods)]belief.PriceRange
	// Step scales the random relative and absolute perturbations.
	Step float64
	// NoAsk stands in for the best ask when there is none.
	NoAsk int64
}

// EGDConfig holds the belief-based pricer parameters.
type EGDConfig struct {
	// Noise is the half-width of the uniform offset around the equilibrium.
	Noise  float64
	Markup float64
	// IdleSteps is how many following timesteps a trader sits out after
	// finding no order worth posting. Zero disables it.
	IdleSteps int64
}

// GDZConfig holds the arbitrage parameters.
type GDZConfig struct {
	// Probability of scanning for an arbitrage on a turn.
	Probability float64
	// No scan happens until time exceeds MinTime.
	MinTime int64
	// Unwind probabilities below MinProbability count as zero.
	MinProbability float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ZI: ZIConfig{MinPrice: 0, MaxPrice: 200},
		ZIP: ZIPConfig{
			Gamma: belief.PriceRange{Lo: 0.2, Hi: 0.8},
			Kappa: belief.PriceRange{Lo: 0.1, Hi: 0.5},
			Shout: [len(market.Goods)]belief.PriceRange{
				market.GoodX: {Lo: 20, Hi: 80},
				market.GoodY: {Lo: 10, Hi: 40},
			},
			Step:  0.05,
			NoAsk: 10000,
		},
		EGD: EGDConfig{Noise: 1, Markup: 0, IdleSteps: 1},
		GDZ: GDZConfig{Probability: 0.2, MinTime: 10, MinProbability: 0.5},
	}
}

package belief

import (
	"math/rand"

	"github.com/zappabad/cdamarket/internal/market"
)

// Config holds the belief estimator parameters.
type Config struct {
	// Memory is the number of completed trades kept per good.
	Memory int
	// DomainMax is the top of the price domain 0..DomainMax.
	DomainMax int
	// Below these observation counts the equilibrium is a random draw.
	MinBidObservations int
	MinAskObservations int
	// Fallback is the range the random equilibrium is drawn from, per good.
	Fallback [len(market.Goods)]PriceRange
}

// PriceRange is a uniform draw interval [Lo, Hi).
type PriceRange struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// Draw samples the range.
func (r PriceRange) Draw(rng *rand.Rand) float64 {
	return r.Lo + (r.Hi-r.Lo)*rng.Float64()
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Memory:             30,
		DomainMax:          200,
		MinBidObservations: 10,
		MinAskObservations: 5,
		Fallback: [len(market.Goods)]PriceRange{
			market.GoodX: {Lo: 20, Hi: 80},
			market.GoodY: {Lo: 10, Hi: 40},
		},
	}
}

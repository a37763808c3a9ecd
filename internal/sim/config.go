package sim

import (
	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/trader"
	"github.com/zappabad/cdamarket/internal/trader/strategy"
)

// RosterEntry asks for Count triples of traders (one of each archetype)
// running Algo.
type RosterEntry struct {
	Algo  string
	Count int
}

// Config holds configuration for a simulation.
type Config struct {
	// Seed seeds the single random source every component draws from.
	Seed int64
	// Runs is the number of independent market sessions.
	Runs int
	// Periods is the number of periods per run; balances reset at each.
	Periods int
	// Timesteps is the number of timesteps per period.
	Timesteps int64
	// Roster lists the trading algorithms in the market.
	Roster []RosterEntry

	Exchange exchange.Config
	Trader   trader.Config
	Belief   belief.Config
	Strategy strategy.Config
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Seed:      1,
		Runs:      1,
		Periods:   5,
		Timesteps: 200,
		Roster: []RosterEntry{
			{Algo: strategy.AlgoZIP, Count: 3},
			{Algo: strategy.AlgoEGD, Count: 2},
		},
		Exchange: exchange.DefaultConfig(),
		Trader:   trader.DefaultConfig(),
		Belief:   belief.DefaultConfig(),
		Strategy: strategy.DefaultConfig(),
	}
}

// WithPriceBounds sets the exchange bounds and moves the price domain the
// traders work on to 0..max-1 along with them.
func (c Config) WithPriceBounds(min, max core.PriceTicks) Config {
	c.Exchange.MinPrice, c.Exchange.MaxPrice = min, max
	c.Strategy.ZI.MinPrice = int(min)
	c.Strategy.ZI.MaxPrice = int(max - 1)
	c.Belief.DomainMax = int(max - 1)
	return c
}

// Algos returns the roster's algorithm names, first occurrence only.
func (c Config) Algos() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range c.Roster {
		if !seen[e.Algo] {
			seen[e.Algo] = true
			out = append(out, e.Algo)
		}
	}
	return out
}

// TraderCount returns how many traders the roster creates.
func (c Config) TraderCount() int {
	n := 0
	for _, e := range c.Roster {
		n += 3 * e.Count
	}
	return n
}

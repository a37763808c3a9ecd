package config

import (
	"time"

	"github.com/zappabad/cdamarket/internal/trader/strategy"
)

// Default values for optional configuration fields.
const (
	DefaultRuns         = 1
	DefaultPeriods      = 5
	DefaultTimesteps    = 200
	DefaultMinPrice     = 1
	DefaultMaxPrice     = 201
	DefaultTapeCapacity = 256
	DefaultMemory       = 30
	DefaultMinBids      = 10
	DefaultMinAsks      = 5
	DefaultOutputDir    = "results"
	DefaultLogLevel     = "info"
	DefaultTickInterval = 100 * time.Millisecond
	DefaultEventBuffer  = 256
)

// DefaultRoster is the market used when the file names none.
func DefaultRoster() []RosterConfig {
	return []RosterConfig{
		{Algo: strategy.AlgoZIP, Count: 3},
		{Algo: strategy.AlgoEGD, Count: 2},
	}
}

func (c *Config) applyDefaults() {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Runs == 0 {
		c.Runs = DefaultRuns
	}
	if c.Periods == 0 {
		c.Periods = DefaultPeriods
	}
	if c.Timesteps == 0 {
		c.Timesteps = DefaultTimesteps
	}
	if len(c.Roster) == 0 {
		c.Roster = DefaultRoster()
	}

	// Exchange defaults
	if c.Exchange.MinPrice == 0 {
		c.Exchange.MinPrice = DefaultMinPrice
	}
	if c.Exchange.MaxPrice == 0 {
		c.Exchange.MaxPrice = DefaultMaxPrice
	}
	if c.Exchange.TapeCapacity == 0 {
		c.Exchange.TapeCapacity = DefaultTapeCapacity
	}

	// Belief defaults
	if c.Belief.Memory == 0 {
		c.Belief.Memory = DefaultMemory
	}
	if c.Belief.MinBidObservations == 0 {
		c.Belief.MinBidObservations = DefaultMinBids
	}
	if c.Belief.MinAskObservations == 0 {
		c.Belief.MinAskObservations = DefaultMinAsks
	}

	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.TUI.TickInterval == 0 {
		c.TUI.TickInterval = DefaultTickInterval
	}
	if c.TUI.EventBuffer == 0 {
		c.TUI.EventBuffer = DefaultEventBuffer
	}
}

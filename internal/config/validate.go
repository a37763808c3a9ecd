package config

import (
	"errors"
	"fmt"

	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/trader/strategy"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Runs < 1 {
		return errors.New("runs must be >= 1")
	}
	if c.Periods < 1 {
		return errors.New("periods must be >= 1")
	}
	if c.Timesteps < 1 {
		return errors.New("timesteps must be >= 1")
	}

	for i, r := range c.Roster {
		switch r.Algo {
		case strategy.AlgoZI, strategy.AlgoZIP, strategy.AlgoEGD, strategy.AlgoGDZ:
		case "":
			return fmt.Errorf("roster[%d].algo is required", i)
		default:
			return fmt.Errorf("roster[%d].algo %q is unknown", i, r.Algo)
		}
		if r.Count < 1 {
			return fmt.Errorf("roster[%d].count must be >= 1", i)
		}
	}

	if c.Exchange.MinPrice < 0 {
		return errors.New("exchange.min_price must be >= 0")
	}
	if c.Exchange.MaxPrice-c.Exchange.MinPrice < 2 {
		return fmt.Errorf("exchange.max_price must exceed min_price by at least 2, got %d..%d",
			c.Exchange.MinPrice, c.Exchange.MaxPrice)
	}
	if n := len(c.Traders.Endowments); n != 0 && n != 3 {
		return fmt.Errorf("traders.endowments must list 3 archetypes, got %d", n)
	}
	for i, b := range c.Traders.Endowments {
		if b.Money < 0 || b.X < 0 || b.Y < 0 {
			return fmt.Errorf("traders.endowments[%d] must not be negative, got %+v", i, b)
		}
	}
	if sc := c.Traders.Scale; sc != nil && (sc.Money <= 0 || sc.X <= 0 || sc.Y <= 0) {
		return fmt.Errorf("traders.utility_scale must be positive, got %+v", *sc)
	}

	if c.Belief.Memory < 1 {
		return errors.New("belief.memory must be >= 1")
	}

	top := float64(c.Exchange.MaxPrice - 1)
	ranges := []struct {
		name string
		r    *belief.PriceRange
		max  float64
	}{
		{"belief.fallback_x", c.Belief.FallbackX, top},
		{"belief.fallback_y", c.Belief.FallbackY, top},
		{"strategy.zip.learning_rate", c.Strategy.ZIP.LearningRate, 1},
		{"strategy.zip.momentum", c.Strategy.ZIP.Momentum, 1},
		{"strategy.zip.shout_x", c.Strategy.ZIP.ShoutX, top},
		{"strategy.zip.shout_y", c.Strategy.ZIP.ShoutY, top},
	}
	for _, r := range ranges {
		if err := validateRange(r.name, r.r, r.max); err != nil {
			return err
		}
	}
	if s := c.Strategy.ZIP.Step; s != nil && *s < 0 {
		return fmt.Errorf("strategy.zip.step must be >= 0, got %v", *s)
	}

	if p := c.Strategy.GDZ.Probability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("strategy.gdz.probability must be between 0 and 1, got %v", *p)
	}
	if p := c.Strategy.GDZ.MinProbability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("strategy.gdz.min_probability must be between 0 and 1, got %v", *p)
	}
	if n := c.Strategy.EGD.Noise; n != nil && *n < 0 {
		return fmt.Errorf("strategy.egd.noise must be >= 0, got %v", *n)
	}

	if c.TUI.TickInterval < 0 {
		return errors.New("tui.tick_interval must be >= 0")
	}
	return nil
}

func validateRange(prefix string, r *belief.PriceRange, max float64) error {
	if r == nil {
		return nil
	}
	if r.Lo < 0 || r.Hi <= r.Lo || r.Hi > max {
		return fmt.Errorf("%s must satisfy 0 <= lo < hi <= %v, got %v..%v", prefix, max, r.Lo, r.Hi)
	}
	return nil
}

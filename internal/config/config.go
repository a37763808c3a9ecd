package config

import (
	"time"

	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/sim"
	"github.com/zappabad/cdamarket/internal/sim/runner"
	"github.com/zappabad/cdamarket/internal/trader"
)

// Config is the top-level experiment configuration.
type Config struct {
	Seed      int64          `yaml:"seed"`
	Runs      int            `yaml:"runs"`
	Periods   int            `yaml:"periods"`
	Timesteps int64          `yaml:"timesteps"`
	Roster    []RosterConfig `yaml:"roster"`

	Exchange ExchangeConfig `yaml:"exchange"`
	Traders  TradersConfig  `yaml:"traders"`
	Belief   BeliefConfig   `yaml:"belief"`
	Strategy StrategyConfig `yaml:"strategy"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	TUI      TUIConfig      `yaml:"tui"`
}

// RosterConfig adds Count triples of traders running Algo.
type RosterConfig struct {
	Algo  string `yaml:"algo"`
	Count int    `yaml:"count"`
}

// ExchangeConfig holds the exchange price bounds.
type ExchangeConfig struct {
	MinPrice     int64 `yaml:"min_price"`
	MaxPrice     int64 `yaml:"max_price"`
	TapeCapacity int   `yaml:"tape_capacity"`
}

// TradersConfig holds the archetype economy. Empty sections keep defaults.
type TradersConfig struct {
	// Endowments lists the starting balance of types 1, 2 and 3, in order.
	Endowments []BalanceConfig `yaml:"endowments"`
	Scale      *ScaleConfig    `yaml:"utility_scale"`
}

// BalanceConfig is a starting balance.
type BalanceConfig struct {
	Money int64 `yaml:"money"`
	X     int64 `yaml:"x"`
	Y     int64 `yaml:"y"`
}

// ScaleConfig divides each asset in the utility function.
type ScaleConfig struct {
	Money float64 `yaml:"money"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// BeliefConfig holds the belief estimator settings.
type BeliefConfig struct {
	Memory             int                `yaml:"memory"`
	MinBidObservations int                `yaml:"min_bid_observations"`
	MinAskObservations int                `yaml:"min_ask_observations"`
	FallbackX          *belief.PriceRange `yaml:"fallback_x"`
	FallbackY          *belief.PriceRange `yaml:"fallback_y"`
}

// StrategyConfig holds per-algorithm settings. Nil pointers keep defaults.
type StrategyConfig struct {
	ZIP ZIPConfig `yaml:"zip"`
	EGD EGDConfig `yaml:"egd"`
	GDZ GDZConfig `yaml:"gdz"`
}

// ZIPConfig holds the adaptive pricer settings. Each trader draws its
// learning rate, momentum and initial shouts from these ranges.
type ZIPConfig struct {
	LearningRate *belief.PriceRange `yaml:"learning_rate"`
	Momentum     *belief.PriceRange `yaml:"momentum"`
	ShoutX       *belief.PriceRange `yaml:"shout_x"`
	ShoutY       *belief.PriceRange `yaml:"shout_y"`
	Step         *float64           `yaml:"step"`
}

// EGDConfig holds the belief-based pricer settings.
type EGDConfig struct {
	Noise     *float64 `yaml:"noise"`
	Markup    *float64 `yaml:"markup"`
	IdleSteps *int64   `yaml:"idle_steps"`
}

// GDZConfig holds the arbitrage settings.
type GDZConfig struct {
	Probability    *float64 `yaml:"probability"`
	MinTime        *int64   `yaml:"min_time"`
	MinProbability *float64 `yaml:"min_probability"`
}

// OutputConfig says where results go.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Archive string `yaml:"archive"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TUIConfig configures the live dashboard.
type TUIConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	EventBuffer  int           `yaml:"event_buffer"`
}

// Sim maps c onto a simulation config.
func (c *Config) Sim() sim.Config {
	out := sim.DefaultConfig()
	out.Seed = c.Seed
	out.Runs = c.Runs
	out.Periods = c.Periods
	out.Timesteps = c.Timesteps

	out.Roster = make([]sim.RosterEntry, len(c.Roster))
	for i, r := range c.Roster {
		out.Roster[i] = sim.RosterEntry{Algo: r.Algo, Count: r.Count}
	}

	out = out.WithPriceBounds(core.PriceTicks(c.Exchange.MinPrice), core.PriceTicks(c.Exchange.MaxPrice))
	out.Exchange.TapeCapacity = c.Exchange.TapeCapacity

	if e := c.Traders.Endowments; len(e) == len(out.Trader.Endowments) {
		for i, b := range e {
			out.Trader.Endowments[i] = trader.Balance{Money: b.Money, X: b.X, Y: b.Y}
		}
	}
	if sc := c.Traders.Scale; sc != nil {
		out.Trader.Scale = trader.Scale{Money: sc.Money, X: sc.X, Y: sc.Y}
	}

	out.Belief.Memory = c.Belief.Memory
	out.Belief.MinBidObservations = c.Belief.MinBidObservations
	out.Belief.MinAskObservations = c.Belief.MinAskObservations
	if r := c.Belief.FallbackX; r != nil {
		out.Belief.Fallback[market.GoodX] = *r
	}
	if r := c.Belief.FallbackY; r != nil {
		out.Belief.Fallback[market.GoodY] = *r
	}

	zip := c.Strategy.ZIP
	setRange(&out.Strategy.ZIP.Kappa, zip.LearningRate)
	setRange(&out.Strategy.ZIP.Gamma, zip.Momentum)
	setRange(&out.Strategy.ZIP.Shout[market.GoodX], zip.ShoutX)
	setRange(&out.Strategy.ZIP.Shout[market.GoodY], zip.ShoutY)
	setFloat(&out.Strategy.ZIP.Step, zip.Step)

	egd, gdz := c.Strategy.EGD, c.Strategy.GDZ
	setFloat(&out.Strategy.EGD.Noise, egd.Noise)
	setFloat(&out.Strategy.EGD.Markup, egd.Markup)
	setInt(&out.Strategy.EGD.IdleSteps, egd.IdleSteps)
	setFloat(&out.Strategy.GDZ.Probability, gdz.Probability)
	setInt(&out.Strategy.GDZ.MinTime, gdz.MinTime)
	setFloat(&out.Strategy.GDZ.MinProbability, gdz.MinProbability)
	return out
}

// Runner maps the dashboard settings onto a runner config.
func (c *Config) Runner() runner.Config {
	return runner.Config{
		TickInterval: c.TUI.TickInterval,
		EventBuffer:  c.TUI.EventBuffer,
		DropEvents:   true,
	}
}

func setRange(dst *belief.PriceRange, v *belief.PriceRange) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int64, v *int64) {
	if v != nil {
		*dst = *v
	}
}

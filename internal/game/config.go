package game

import (
	"github.com/zappabad/cdamarket/internal/sim"
	"github.com/zappabad/cdamarket/internal/sim/runner"
)

// Config holds configuration for a live game session.
type Config struct {
	// Sim is the configuration of the simulation being watched.
	Sim sim.Config
	// Runner controls how fast the simulation is stepped.
	Runner runner.Config
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Sim:    sim.DefaultConfig(),
		Runner: runner.DefaultConfig(),
	}
}

package game

import (
	"sync"

	"go.uber.org/zap"

	"github.com/zappabad/cdamarket/internal/results"
	"github.com/zappabad/cdamarket/internal/sim"
	"github.com/zappabad/cdamarket/internal/sim/runner"
)

// Game owns a simulation and the runner stepping it, and manages their
// lifecycle.
type Game struct {
	Runner *runner.Runner

	sim  *sim.Simulation
	step sync.Mutex
	cfg  Config

	mu     sync.Mutex
	closed bool
}

// NewGame creates the simulation and starts stepping it.
func NewGame(cfg Config, log *zap.Logger) (*Game, error) {
	s, err := sim.New(cfg.Sim, log)
	if err != nil {
		return nil, err
	}

	g := &Game{sim: s, cfg: cfg}
	g.Runner = runner.NewRunner(cfg.Runner, s, &g.step)
	return g, nil
}

// Inspect runs fn with exclusive access to the simulation, between steps.
func (g *Game) Inspect(fn func(s *sim.Simulation)) {
	g.step.Lock()
	defer g.step.Unlock()
	fn(g.sim)
}

// Results returns the records collected so far.
func (g *Game) Results() *results.Set {
	var set *results.Set
	g.Inspect(func(s *sim.Simulation) { set = s.Results() })
	return set
}

// Config returns the game configuration.
func (g *Game) Config() Config { return g.cfg }

// Close stops the runner. It is safe to call more than once.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.closed = true
	g.Runner.Close()
}

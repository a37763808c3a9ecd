package game

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zappabad/cdamarket/internal/sim"
)

func TestGameRunsToCompletion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sim.Periods = 1
	cfg.Sim.Timesteps = 20
	cfg.Runner.TickInterval = time.Millisecond
	cfg.Runner.DropEvents = false

	g, err := NewGame(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer g.Close()

	steps := 0
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case ev, ok := <-g.Runner.Events():
			if !ok {
				t.Fatal("events closed before the final event")
			}
			if ev.Err != nil {
				t.Fatalf("unexpected error: %v", ev.Err)
			}
			if ev.Done {
				done = true
				continue
			}
			steps++
		case <-timeout:
			t.Fatal("game did not finish")
		}
	}

	if steps != 20 {
		t.Errorf("expected 20 steps, got %d", steps)
	}
	var finished bool
	g.Inspect(func(s *sim.Simulation) { finished = s.Done() })
	if !finished {
		t.Error("expected the simulation to be done")
	}
	if got := len(g.Results().Utility); got == 0 {
		t.Error("expected utility records")
	}
	g.Close()
}

func TestNewGameRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sim.Roster = nil
	if _, err := NewGame(cfg, zap.NewNop()); err == nil {
		t.Error("expected an error for an empty roster")
	}
}

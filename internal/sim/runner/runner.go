package runner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/cdamarket/internal/sim"
)

// Stepper advances a simulation one timestep at a time.
type Stepper interface {
	Next() (sim.StepReport, bool, error)
}

// Event is emitted after every timestep and once when stepping stops.
type Event struct {
	Report sim.StepReport
	// Done is set on the last event; Err is set if stepping failed.
	Done bool
	Err  error
}

// Runner steps a simulation on a timer.
type Runner struct {
	cfg     Config
	stepper Stepper
	mu      *sync.Mutex

	paused        atomic.Bool
	events        chan Event
	droppedEvents atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRunner creates a Runner and starts stepping. mu, if not nil, is held
// around every step so readers can inspect the simulation safely.
func NewRunner(cfg Config, stepper Stepper, mu *sync.Mutex) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	if mu == nil {
		mu = new(sync.Mutex)
	}

	r := &Runner{
		cfg:     cfg,
		stepper: stepper,
		mu:      mu,
		events:  make(chan Event, cfg.EventBuffer),
		closed:  make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

func (r *Runner) run() {
	defer r.wg.Done()
	defer close(r.events)

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.closed:
			return
		case <-ticker.C:
			if r.paused.Load() {
				continue
			}
			if !r.tick() {
				return
			}
		}
	}
}

// tick runs one timestep and reports whether stepping should continue.
func (r *Runner) tick() bool {
	r.mu.Lock()
	rep, ok, err := r.stepper.Next()
	r.mu.Unlock()

	if err != nil || !ok {
		// The final event is never dropped.
		select {
		case r.events <- Event{Report: rep, Done: true, Err: err}:
		case <-r.closed:
		}
		return false
	}
	r.emitEvent(Event{Report: rep})
	return true
}

func (r *Runner) emitEvent(ev Event) {
	if r.cfg.DropEvents {
		select {
		case r.events <- ev:
		default:
			r.droppedEvents.Add(1)
		}
	} else {
		select {
		case r.events <- ev:
		case <-r.closed:
		}
	}
}

// Events returns the step events channel. It is closed when the runner stops.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// DroppedEvents returns the count of dropped events.
func (r *Runner) DroppedEvents() int64 {
	return r.droppedEvents.Load()
}

// Pause stops stepping until Resume.
func (r *Runner) Pause() { r.paused.Store(true) }

// Resume continues stepping after Pause.
func (r *Runner) Resume() { r.paused.Store(false) }

// Paused reports whether the runner is paused.
func (r *Runner) Paused() bool { return r.paused.Load() }

// Close shuts down the runner.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	r.wg.Wait()
}

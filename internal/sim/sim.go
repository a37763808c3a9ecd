package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/results"
	"github.com/zappabad/cdamarket/internal/trader"
	"github.com/zappabad/cdamarket/internal/trader/strategy"
)

// ErrInvalidConfig is returned by New for an unusable configuration.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Simulation drives runs, periods and timesteps of a market session.
// It is deterministic for a given Config and not safe for concurrent use.
type Simulation struct {
	cfg        Config
	rng        *rand.Rand
	log        *zap.Logger
	experiment uuid.UUID

	run     int
	period  int
	time    int64
	started bool
	done    bool

	traders population
	ex      *exchange.Exchange
	belief  *belief.Context
	nextID  core.OrderID

	collector *collector
}

// New validates cfg and prepares the first run.
func New(cfg Config, log *zap.Logger) (*Simulation, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Simulation{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		experiment: uuid.New(),
		run:        1,
	}
	s.log = log.With(zap.String("experiment", s.experiment.String()))
	s.collector = newCollector(s.experiment, cfg.Algos())

	if err := s.beginRun(); err != nil {
		return nil, err
	}
	return s, nil
}

func validate(cfg Config) error {
	switch {
	case cfg.Runs < 1:
		return fmt.Errorf("%w: runs must be >= 1", ErrInvalidConfig)
	case cfg.Periods < 1:
		return fmt.Errorf("%w: periods must be >= 1", ErrInvalidConfig)
	case cfg.Timesteps < 1:
		return fmt.Errorf("%w: timesteps must be >= 1", ErrInvalidConfig)
	case len(cfg.Roster) == 0:
		return fmt.Errorf("%w: roster is empty", ErrInvalidConfig)
	case cfg.Belief.DomainMax < 1 || cfg.Belief.DomainMax >= int(cfg.Exchange.MaxPrice):
		return fmt.Errorf("%w: belief domain 0..%d must end below the exchange max price %d",
			ErrInvalidConfig, cfg.Belief.DomainMax, cfg.Exchange.MaxPrice)
	case cfg.Strategy.ZI.MaxPrice >= int(cfg.Exchange.MaxPrice):
		return fmt.Errorf("%w: ZI max price %d must be below the exchange max price %d",
			ErrInvalidConfig, cfg.Strategy.ZI.MaxPrice, cfg.Exchange.MaxPrice)
	}
	for _, e := range cfg.Roster {
		if e.Count < 1 {
			return fmt.Errorf("%w: roster entry %q needs count >= 1", ErrInvalidConfig, e.Algo)
		}
	}
	return nil
}

// Experiment returns the identifier of this simulation's results.
func (s *Simulation) Experiment() uuid.UUID { return s.experiment }

// Config returns the simulation configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Clock returns the current run, period and timestep.
func (s *Simulation) Clock() (run, period int, time int64) { return s.run, s.period, s.time }

// Done reports whether every run has finished.
func (s *Simulation) Done() bool { return s.done }

// Exchange returns the exchange of the current run.
func (s *Simulation) Exchange() *exchange.Exchange { return s.ex }

// Belief returns the shared belief context of the current run.
func (s *Simulation) Belief() *belief.Context { return s.belief }

// Accounts returns the accounts of the current run, ordered by ID.
func (s *Simulation) Accounts() []*trader.Account {
	out := make([]*trader.Account, len(s.traders))
	for i, p := range s.traders {
		out[i] = p.acct
	}
	return out
}

// Strategy returns the strategy of trader id in the current run.
func (s *Simulation) Strategy(id core.TraderID) (strategy.Strategy, bool) {
	p, ok := s.traders.get(id)
	return p.strat, ok
}

// Results returns the records collected so far. Utility averages and
// arbitrage outcomes are only complete once Next has returned false.
func (s *Simulation) Results() *results.Set { return s.collector.set() }

// Run steps the simulation until it is done or ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, ok, err := s.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// Next executes one timestep. It returns false once every run is done.
func (s *Simulation) Next() (StepReport, bool, error) {
	if s.done {
		return StepReport{}, false, nil
	}
	if !s.advance() {
		return StepReport{}, false, nil
	}

	rep, err := s.step()
	if err != nil {
		s.done = true
		return rep, false, fmt.Errorf("run %d period %d time %d: %w", s.run, s.period, s.time, err)
	}
	return rep, true, nil
}

// advance moves the clock to the next timestep, crossing period and run
// boundaries. It returns false when there is nothing left to run.
func (s *Simulation) advance() bool {
	if !s.started {
		s.started = true
		s.period, s.time = 1, 1
		s.beginPeriod()
		return true
	}

	s.time++
	if s.time <= s.cfg.Timesteps {
		return true
	}
	s.endPeriod()

	s.period++
	s.time = 1
	if s.period > s.cfg.Periods {
		s.endRun()
		s.run++
		if s.run > s.cfg.Runs {
			s.done = true
			s.log.Info("simulation finished", zap.Int("runs", s.cfg.Runs))
			return false
		}
		if err := s.beginRun(); err != nil {
			// The roster was already built once with the same config.
			s.log.Error("rebuild traders", zap.Error(err))
			s.done = true
			return false
		}
		s.period = 1
	}
	s.beginPeriod()
	return true
}

func (s *Simulation) beginRun() error {
	s.belief = belief.NewContext(s.cfg.Belief, s.rng, s.log)
	deps := strategy.Deps{Rng: s.rng, Belief: s.belief, Config: s.cfg.Strategy}

	s.traders = s.traders[:0:0]
	id := core.TraderID(1)
	for _, e := range s.cfg.Roster {
		for i := 0; i < e.Count; i++ {
			for _, typ := range trader.Archetypes {
				acct, err := trader.NewAccount(id, typ, e.Algo, s.cfg.Trader)
				if err != nil {
					return err
				}
				strat, err := strategy.New(e.Algo, acct, deps)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
				}
				s.traders = append(s.traders, participant{acct: acct, strat: strat})
				id++
			}
		}
	}

	s.ex = exchange.New(s.cfg.Exchange, s.traders)
	s.nextID = 1
	s.collector.beginRun(s.run)
	s.log.Info("run started", zap.Int("run", s.run), zap.Int("traders", len(s.traders)))
	return nil
}

func (s *Simulation) beginPeriod() {
	for _, p := range s.traders {
		p.acct.Reset()
		if r, ok := p.strat.(strategy.PeriodResetter); ok {
			r.ResetPeriod()
		}
	}
	s.ex.Reset()
	s.belief.EndPeriod()
	s.log.Info("period started", zap.Int("run", s.run), zap.Int("period", s.period))
}

func (s *Simulation) endPeriod() {
	for _, p := range s.traders {
		s.collector.excess(p.acct, s.period, s.run)
	}
}

func (s *Simulation) endRun() {
	for _, p := range s.traders {
		g, ok := p.strat.(*strategy.GDZ)
		if !ok {
			continue
		}
		// Plans still open when the run ends never completed.
		g.ResetPeriod()
		s.collector.arbitrage(g, s.run)
	}
	s.collector.endRun()
}

func (s *Simulation) step() (StepReport, error) {
	rep := StepReport{Run: s.run, Period: s.period, Time: s.time}
	rep.Utility = s.collector.utility(s.traders, s.time, s.period)

	v := s.ex.Publish()
	for _, p := range s.traders {
		p.strat.ChooseAction(v)
	}

	for _, i := range s.rng.Perm(len(s.traders)) {
		p := s.traders[i]
		o := p.strat.GetOrder(s.time, s.ex.Publish())
		if o == nil {
			continue
		}
		if err := s.submit(p, *o, &rep); err != nil {
			return rep, err
		}
	}

	rep.Book = s.ex.Publish()
	for _, g := range market.Goods {
		rep.Equilibrium[g] = s.belief.Equilibrium(g)
	}
	return rep, nil
}

// submit hands o to the exchange and runs everything that follows from
// the outcome, including follow-up orders the submitter asks for.
func (s *Simulation) submit(p participant, o core.Order, rep *StepReport) error {
	for {
		o.ID = s.nextID
		o.TraderID = p.acct.ID
		s.nextID++

		res, err := s.ex.Process(o, s.time, s.period, s.run)
		if err != nil {
			return err
		}
		rep.Orders++
		if obs, ok := p.strat.(strategy.OutcomeObserver); ok {
			obs.OnProcessed(o, res)
		}
		if !res.Accepted {
			if o.Strategic {
				s.log.Debug("strategic order rejected",
					zap.Int64("trader", int64(o.TraderID)),
					zap.Stringer("good", o.Good),
					zap.Int64("price", int64(o.Price)))
			}
			return nil
		}
		rep.Accepted++

		v := s.ex.Publish()
		for _, q := range s.traders {
			q.strat.Respond(s.time, v, o)
			q.acct.SyncPending(v)
		}

		if res.Trade == nil {
			p.acct.AddPending(o)
			return nil
		}
		if err := s.settle(*res.Trade); err != nil {
			return err
		}
		rep.Trades = append(rep.Trades, *res.Trade)

		f, ok := p.strat.(strategy.FollowUpper)
		if !ok {
			return nil
		}
		next := f.FollowUp(s.time, s.ex.Publish())
		if next == nil {
			return nil
		}
		o = *next
	}
}

// settle bookkeeps tr for the seller, then the buyer, and records it. A
// self-trade is bookkept for both legs, so it shows twice in the blotter,
// but its owner is notified once.
func (s *Simulation) settle(tr exchange.Trade) error {
	seller, ok := s.traders.get(tr.Seller)
	if !ok {
		return fmt.Errorf("seller %d: %w", tr.Seller, trader.ErrTradeAttribution)
	}
	buyer, ok := s.traders.get(tr.Buyer)
	if !ok {
		return fmt.Errorf("buyer %d: %w", tr.Buyer, trader.ErrTradeAttribution)
	}

	if err := seller.acct.Bookkeep(tr); err != nil {
		return err
	}
	if err := buyer.acct.Bookkeep(tr); err != nil {
		return err
	}

	for _, p := range []participant{seller, buyer} {
		if obs, ok := p.strat.(strategy.TradeObserver); ok {
			obs.OnTrade(tr)
		}
		if buyer.acct.ID == seller.acct.ID {
			break
		}
	}

	s.collector.trade(tr, buyer.acct, seller.acct)
	return nil
}

package strategy

import (
	"math"
	"math/rand"

	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/internal/trader"
)

// GDZ trades like eGD but now and then hits a resting order it would
// normally leave alone, then rests an unwind order on the other side
// at the price with the best expected profit.
type GDZ struct {
	*EGD
	cfg GDZConfig

	plan      plan
	completed []ArbitrageRecord
	rejected  []core.Order
}

// NewGDZ creates a GDZ strategy sharing ctx with the eGD traders.
func NewGDZ(acct *trader.Account, cfg Config, ctx *belief.Context, rng *rand.Rand) *GDZ {
	return &GDZ{EGD: NewEGD(acct, cfg.EGD, ctx, rng), cfg: cfg.GDZ}
}

// State returns the stage of the current plan.
func (g *GDZ) State() PlanState { return g.plan.state }

// Completed returns the finished arbitrage plans.
func (g *GDZ) Completed() []ArbitrageRecord { return g.completed }

// Rejected returns strategic orders whose plan never completed.
func (g *GDZ) Rejected() []core.Order { return g.rejected }

// GetOrder implements Strategy.
func (g *GDZ) GetOrder(time int64, v view.Published) *core.Order {
	switch g.plan.state {
	case PlanLegTwoQueued:
		o := g.plan.unwind
		return &o
	case PlanAwaitingUnwind:
		return g.reprice(time, v)
	case PlanLegOnePending:
		return nil
	}

	if g.rng.Float64() < g.cfg.Probability && time > g.cfg.MinTime {
		if o := g.opportunity(time, v); o != nil {
			return o
		}
	}
	return g.regularOrder(time, v)
}

// FollowUp hands out the queued unwind right after the strategic trade.
func (g *GDZ) FollowUp(int64, view.Published) *core.Order {
	if g.plan.state != PlanLegTwoQueued {
		return nil
	}
	o := g.plan.unwind
	return &o
}

// OnProcessed advances the plan from the outcome of this trader's orders.
// A strategic leg that does not trade at once is recorded as rejected right
// away, not at the period boundary.
func (g *GDZ) OnProcessed(o core.Order, res exchange.Result) {
	switch {
	case o.Strategic && g.plan.state == PlanLegOnePending:
		if res.Trade != nil && res.Trade.TakerOrderID == o.ID {
			g.plan.strategic = o
			g.plan.state = PlanLegTwoQueued
			return
		}
		g.rejected = append(g.rejected, g.plan.abandon())

	case o.Arbitrage && (g.plan.state == PlanLegTwoQueued || g.plan.state == PlanAwaitingUnwind):
		g.plan.unwind = o
		g.plan.state = PlanAwaitingUnwind
		if res.Trade != nil {
			g.completed = append(g.completed, g.plan.complete(*res.Trade))
		}
	}
}

// OnTrade completes the plan when the resting unwind order is hit.
func (g *GDZ) OnTrade(tr exchange.Trade) {
	if g.plan.state == PlanAwaitingUnwind && tr.Arbitrage && tr.Maker == g.acct.ID {
		g.completed = append(g.completed, g.plan.complete(tr))
	}
}

// ResetPeriod drops an unfinished plan, recording it as rejected.
func (g *GDZ) ResetPeriod() {
	g.idleUntil = 0
	if g.plan.state != PlanIdle {
		g.rejected = append(g.rejected, g.plan.abandon())
	}
}

// reprice keeps the unwind order at the top of its side: repost it if the
// cell emptied, leave it while the cell shows its price, otherwise step
// one tick past whoever holds the cell.
func (g *GDZ) reprice(time int64, v view.Published) *core.Order {
	u := g.plan.unwind
	q := v.Quote(u.Good, u.Side)
	next := core.Order{TraderID: g.acct.ID, Good: u.Good, Side: u.Side, Price: u.Price, Size: 1, Time: time, Arbitrage: true}
	switch {
	case !q.OK:
	case q.Price == u.Price:
		return nil
	case u.Side == market.SideBid:
		next.Price = q.Price + 1
	default:
		next.Price = q.Price - 1
	}
	g.plan.unwind = next
	return &next
}

type arbitrageOption struct {
	expected  float64
	strategic core.Order
	unwind    core.Order
}

// opportunity looks for a strategic first leg whose unwind has positive
// expected profit and, if found, starts a plan with it.
func (g *GDZ) opportunity(time int64, v view.Published) *core.Order {
	var best *arbitrageOption
	for _, a := range g.acct.ArbitrageActions(v) {
		unwindSide := a.Side.Opposite()
		q := v.Quote(a.Good, unwindSide)
		if !q.OK {
			continue
		}
		prob, err := g.belief.UnwindProbability(a.Good, unwindSide, v.Without(a.Good, unwindSide))
		if err != nil {
			continue
		}

		target, expected := 0, math.Inf(-1)
		for x, p := range prob {
			if p < g.cfg.MinProbability {
				p = 0
			}
			profit := float64(x) - float64(q.Price)
			if unwindSide == market.SideBid {
				profit = -profit
			}
			if e := profit * p; e > expected {
				target, expected = x, e
			}
		}
		if expected <= 0 || (best != nil && expected <= best.expected) {
			continue
		}
		strategic := core.Order{
			TraderID: g.acct.ID, Good: a.Good, Side: a.Side, Price: q.Price, Size: 1, Time: time,
			Strategic: true, Target: core.PriceTicks(target),
		}
		unwind := core.Order{
			TraderID: g.acct.ID, Good: a.Good, Side: unwindSide, Price: core.PriceTicks(target), Size: 1, Time: time,
			Arbitrage: true,
		}
		best = &arbitrageOption{expected: expected, strategic: strategic, unwind: unwind}
	}
	if best == nil {
		return nil
	}
	g.plan = plan{state: PlanLegOnePending, strategic: best.strategic, unwind: best.unwind}
	o := best.strategic
	return &o
}

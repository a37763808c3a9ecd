package strategy

import (
	"math/rand"

	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/internal/trader"
)

// EGD prices around the equilibrium estimate of a shared belief context
// and posts whichever feasible order gains the most utility.
type EGD struct {
	acct   *trader.Account
	rng    *rand.Rand
	cfg    EGDConfig
	belief *belief.Context

	idleUntil int64
}

// NewEGD creates an eGD strategy reading and feeding ctx.
func NewEGD(acct *trader.Account, cfg EGDConfig, ctx *belief.Context, rng *rand.Rand) *EGD {
	return &EGD{acct: acct, rng: rng, cfg: cfg, belief: ctx}
}

// ChooseAction implements Strategy.
func (e *EGD) ChooseAction(view.Published) {}

// Respond feeds the book change caused by o into the shared belief.
func (e *EGD) Respond(_ int64, v view.Published, o core.Order) {
	e.belief.Observe(o, v)
}

// GetOrder implements Strategy.
func (e *EGD) GetOrder(time int64, v view.Published) *core.Order {
	if time < e.idleUntil {
		return nil
	}
	if !e.acct.Active() {
		return nil
	}
	o := e.regularOrder(time, v)
	if o == nil && e.cfg.IdleSteps > 0 {
		e.idleUntil = time + e.cfg.IdleSteps + 1
	}
	return o
}

// regularOrder prices every feasible action at the equilibrium plus
// noise and returns the best one by utility gain, if that gain is not
// negative. Ties keep the earlier action.
func (e *EGD) regularOrder(time int64, v view.Published) *core.Order {
	var (
		best     *core.Order
		bestGain float64
	)
	for _, a := range e.acct.FeasibleActions(v, false) {
		offset := e.cfg.Noise * (2*e.rng.Float64() - 1)
		price := float64(roundPrice(e.belief.Equilibrium(a.Good) + offset))
		shout, ok := e.shoutPrice(a, price, v)
		if !ok {
			continue
		}
		o := &core.Order{TraderID: e.acct.ID, Good: a.Good, Side: a.Side, Price: shout, Size: 1, Time: time}
		if gain := e.acct.UtilityGain(*o); best == nil || gain > bestGain {
			best, bestGain = o, gain
		}
	}
	if best == nil || bestGain < 0 {
		return nil
	}
	return best
}

// shoutPrice applies the markup and the spread rules for action a.
func (e *EGD) shoutPrice(a trader.Action, price float64, v view.Published) (core.PriceTicks, bool) {
	top := core.PriceTicks(e.belief.Config().DomainMax)
	bid := v.Bid(a.Good).PriceOr(0)
	ask := v.Ask(a.Good).PriceOr(top)
	tight := ask-bid <= 1

	if a.Side == market.SideBid {
		shout := roundPrice(price * (1 - e.cfg.Markup))
		switch {
		case int64(shout) > e.acct.Money():
			return 0, false
		case shout == bid && tight:
			return ask, true
		case shout < bid:
			return 0, false
		}
		return shout, true
	}

	shout := roundPrice(price * (1 + e.cfg.Markup))
	switch {
	case shout == ask && tight:
		return bid, true
	case shout > ask:
		return 0, false
	}
	return shout, true
}

// ResetPeriod implements PeriodResetter.
func (e *EGD) ResetPeriod() { e.idleUntil = 0 }

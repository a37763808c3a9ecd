package belief

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
)

// Context is the belief state shared by every belief-based trader in a
// run: the quote history per good, the book as last observed and the
// current equilibrium estimate per good. Not safe for concurrent use.
type Context struct {
	cfg Config
	rng *rand.Rand
	log *zap.Logger

	hist [len(market.Goods)][]Entry
	last view.Published
	eq   [len(market.Goods)]float64

	lastOrder core.OrderID
	observed  bool
}

// NewContext creates an empty Context with random initial equilibria.
func NewContext(cfg Config, rng *rand.Rand, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Context{cfg: cfg, rng: rng, log: log}
	for _, g := range market.Goods {
		c.eq[g] = cfg.Fallback[g].Draw(rng)
	}
	return c
}

// Config returns the estimator parameters.
func (c *Context) Config() Config { return c.cfg }

// Equilibrium returns the current equilibrium estimate for g.
func (c *Context) Equilibrium(g market.Good) float64 { return c.eq[g] }

// History returns a copy of the observed entries for g.
func (c *Context) History(g market.Good) []Entry {
	return append([]Entry(nil), c.hist[g]...)
}

// Observe folds the book change caused by the accepted order o into the
// history of o's good, then re-estimates that good's equilibrium. Each
// order is observed once however many traders report it; the return
// value says whether this call did the work.
func (c *Context) Observe(o core.Order, v view.Published) bool {
	if c.observed && o.ID == c.lastOrder {
		return false
	}
	c.observed, c.lastOrder = true, o.ID

	g := o.Good
	for _, s := range []market.Side{market.SideBid, market.SideAsk} {
		cur, prev := v.Quote(g, s), c.last.Quote(g, s)
		if cur == prev || !prev.OK {
			continue
		}
		e := Entry{Price: prev.Price, Size: prev.Size, Side: s, OrderID: o.ID}
		if !cur.OK {
			e.Accepted = true
			c.hist[g] = trim(append(c.hist[g], e), c.cfg.Memory)
			continue
		}
		if (s == market.SideBid && prev.Price < cur.Price) || (s == market.SideAsk && prev.Price > cur.Price) {
			c.hist[g] = append(c.hist[g], e)
		}
	}
	c.last = v

	eq, err := c.EquilibriumPrice(g, v)
	if err != nil {
		c.log.Debug("keeping previous equilibrium",
			zap.Stringer("good", g), zap.Float64("eq", c.eq[g]), zap.Error(err))
		return true
	}
	c.eq[g] = eq
	return true
}

// EndPeriod runs the period-boundary lifecycle: the book was cleared, so
// the last observed view is forgotten; the history is only trimmed.
func (c *Context) EndPeriod() {
	c.last = view.Published{}
	c.observed = false
	for _, g := range market.Goods {
		c.hist[g] = trim(c.hist[g], c.cfg.Memory)
	}
}

// BidAccept estimates the probability a bid at p on g trades.
func (c *Context) BidAccept(g market.Good, p int) float64 {
	return bidAccept(c.hist[g], p, c.cfg.DomainMax)
}

// AskAccept estimates the probability an ask at p on g trades.
func (c *Context) AskAccept(g market.Good, p int) float64 {
	return askAccept(c.hist[g], p, c.cfg.DomainMax)
}

// Curve returns the acceptance probability of side s on g for every price
// in the domain, given the book v.
func (c *Context) Curve(g market.Good, s market.Side, v view.Published) ([]float64, error) {
	bid, ask := bestPrices(v, g, c.cfg.DomainMax)
	if s == market.SideBid {
		return bidCurve(c.hist[g], bid, c.cfg.DomainMax)
	}
	return askCurve(c.hist[g], ask, c.cfg.DomainMax)
}

// EquilibriumPrice returns the price where bid and ask acceptance are
// closest. With too little history it returns a random fallback draw.
func (c *Context) EquilibriumPrice(g market.Good, v view.Published) (float64, error) {
	h := c.hist[g]
	if count(h, market.SideBid) < c.cfg.MinBidObservations || count(h, market.SideAsk) < c.cfg.MinAskObservations {
		return c.cfg.Fallback[g].Draw(c.rng), nil
	}
	ya, err := c.Curve(g, market.SideAsk, v)
	if err != nil {
		return 0, err
	}
	yb, err := c.Curve(g, market.SideBid, v)
	if err != nil {
		return 0, err
	}
	best, bestDiff := 0, math.Inf(1)
	for p := range ya {
		if d := math.Abs(ya[p] - yb[p]); d < bestDiff {
			best, bestDiff = p, d
		}
	}
	return float64(best), nil
}

// UnwindProbability returns, per price, the chance an order on side s for
// g trades before the opposite side does: pAccept/(pAccept+pReject),
// 0 where both are 0.
func (c *Context) UnwindProbability(g market.Good, s market.Side, v view.Published) ([]float64, error) {
	acc, err := c.Curve(g, s, v)
	if err != nil {
		return nil, err
	}
	rej, err := c.Curve(g, s.Opposite(), v)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(acc))
	for p := range acc {
		if d := acc[p] + rej[p]; d != 0 {
			out[p] = acc[p] / d
		}
	}
	return out, nil
}

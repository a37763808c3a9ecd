package strategy

import (
	"math/rand"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/internal/trader"
)

type lastQuote struct {
	price core.PriceTicks
	ok    bool
}

// ZIP adapts a private shout price per good with a momentum-smoothed
// Widrow-Hoff rule, reacting to how the book moved between calls.
type ZIP struct {
	acct *trader.Account
	rng  *rand.Rand
	cfg  ZIPConfig

	gamma float64
	kappa float64

	shout    [len(market.Goods)]float64
	momentum [len(market.Goods)]float64
	lastBid  [len(market.Goods)]lastQuote
	lastAsk  [len(market.Goods)]lastQuote

	choice trader.Action
	buyer  bool
}

// NewZIP creates a ZIP strategy with randomly drawn parameters.
func NewZIP(acct *trader.Account, cfg ZIPConfig, rng *rand.Rand) *ZIP {
	z := &ZIP{acct: acct, rng: rng, cfg: cfg, choice: trader.DoNothing, buyer: true}
	z.gamma = cfg.Gamma.Draw(rng)
	z.kappa = cfg.Kappa.Draw(rng)
	for _, g := range market.Goods {
		z.shout[g] = cfg.Shout[g].Draw(rng)
	}
	return z
}

// Shout returns the current shout price for g.
func (z *ZIP) Shout(g market.Good) float64 { return z.shout[g] }

// Buyer reports whether the last chosen action was a bid.
func (z *ZIP) Buyer() bool { return z.buyer }

// ChooseAction picks uniformly among the feasible actions, doing nothing
// included. Doing nothing keeps the previous buyer flag.
func (z *ZIP) ChooseAction(v view.Published) {
	choices := z.acct.FeasibleActions(v, true)
	z.choice = choices[z.rng.Intn(len(choices))]
	if !z.choice.Noop {
		z.buyer = z.choice.Side == market.SideBid
	}
}

// GetOrder shouts the rounded shout price for the chosen action when it
// improves the book and does not lower utility.
func (z *ZIP) GetOrder(time int64, v view.Published) *core.Order {
	if z.choice.Noop {
		return nil
	}
	g, s := z.choice.Good, z.choice.Side
	price := roundPrice(z.shout[g])

	improves := false
	if s == market.SideBid {
		improves = price > v.Bid(g).PriceOr(0)
	} else {
		improves = price < v.Ask(g).PriceOr(core.PriceTicks(z.cfg.NoAsk))
	}
	if !improves {
		return nil
	}

	o := &core.Order{TraderID: z.acct.ID, Good: g, Side: s, Price: price, Size: 1, Time: time}
	if z.acct.UtilityGain(*o) < 0 || price <= 0 {
		return nil
	}
	return o
}

// Respond moves the shout price of each good. A vanished cell means the
// quote traded; an improved cell means the old quote was beaten.
func (z *ZIP) Respond(_ int64, v view.Published, _ core.Order) {
	active := z.acct.Active()
	for _, g := range market.Goods {
		bid, ask := v.Bid(g), v.Ask(g)

		if last := z.lastBid[g]; last.ok {
			p := float64(last.price)
			switch {
			case !bid.OK && z.buyer:
				if z.shout[g] >= p {
					z.priceDown(g, p)
				}
			case !bid.OK:
				if z.shout[g] >= p && active {
					z.priceDown(g, p)
				} else if z.shout[g] < p {
					z.priceUp(g, p)
				}
			case bid.Price > last.price && z.buyer:
				if z.shout[g] <= p && active {
					z.priceUp(g, p)
				}
			}
		}

		if last := z.lastAsk[g]; last.ok {
			p := float64(last.price)
			switch {
			case !ask.OK && z.buyer:
				if z.shout[g] <= p && active {
					z.priceUp(g, p)
				} else if z.shout[g] > p {
					z.priceDown(g, p)
				}
			case !ask.OK:
				if z.shout[g] <= p {
					z.priceUp(g, p)
				}
			case ask.Price < last.price && !z.buyer:
				if z.shout[g] >= p && active {
					z.priceDown(g, p)
				}
			}
		}

		z.lastBid[g] = lastQuote{price: bid.Price, ok: bid.OK}
		z.lastAsk[g] = lastQuote{price: ask.Price, ok: ask.OK}
	}
}

func (z *ZIP) priceUp(g market.Good, last float64) {
	delta := z.cfg.Step * z.rng.Float64()
	r := 1 + z.cfg.Step*z.rng.Float64()
	z.adjust(g, r*last+delta)
}

func (z *ZIP) priceDown(g market.Good, last float64) {
	delta := -z.cfg.Step * z.rng.Float64()
	r := 1 - z.cfg.Step*z.rng.Float64()
	z.adjust(g, r*last+delta)
}

// adjust moves the shout toward target with momentum.
func (z *ZIP) adjust(g market.Good, target float64) {
	diff := z.kappa * (target - z.shout[g])
	step := z.gamma*z.momentum[g] + (1-z.gamma)*diff
	z.momentum[g] = step
	z.shout[g] += step
}

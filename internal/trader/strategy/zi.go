package strategy

import (
	"math/rand"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/internal/trader"
)

// ZI is a zero-intelligence trader: random side, good and price, limited
// only to orders it could complete that do not lower its utility.
type ZI struct {
	acct *trader.Account
	rng  *rand.Rand
	cfg  ZIConfig
}

// NewZI creates a ZI strategy.
func NewZI(acct *trader.Account, cfg ZIConfig, rng *rand.Rand) *ZI {
	return &ZI{acct: acct, rng: rng, cfg: cfg}
}

// ChooseAction implements Strategy.
func (z *ZI) ChooseAction(view.Published) {}

// Respond implements Strategy.
func (z *ZI) Respond(int64, view.Published, core.Order) {}

// GetOrder implements Strategy.
func (z *ZI) GetOrder(time int64, _ view.Published) *core.Order {
	money := z.acct.Money()
	var held []market.Good
	for _, g := range market.Goods {
		if z.acct.Holding(g) > 0 {
			held = append(held, g)
		}
	}

	var side market.Side
	switch {
	case money > 0 && len(held) > 0:
		side = market.Side(z.rng.Intn(2))
	case money > 0:
		side = market.SideBid
	case len(held) > 0:
		side = market.SideAsk
	default:
		return nil
	}

	o := &core.Order{TraderID: z.acct.ID, Side: side, Size: 1, Time: time}
	if side == market.SideBid {
		o.Good = market.Goods[z.rng.Intn(len(market.Goods))]
		o.Price = core.PriceTicks(z.randInt(z.cfg.MinPrice, min(int64(z.cfg.MaxPrice), money)))
	} else {
		o.Good = held[z.rng.Intn(len(held))]
		o.Price = core.PriceTicks(z.randInt(z.cfg.MinPrice, int64(z.cfg.MaxPrice)))
	}

	if z.acct.UtilityGain(*o) < 0 {
		return nil
	}
	return o
}

// randInt draws from [lo, hi], or returns hi when the range is empty.
func (z *ZI) randInt(lo int, hi int64) int64 {
	if hi <= int64(lo) {
		return hi
	}
	return int64(lo) + z.rng.Int63n(hi-int64(lo)+1)
}

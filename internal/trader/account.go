package trader

import (
	"fmt"
	"math"

	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
)

// Account is the state every trader shares regardless of strategy:
// balance, utility, blotter and orders still resting in the book.
type Account struct {
	ID   core.TraderID
	Type Archetype
	Algo string

	cfg     Config
	balance Balance
	utility float64
	active  bool

	blotter []exchange.Trade
	pending []core.Order
}

// NewAccount creates an account endowed for its archetype.
func NewAccount(id core.TraderID, typ Archetype, algo string, cfg Config) (*Account, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("trader %d: %w: %d", id, ErrInvalidTraderType, int(typ))
	}
	a := &Account{ID: id, Type: typ, Algo: algo, cfg: cfg}
	a.Reset()
	return a, nil
}

// Reset restores the endowment, clears pending orders and reactivates
// the account. The blotter is kept across periods.
func (a *Account) Reset() {
	a.balance = a.cfg.Endowments[a.Type-1]
	a.utility = a.UtilityOf(a.balance)
	a.active = true
	a.pending = nil
}

// Balance returns a copy of the current balance.
func (a *Account) Balance() Balance { return a.balance }

// Money returns the money held.
func (a *Account) Money() int64 { return a.balance.Money }

// Holding returns the amount held of good g.
func (a *Account) Holding(g market.Good) int64 { return a.balance.Holding(g) }

// Utility returns the utility of the current balance.
func (a *Account) Utility() float64 { return a.utility }

// Active reports whether the trader is currently willing to trade.
func (a *Account) Active() bool { return a.active }

// SetActive marks the account active or idle.
func (a *Account) SetActive(v bool) { a.active = v }

// Blotter returns the trades this account took part in.
func (a *Account) Blotter() []exchange.Trade { return a.blotter }

func (a *Account) scale(as market.Asset) float64 {
	switch as {
	case market.AssetMoney:
		return a.cfg.Scale.Money
	case market.AssetX:
		return a.cfg.Scale.X
	default:
		return a.cfg.Scale.Y
	}
}

// UtilityOf evaluates the Leontief utility of b for this archetype.
func (a *Account) UtilityOf(b Balance) float64 {
	p, q := a.Type.Values()
	return math.Min(float64(b.Get(p))/a.scale(p), float64(b.Get(q))/a.scale(q))
}

// Excess returns the goods the trader could give away without losing
// utility: all of the unvalued asset, plus the surplus of whichever
// valued asset is over-supplied.
func (a *Account) Excess() Excess {
	var e Excess
	un := a.Type.Unvalued()
	e.add(un, float64(a.balance.Get(un)))

	p, q := a.Type.Values()
	up := float64(a.balance.Get(p)) / a.scale(p)
	uq := float64(a.balance.Get(q)) / a.scale(q)
	switch {
	case up > uq:
		e.add(p, float64(a.balance.Get(p))-uq*a.scale(p))
	case up < uq:
		e.add(q, float64(a.balance.Get(q))-up*a.scale(q))
	}
	return e
}

// FeasibleActions lists what the trader can do against v: ask any good
// it holds, bid any good whose best bid its money beats. Order is
// do-nothing, asks X then Y, bids X then Y.
func (a *Account) FeasibleActions(v view.Published, doNothing bool) []Action {
	var out []Action
	if doNothing {
		out = append(out, DoNothing)
	}
	for _, g := range market.Goods {
		if a.balance.Holding(g) > 0 {
			out = append(out, Action{Side: market.SideAsk, Good: g})
		}
	}
	for _, g := range market.Goods {
		if a.balance.Money > int64(v.Bid(g).PriceOr(0)) {
			out = append(out, Action{Side: market.SideBid, Good: g})
		}
	}
	return out
}

// ArbitrageActions returns at most one strategic first leg: sell a valued
// good into a resting bid, or buy an unvalued good from a resting ask.
// Y is tried before X.
func (a *Account) ArbitrageActions(v view.Published) []Action {
	for _, g := range []market.Good{market.GoodY, market.GoodX} {
		if a.Type.ValuesGood(g) {
			if v.Bid(g).OK && a.balance.Holding(g) > 0 {
				return []Action{{Side: market.SideAsk, Good: g}}
			}
			continue
		}
		if q := v.Ask(g); q.OK && a.balance.Money >= int64(q.Price) {
			return []Action{{Side: market.SideBid, Good: g}}
		}
	}
	return nil
}

// UtilityGain returns the change in utility if o filled completely at
// its own price.
func (a *Account) UtilityGain(o core.Order) float64 {
	b := a.balance
	n := int64(o.Size)
	if o.Side == market.SideAsk {
		n = -n
	}
	b.add(o.Good, n, n*int64(o.Price))
	return a.UtilityOf(b) - a.utility
}

// Bookkeep records tr in the blotter and settles this account's side of
// it. A self-trade leaves the balance unchanged.
func (a *Account) Bookkeep(tr exchange.Trade) error {
	a.blotter = append(a.blotter, tr)

	switch {
	case tr.Buyer == tr.Seller:
	case tr.Buyer == a.ID:
		a.balance.add(tr.Good, int64(tr.Size), tr.Value())
	case tr.Seller == a.ID:
		a.balance.add(tr.Good, -int64(tr.Size), -tr.Value())
	default:
		return fmt.Errorf("trader %d: %w", a.ID, ErrTradeAttribution)
	}
	a.utility = a.UtilityOf(a.balance)

	if a.balance.Negative() {
		return fmt.Errorf("trader %d: %w: %+v", a.ID, ErrNegativeBalance, a.balance)
	}
	return nil
}

// AddPending remembers an order that rested in the book.
func (a *Account) AddPending(o core.Order) {
	a.pending = append(a.pending, o)
}

// SyncPending drops pending orders whose cell in v no longer shows them.
func (a *Account) SyncPending(v view.Published) {
	kept := a.pending[:0]
	for _, o := range a.pending {
		q := v.Quote(o.Good, o.Side)
		if q.OK && q.Price == o.Price && q.Size == o.Size {
			kept = append(kept, o)
		}
	}
	a.pending = kept
}

// Pending returns the orders believed to still rest in the book.
func (a *Account) Pending() []core.Order {
	out := make([]core.Order, len(a.pending))
	copy(out, a.pending)
	return out
}

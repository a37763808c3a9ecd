package sim

import (
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/trader"
	"github.com/zappabad/cdamarket/internal/trader/strategy"
)

type participant struct {
	acct  *trader.Account
	strat strategy.Strategy
}

// population holds the traders of one run, indexed by ID-1. It is the
// exchange's view of balances.
type population []participant

func (p population) get(id core.TraderID) (participant, bool) {
	i := int(id) - 1
	if i < 0 || i >= len(p) {
		return participant{}, false
	}
	return p[i], true
}

func (p population) Money(id core.TraderID) int64 {
	if t, ok := p.get(id); ok {
		return t.acct.Money()
	}
	return 0
}

func (p population) Holding(id core.TraderID, g market.Good) int64 {
	if t, ok := p.get(id); ok {
		return t.acct.Holding(g)
	}
	return 0
}

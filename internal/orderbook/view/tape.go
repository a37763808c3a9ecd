package view

import (
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
)

// TradeTape keeps the most recent trades of a period, oldest first, up to
// a fixed capacity. It also counts the taped trades per good.
type TradeTape struct {
	trades   []core.TradeEvent
	capacity int
	perGood  [len(market.Goods)]int
}

// NewTradeTape creates a tape holding at most capacity trades.
func NewTradeTape(capacity int) *TradeTape {
	if capacity < 1 {
		capacity = 1
	}
	return &TradeTape{capacity: capacity}
}

// Append records tr, dropping the oldest trade once the tape is full.
func (t *TradeTape) Append(tr core.TradeEvent) {
	if len(t.trades) == t.capacity {
		t.count(t.trades[0].Good, -1)
		t.trades = t.trades[1:]
	}
	t.trades = append(t.trades, tr)
	t.count(tr.Good, 1)
}

func (t *TradeTape) count(g market.Good, d int) {
	if g.Valid() {
		t.perGood[g] += d
	}
}

// Last returns a copy of the last n trades in chronological order.
func (t *TradeTape) Last(n int) []core.TradeEvent {
	if n <= 0 || len(t.trades) == 0 {
		return nil
	}
	n = min(n, len(t.trades))
	out := make([]core.TradeEvent, n)
	copy(out, t.trades[len(t.trades)-n:])
	return out
}

// OfGood returns a copy of the taped trades of g in chronological order.
func (t *TradeTape) OfGood(g market.Good) []core.TradeEvent {
	if !g.Valid() || t.perGood[g] == 0 {
		return nil
	}
	out := make([]core.TradeEvent, 0, t.perGood[g])
	for _, tr := range t.trades {
		if tr.Good == g {
			out = append(out, tr)
		}
	}
	return out
}

// Len returns the number of taped trades.
func (t *TradeTape) Len() int { return len(t.trades) }

// CountOf returns the number of taped trades of g.
func (t *TradeTape) CountOf(g market.Good) int {
	if !g.Valid() {
		return 0
	}
	return t.perGood[g]
}

// Clear drops every trade and keeps the capacity.
func (t *TradeTape) Clear() {
	t.trades = nil
	t.perGood = [len(market.Goods)]int{}
}

package view

import (
	"sync"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
)

// Quote is the anonymized content of one book cell.
type Quote struct {
	Price core.PriceTicks
	Size  core.Size
	OK    bool
}

// PriceOr returns the quote price, or def when the cell is empty.
func (q Quote) PriceOr(def core.PriceTicks) core.PriceTicks {
	if !q.OK {
		return def
	}
	return q.Price
}

// Published is the anonymized book every trader sees: price and size per
// (good, side), no owners. It is a value; copies are independent.
type Published [len(market.Goods)][2]Quote

// Quote returns the cell for (g, s).
func (p Published) Quote(g market.Good, s market.Side) Quote {
	return p[g][s]
}

// Bid returns the best bid quote for g.
func (p Published) Bid(g market.Good) Quote { return p[g][market.SideBid] }

// Ask returns the best ask quote for g.
func (p Published) Ask(g market.Good) Quote { return p[g][market.SideAsk] }

// Without returns a copy of p with the (g, s) cell emptied.
func (p Published) Without(g market.Good, s market.Side) Published {
	p[g][s] = Quote{}
	return p
}

// BookView maintains the published view of the book from its events.
// It is thread-safe and returns copies (not internal references).
type BookView struct {
	mu    sync.RWMutex
	cells Published
	ids   [len(market.Goods)][2]core.OrderID
	tape  *TradeTape
}

// NewBookView creates a new BookView with the given trade tape capacity.
func NewBookView(tapeCapacity int) *BookView {
	return &BookView{tape: NewTradeTape(tapeCapacity)}
}

// Apply processes an event and updates the view accordingly.
func (v *BookView) Apply(ev core.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e := ev.(type) {
	case core.TradeEvent:
		v.tape.Append(e)

	case core.OrderRestedEvent:
		v.cells[e.Good][e.Side] = Quote{Price: e.Price, Size: e.Size, OK: true}
		v.ids[e.Good][e.Side] = e.OrderID

	case core.OrderReducedEvent:
		if v.ids[e.Good][e.Side] == e.OrderID {
			v.cells[e.Good][e.Side].Size = e.Remaining
		}

	case core.OrderRemovedEvent:
		if v.ids[e.Good][e.Side] == e.OrderID {
			v.cells[e.Good][e.Side] = Quote{}
			v.ids[e.Good][e.Side] = 0
		}
	}
}

// ApplyAll applies events in order.
func (v *BookView) ApplyAll(evs []core.Event) {
	for _, ev := range evs {
		v.Apply(ev)
	}
}

// Snapshot returns the current published view.
func (v *BookView) Snapshot() Published {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cells
}

// Trades returns the last n trades in chronological order.
func (v *BookView) Trades(n int) []core.TradeEvent {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tape.Last(n)
}

// TradesOf returns the taped trades of good g in chronological order.
func (v *BookView) TradesOf(g market.Good) []core.TradeEvent {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tape.OfGood(g)
}

// Reset empties the view and the tape.
func (v *BookView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cells = Published{}
	v.ids = [len(market.Goods)][2]core.OrderID{}
	v.tape.Clear()
}

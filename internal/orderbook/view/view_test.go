package view

import (
	"testing"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
)

func TestBookViewFollowsBook(t *testing.T) {
	b := core.NewBook()
	v := NewBookView(8)

	_, evs, _ := b.Admit(core.Order{ID: 1, TraderID: 4, Good: market.GoodY, Side: market.SideAsk, Price: 30, Size: 2})
	v.ApplyAll(evs)

	snap := v.Snapshot()
	q := snap.Ask(market.GoodY)
	if !q.OK || q.Price != 30 || q.Size != 2 {
		t.Fatalf("unexpected ask quote %+v", q)
	}
	if snap.Bid(market.GoodY).OK || snap.Ask(market.GoodX).OK {
		t.Error("expected other cells to stay empty")
	}

	_, evs, _ = b.Fill(market.GoodY, market.SideAsk, 1)
	v.ApplyAll(evs)
	if got := v.Snapshot().Ask(market.GoodY).Size; got != 1 {
		t.Errorf("expected size 1 after partial fill, got %d", got)
	}

	_, evs, _ = b.Admit(core.Order{ID: 2, TraderID: 5, Good: market.GoodY, Side: market.SideAsk, Price: 25, Size: 1})
	v.ApplyAll(evs)
	if got := v.Snapshot().Ask(market.GoodY).Price; got != 25 {
		t.Errorf("expected displaced ask to show 25, got %d", got)
	}

	v.ApplyAll(b.Clear())
	if v.Snapshot() != (Published{}) {
		t.Errorf("expected empty view after clear, got %+v", v.Snapshot())
	}
}

func TestPublishedIsACopy(t *testing.T) {
	v := NewBookView(1)
	v.Apply(core.OrderRestedEvent{OrderID: 1, Good: market.GoodX, Side: market.SideBid, Price: 10, Size: 1})

	snap := v.Snapshot()
	mod := snap.Without(market.GoodX, market.SideBid)
	if mod.Bid(market.GoodX).OK {
		t.Error("expected Without to empty the cell")
	}
	if !snap.Bid(market.GoodX).OK || !v.Snapshot().Bid(market.GoodX).OK {
		t.Error("expected original view to be untouched")
	}
	if got := (Quote{}).PriceOr(200); got != 200 {
		t.Errorf("expected default price 200, got %d", got)
	}
}

func TestTradeTapeRing(t *testing.T) {
	tape := NewTradeTape(3)
	for i := 1; i <= 5; i++ {
		tape.Append(core.TradeEvent{Price: core.PriceTicks(i), Good: market.Good(i % 2)})
	}
	last := tape.Last(10)
	if len(last) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(last))
	}
	for i, want := range []core.PriceTicks{3, 4, 5} {
		if last[i].Price != want {
			t.Errorf("trade %d: expected price %d, got %d", i, want, last[i].Price)
		}
	}
	xs := tape.OfGood(market.GoodX)
	if len(xs) != 1 || xs[0].Price != 4 {
		t.Errorf("unexpected X trades %+v", xs)
	}
	if tape.CountOf(market.GoodY) != 2 || tape.Len() != 3 {
		t.Errorf("expected 2 Y trades of 3, got %d of %d", tape.CountOf(market.GoodY), tape.Len())
	}

	tape.Clear()
	if tape.Len() != 0 || tape.OfGood(market.GoodY) != nil {
		t.Error("expected an empty tape after Clear")
	}
	tape.Append(core.TradeEvent{Price: 9, Good: market.GoodY})
	if got := tape.Last(1); len(got) != 1 || got[0].Price != 9 {
		t.Errorf("unexpected trades after Clear %+v", got)
	}
}

package core

import (
	"errors"
	"testing"

	"github.com/zappabad/cdamarket/internal/market"
)

func bid(id OrderID, trader TraderID, price PriceTicks, size Size) Order {
	return Order{ID: id, TraderID: trader, Good: market.GoodX, Side: market.SideBid, Price: price, Size: size, Time: 1}
}

func ask(id OrderID, trader TraderID, price PriceTicks, size Size) Order {
	return Order{ID: id, TraderID: trader, Good: market.GoodX, Side: market.SideAsk, Price: price, Size: size, Time: 1}
}

func TestAdmitEmptyCell(t *testing.T) {
	b := NewBook()

	ok, events, err := b.Admit(bid(1, 100, 50, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected order to be admitted")
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if _, ok := events[0].(OrderRestedEvent); !ok {
		t.Errorf("expected OrderRestedEvent, got %T", events[0])
	}

	best, ok := b.Best(market.GoodX, market.SideBid)
	if !ok || best.Price != 50 {
		t.Errorf("expected best bid 50, got %v (ok=%v)", best.Price, ok)
	}
	if _, ok := b.Best(market.GoodY, market.SideBid); ok {
		t.Error("expected Y bid cell to stay empty")
	}
}

func TestAdmitRequiresStrictImprovement(t *testing.T) {
	tests := []struct {
		name     string
		resting  Order
		incoming Order
		want     bool
	}{
		{"bid higher", bid(1, 1, 50, 1), bid(2, 2, 51, 1), true},
		{"bid equal", bid(1, 1, 50, 1), bid(2, 2, 50, 1), false},
		{"bid lower", bid(1, 1, 50, 1), bid(2, 2, 49, 1), false},
		{"ask lower", ask(1, 1, 50, 1), ask(2, 2, 49, 1), true},
		{"ask equal", ask(1, 1, 50, 1), ask(2, 2, 50, 1), false},
		{"ask higher", ask(1, 1, 50, 1), ask(2, 2, 51, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBook()
			if ok, _, err := b.Admit(tt.resting); err != nil || !ok {
				t.Fatalf("resting order not admitted: ok=%v err=%v", ok, err)
			}
			ok, events, err := b.Admit(tt.incoming)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("expected admitted=%v, got %v", tt.want, ok)
			}
			best, _ := b.Best(tt.resting.Good, tt.resting.Side)
			if tt.want {
				if best.ID != tt.incoming.ID {
					t.Errorf("expected incoming order to rest, got id %d", best.ID)
				}
				if len(events) != 2 {
					t.Fatalf("expected displaced+rested events, got %d", len(events))
				}
				rm, ok := events[0].(OrderRemovedEvent)
				if !ok || rm.Reason != RemoveReasonDisplaced {
					t.Errorf("expected displaced removal, got %#v", events[0])
				}
			} else {
				if best.ID != tt.resting.ID {
					t.Errorf("expected resting order to stay, got id %d", best.ID)
				}
				if len(events) != 0 {
					t.Errorf("expected no events, got %d", len(events))
				}
			}
		})
	}
}

func TestAdmitInvalidSide(t *testing.T) {
	b := NewBook()
	o := bid(1, 1, 50, 1)
	o.Side = market.Side(7)

	_, _, err := b.Admit(o)
	if !errors.Is(err, market.ErrInvalidSide) {
		t.Fatalf("expected ErrInvalidSide, got %v", err)
	}
}

func TestFillPartialAndFull(t *testing.T) {
	b := NewBook()
	if _, _, err := b.Admit(ask(1, 7, 60, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	maker, events, err := b.Fill(market.GoodX, market.SideAsk, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maker.Size != 3 {
		t.Errorf("expected pre-fill size 3, got %d", maker.Size)
	}
	red, ok := events[0].(OrderReducedEvent)
	if !ok || red.Remaining != 2 || red.Delta != -1 {
		t.Errorf("unexpected reduce event %#v", events[0])
	}
	best, ok := b.Best(market.GoodX, market.SideAsk)
	if !ok || best.Size != 2 {
		t.Fatalf("expected 2 resting, got %d (ok=%v)", best.Size, ok)
	}

	_, events, err = b.Fill(market.GoodX, market.SideAsk, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rm, ok := events[0].(OrderRemovedEvent); !ok || rm.Reason != RemoveReasonFilled {
		t.Errorf("expected filled removal, got %#v", events[0])
	}
	if _, ok := b.Best(market.GoodX, market.SideAsk); ok {
		t.Error("expected ask cell to be empty")
	}

	if _, _, err := b.Fill(market.GoodX, market.SideAsk, 1); !errors.Is(err, ErrEmptyCell) {
		t.Errorf("expected ErrEmptyCell, got %v", err)
	}
}

func TestEvictAndClear(t *testing.T) {
	b := NewBook()
	b.Admit(bid(1, 1, 40, 1))
	b.Admit(ask(2, 2, 90, 1))
	y := bid(3, 3, 20, 2)
	y.Good = market.GoodY
	b.Admit(y)

	o, events, err := b.Evict(market.GoodX, market.SideBid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != 1 {
		t.Errorf("expected evicted order 1, got %d", o.ID)
	}
	if rm := events[0].(OrderRemovedEvent); rm.Reason != RemoveReasonEvicted || rm.Remaining != 1 {
		t.Errorf("unexpected evict event %#v", rm)
	}

	if got := len(b.Resting()); got != 2 {
		t.Fatalf("expected 2 resting orders, got %d", got)
	}
	if got := len(b.Clear()); got != 2 {
		t.Errorf("expected 2 cleared events, got %d", got)
	}
	if got := len(b.Resting()); got != 0 {
		t.Errorf("expected empty book, got %d orders", got)
	}
}

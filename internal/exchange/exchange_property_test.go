package exchange

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
)

func TestProcessInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := newLedger()
		l[4] = &holdings{money: 150, goods: [2]int64{3, 4}}
		ex := New(DefaultConfig(), l)

		total := func() (int64, [2]int64) {
			var m int64
			var g [2]int64
			for _, h := range l {
				m += h.money
				g[0] += h.goods[0]
				g[1] += h.goods[1]
			}
			return m, g
		}
		money0, goods0 := total()

		n := rapid.IntRange(1, 80).Draw(t, "n")
		for i := 0; i < n; i++ {
			o := core.Order{
				ID:       core.OrderID(i + 1),
				TraderID: core.TraderID(rapid.Int64Range(1, 4).Draw(t, fmt.Sprintf("trader-%d", i))),
				Good:     market.Good(rapid.IntRange(0, 1).Draw(t, fmt.Sprintf("good-%d", i))),
				Side:     market.Side(rapid.IntRange(0, 1).Draw(t, fmt.Sprintf("side-%d", i))),
				Price:    core.PriceTicks(rapid.Int64Range(0, 210).Draw(t, fmt.Sprintf("price-%d", i))),
				Size:     core.Size(rapid.Int64Range(1, 3).Draw(t, fmt.Sprintf("size-%d", i))),
			}
			before := ex.Publish()
			res, err := ex.Process(o, int64(i), 1, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			after := ex.Publish()

			if !res.Accepted && res.Evicted == nil && before != after {
				t.Fatalf("rejected order %+v changed the book", o)
			}
			if res.Trade != nil {
				tr := res.Trade
				maker := before.Quote(o.Good, o.Side.Opposite())
				if !maker.OK || tr.Price != maker.Price {
					t.Fatalf("trade price %d is not the maker price %+v", tr.Price, maker)
				}
				if tr.Price <= 1 || tr.Price >= 201 {
					t.Fatalf("trade price %d out of bounds", tr.Price)
				}
				if tr.Taker != o.TraderID {
					t.Fatalf("taker %d is not the submitter %d", tr.Taker, o.TraderID)
				}
				l.settle(tr)
			}
			if res.Accepted && res.Trade == nil {
				q := after.Quote(o.Good, o.Side)
				if !q.OK || q.Price != o.Price {
					t.Fatalf("accepted order %+v is not resting, cell %+v", o, q)
				}
			}

			for _, g := range market.Goods {
				b, a := after.Bid(g), after.Ask(g)
				if b.OK && a.OK && b.Price >= a.Price {
					t.Fatalf("book crossed on %s: bid %d ask %d", g, b.Price, a.Price)
				}
			}
			for id, h := range l {
				if h.money < 0 || h.goods[0] < 0 || h.goods[1] < 0 {
					t.Fatalf("trader %d went negative: %+v", id, *h)
				}
			}
		}

		money1, goods1 := total()
		if money0 != money1 || goods0 != goods1 {
			t.Fatalf("assets not conserved: %d/%v -> %d/%v", money0, goods0, money1, goods1)
		}
	})
}

package strategy

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/internal/trader"
)

func newAccount(t *testing.T, id core.TraderID, typ trader.Archetype) *trader.Account {
	t.Helper()
	a, err := trader.NewAccount(id, typ, "test", trader.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func quote(price core.PriceTicks) view.Quote { return view.Quote{Price: price, Size: 1, OK: true} }

// fixedBelief returns a context whose initial equilibrium is eq for both goods.
func fixedBelief(eq float64) *belief.Context {
	cfg := belief.DefaultConfig()
	for _, g := range market.Goods {
		cfg.Fallback[g] = belief.PriceRange{Lo: eq, Hi: eq}
	}
	return belief.NewContext(cfg, rand.New(rand.NewSource(1)), nil)
}

func TestNewUnknownAlgorithm(t *testing.T) {
	acct := newAccount(t, 1, trader.Type1)
	_, err := New("BOGUS", acct, Deps{Rng: rand.New(rand.NewSource(1)), Config: DefaultConfig()})
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if _, err := New(AlgoEGD, acct, Deps{Rng: rand.New(rand.NewSource(1)), Config: DefaultConfig()}); err == nil {
		t.Error("expected eGD without a belief context to fail")
	}
}

func TestZIOrdersAreFeasible(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, typ := range trader.Archetypes {
		acct := newAccount(t, 1, typ)
		zi := NewZI(acct, DefaultConfig().ZI, rng)
		for i := 0; i < 200; i++ {
			o := zi.GetOrder(1, view.Published{})
			if o == nil {
				continue
			}
			if o.Side == market.SideAsk && acct.Holding(o.Good) <= 0 {
				t.Fatalf("%v asked %s without holding it", typ, o.Good)
			}
			if o.Side == market.SideBid && int64(o.Price) > acct.Money() {
				t.Fatalf("%v bid %d with money %d", typ, o.Price, acct.Money())
			}
			if acct.UtilityGain(*o) < 0 {
				t.Fatalf("order %+v lowers utility", o)
			}
		}
	}
}

func TestZIPChooseAndGetOrder(t *testing.T) {
	acct := newAccount(t, 3, trader.Type3)
	z := NewZIP(acct, DefaultConfig().ZIP, rand.New(rand.NewSource(5)))

	z.choice = trader.Action{Side: market.SideBid, Good: market.GoodX}
	z.shout[market.GoodX] = 44.5

	o := z.GetOrder(2, view.Published{})
	if o == nil {
		t.Fatal("expected an order on an empty book")
	}
	// half to even
	if o.Price != 44 || o.Side != market.SideBid || o.Size != 1 || o.Time != 2 {
		t.Errorf("unexpected order %+v", o)
	}

	var v view.Published
	v[market.GoodX][market.SideBid] = quote(44)
	if z.GetOrder(2, v) != nil {
		t.Error("a bid equal to the best bid must not be shouted")
	}

	z.choice = trader.DoNothing
	if z.GetOrder(2, view.Published{}) != nil {
		t.Error("doing nothing must not produce an order")
	}

	for i := 0; i < 20; i++ {
		z.ChooseAction(view.Published{})
		if !z.choice.Noop && z.Buyer() != (z.choice.Side == market.SideBid) {
			t.Fatalf("buyer flag %v does not match %v", z.Buyer(), z.choice)
		}
	}
}

func TestZIPRespond(t *testing.T) {
	tests := []struct {
		name  string
		buyer bool
		shout float64
		last  view.Published
		now   view.Published
		up    bool
		moved bool
	}{
		{
			name: "buyer lowers after bid traded", buyer: true, shout: 60,
			last: view.Published{market.GoodX: {market.SideBid: quote(50)}},
			up:   false, moved: true,
		},
		{
			name: "seller raises after bid traded below shout", buyer: false, shout: 40,
			last: view.Published{market.GoodX: {market.SideBid: quote(50)}},
			up:   true, moved: true,
		},
		{
			name: "buyer raises after being outbid", buyer: true, shout: 45,
			last: view.Published{market.GoodX: {market.SideBid: quote(50)}},
			now:  view.Published{market.GoodX: {market.SideBid: quote(55)}},
			up:   true, moved: true,
		},
		{
			name: "seller lowers after being undercut", buyer: false, shout: 70,
			last: view.Published{market.GoodX: {market.SideAsk: quote(60)}},
			now:  view.Published{market.GoodX: {market.SideAsk: quote(58)}},
			up:   false, moved: true,
		},
		{
			name: "seller ignores a better bid", buyer: false, shout: 45,
			last: view.Published{market.GoodX: {market.SideBid: quote(50)}},
			now:  view.Published{market.GoodX: {market.SideBid: quote(55)}},
			moved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := newAccount(t, 1, trader.Type3)
			z := NewZIP(acct, DefaultConfig().ZIP, rand.New(rand.NewSource(9)))
			z.buyer = tt.buyer
			z.shout[market.GoodX] = tt.shout
			z.Respond(1, tt.last, core.Order{})
			if z.Shout(market.GoodX) != tt.shout {
				t.Fatal("first observation must only record the book")
			}

			z.Respond(2, tt.now, core.Order{})
			got := z.Shout(market.GoodX)
			switch {
			case !tt.moved && got != tt.shout:
				t.Errorf("expected shout to stay %v, got %v", tt.shout, got)
			case tt.moved && tt.up && got <= tt.shout:
				t.Errorf("expected shout above %v, got %v", tt.shout, got)
			case tt.moved && !tt.up && got >= tt.shout:
				t.Errorf("expected shout below %v, got %v", tt.shout, got)
			}
		})
	}
}

func TestEGDPicksBestFeasibleOrder(t *testing.T) {
	cfg := DefaultConfig().EGD
	cfg.Noise = 0

	acct := newAccount(t, 3, trader.Type3)
	e := NewEGD(acct, cfg, fixedBelief(50), rand.New(rand.NewSource(1)))

	o := e.GetOrder(1, view.Published{})
	if o == nil {
		t.Fatal("expected an order")
	}
	if o.Side != market.SideBid || o.Good != market.GoodX || o.Price != 50 {
		t.Errorf("expected first tied action bid X at 50, got %+v", o)
	}

	var v view.Published
	v[market.GoodX][market.SideBid] = quote(60)
	o = e.GetOrder(1, v)
	if o == nil || o.Good != market.GoodY {
		t.Errorf("expected X bid below best bid to be skipped, got %+v", o)
	}
}

func TestEGDSpreadSnap(t *testing.T) {
	cfg := DefaultConfig().EGD
	cfg.Noise = 0

	acct := newAccount(t, 3, trader.Type3)
	e := NewEGD(acct, cfg, fixedBelief(49), rand.New(rand.NewSource(1)))

	var v view.Published
	v[market.GoodX][market.SideBid] = quote(49)
	v[market.GoodX][market.SideAsk] = quote(50)
	v[market.GoodY][market.SideBid] = quote(100)

	o := e.GetOrder(1, v)
	if o == nil || o.Good != market.GoodX || o.Price != 50 {
		t.Fatalf("expected bid X snapped to the ask 50, got %+v", o)
	}
}

func TestEGDDefaultSitsOutOneStep(t *testing.T) {
	acct := newAccount(t, 1, trader.Type1)
	e := NewEGD(acct, DefaultConfig().EGD, fixedBelief(50), rand.New(rand.NewSource(1)))
	var v view.Published
	v[market.GoodX][market.SideAsk] = quote(10)

	if o := e.GetOrder(5, v); o != nil {
		t.Fatalf("expected no order above the best ask, got %+v", o)
	}
	v[market.GoodX][market.SideAsk] = quote(60)
	if o := e.GetOrder(6, v); o != nil {
		t.Errorf("expected the trader to sit out timestep 6, got %+v", o)
	}
	if o := e.GetOrder(7, v); o == nil {
		t.Error("expected an order at timestep 7")
	}
}

func TestEGDIdleSteps(t *testing.T) {
	cfg := DefaultConfig().EGD
	cfg.IdleSteps = 3

	// type 1 holds only X, which it does not value, and no money
	acct := newAccount(t, 1, trader.Type1)
	e := NewEGD(acct, cfg, fixedBelief(50), rand.New(rand.NewSource(1)))
	var v view.Published
	v[market.GoodX][market.SideAsk] = quote(10)

	if o := e.GetOrder(5, v); o != nil {
		t.Fatalf("expected no order above the best ask, got %+v", o)
	}
	if e.idleUntil != 9 {
		t.Errorf("expected idle until 9, got %d", e.idleUntil)
	}

	v[market.GoodX][market.SideAsk] = quote(60)
	for time := int64(6); time <= 8; time++ {
		if o := e.GetOrder(time, v); o != nil {
			t.Fatalf("time %d: expected an idle trader, got %+v", time, o)
		}
	}
	if o := e.GetOrder(9, v); o == nil {
		t.Error("expected the trader back after 3 idle timesteps")
	}
	e.ResetPeriod()
	if e.idleUntil != 0 {
		t.Error("expected period reset to clear idling")
	}
}

// seedRejectedAsk makes bids at or above 10 look certain to trade and
// asks there look hopeless.
func seedRejectedAsk(ctx *belief.Context) {
	var v view.Published
	v[market.GoodY][market.SideAsk] = quote(10)
	ctx.Observe(core.Order{ID: 1, Good: market.GoodY}, v)
	v[market.GoodY][market.SideAsk] = quote(9)
	ctx.Observe(core.Order{ID: 2, Good: market.GoodY}, v)
}

func newGDZ(t *testing.T) (*GDZ, *trader.Account) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.GDZ.Probability = 1
	cfg.GDZ.MinTime = 0

	acct := newAccount(t, 1, trader.Type1)
	// hand the trader one Y for free
	if err := acct.Bookkeep(exchange.Trade{Buyer: 1, Seller: 99, Good: market.GoodY, Price: 0, Size: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := fixedBelief(30)
	seedRejectedAsk(ctx)
	return NewGDZ(acct, cfg, ctx, rand.New(rand.NewSource(1))), acct
}

func TestGDZArbitrageLifecycle(t *testing.T) {
	g, acct := newGDZ(t)

	var v view.Published
	v[market.GoodY][market.SideBid] = quote(30)

	o := g.GetOrder(1, v)
	if o == nil || !o.Strategic {
		t.Fatalf("expected a strategic order, got %+v", o)
	}
	if o.Side != market.SideAsk || o.Good != market.GoodY || o.Price != 30 || o.Target != 10 {
		t.Fatalf("unexpected strategic order %+v", o)
	}
	if g.State() != PlanLegOnePending {
		t.Fatalf("expected %v, got %v", PlanLegOnePending, g.State())
	}

	o.ID = 5
	g.OnProcessed(*o, exchange.Result{Accepted: true, Trade: &exchange.Trade{
		Time: 1, Buyer: 2, Seller: acct.ID, Good: market.GoodY, Price: 30, Size: 1,
		Taker: acct.ID, Maker: 2, TakerOrderID: 5,
	}})
	if g.State() != PlanLegTwoQueued {
		t.Fatalf("expected %v, got %v", PlanLegTwoQueued, g.State())
	}

	u := g.FollowUp(1, view.Published{})
	if u == nil || !u.Arbitrage || u.Side != market.SideBid || u.Price != 10 {
		t.Fatalf("unexpected unwind order %+v", u)
	}
	u.ID = 6
	g.OnProcessed(*u, exchange.Result{Accepted: true})
	if g.State() != PlanAwaitingUnwind {
		t.Fatalf("expected %v, got %v", PlanAwaitingUnwind, g.State())
	}

	// someone else's arbitrage trade is not ours
	g.OnTrade(exchange.Trade{Arbitrage: true, Maker: 42})
	if g.State() != PlanAwaitingUnwind {
		t.Fatal("foreign trade must not complete the plan")
	}

	g.OnTrade(exchange.Trade{Time: 7, Arbitrage: true, Maker: acct.ID, Buyer: acct.ID, Seller: 3, Good: market.GoodY, Price: 10, Size: 1})
	if g.State() != PlanIdle {
		t.Fatalf("expected %v, got %v", PlanIdle, g.State())
	}
	recs := g.Completed()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if r := recs[0]; r.OriginalPrice != 30 || r.Profit != 20 || r.WaitTime != 6 || r.TargetPrice != 10 {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestGDZFailedStrategicLeg(t *testing.T) {
	g, _ := newGDZ(t)
	var v view.Published
	v[market.GoodY][market.SideBid] = quote(30)

	o := g.GetOrder(1, v)
	if o == nil {
		t.Fatal("expected a strategic order")
	}
	o.ID = 3
	g.OnProcessed(*o, exchange.Result{Accepted: true})
	if g.State() != PlanIdle || len(g.Rejected()) != 1 {
		t.Errorf("expected abandoned plan, state %v rejected %d", g.State(), len(g.Rejected()))
	}
}

func TestGDZReprice(t *testing.T) {
	g, acct := newGDZ(t)
	g.plan = plan{
		state:     PlanAwaitingUnwind,
		strategic: core.Order{TraderID: acct.ID, Good: market.GoodY, Side: market.SideAsk, Price: 30, Strategic: true, Target: 10},
		unwind:    core.Order{TraderID: acct.ID, Good: market.GoodY, Side: market.SideBid, Price: 10, Arbitrage: true},
	}

	var v view.Published
	v[market.GoodY][market.SideBid] = quote(12)
	o := g.GetOrder(3, v)
	if o == nil || o.Price != 13 || !o.Arbitrage {
		t.Fatalf("expected overbid to 13, got %+v", o)
	}

	v[market.GoodY][market.SideBid] = quote(13)
	if o := g.GetOrder(4, v); o != nil {
		t.Errorf("expected to wait while at the target, got %+v", o)
	}

	if o := g.GetOrder(5, view.Published{}); o == nil || o.Price != 13 {
		t.Errorf("expected repost at 13 on an empty cell, got %+v", o)
	}

	g.ResetPeriod()
	if g.State() != PlanIdle || len(g.Rejected()) != 1 {
		t.Errorf("expected reset to reject the open plan, state %v rejected %d", g.State(), len(g.Rejected()))
	}
}

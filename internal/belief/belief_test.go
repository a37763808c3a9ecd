package belief

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newTestContext(seed int64) *Context {
	return NewContext(DefaultConfig(), rand.New(rand.NewSource(seed)), nil)
}

func quote(price core.PriceTicks) view.Quote { return view.Quote{Price: price, Size: 1, OK: true} }

func TestTrim(t *testing.T) {
	h := []Entry{
		{Price: 1, Accepted: true},
		{Price: 2},
		{Price: 3, Accepted: true},
		{Price: 4, Accepted: true},
	}
	if got := trim(h, 3); len(got) != 4 {
		t.Fatalf("expected no trim within memory, got %d entries", len(got))
	}
	got := trim(h, 2)
	if len(got) != 3 || got[0].Price != 2 {
		t.Errorf("expected history from price 2 on, got %+v", got)
	}
}

func TestAcceptProbabilities(t *testing.T) {
	h := []Entry{
		{Price: 40, Size: 1, Side: market.SideBid, Accepted: true},
		{Price: 60, Size: 1, Side: market.SideBid},
		{Price: 50, Size: 2, Side: market.SideAsk, Accepted: true},
		{Price: 45, Size: 1, Side: market.SideAsk},
	}

	tests := []struct {
		name string
		fn   func([]Entry, int, int) float64
		p    int
		want float64
	}{
		{"bid at domain min", bidAccept, 0, 0},
		{"bid at domain max", bidAccept, 200, 1},
		// taken: bid 40 + asks 45,50 (1+1+2); refused: bid 60
		{"bid at 55", bidAccept, 55, 4.0 / 5.0},
		// taken: none; refused: bid 60
		{"bid at 30", bidAccept, 30, 0},
		{"ask at domain min", askAccept, 0, 1},
		{"ask at domain max", askAccept, 200, 0},
		// taken: ask 50 (2) + bid 60; refused: ask 45
		{"ask at 48", askAccept, 48, 3.0 / 4.0},
		// nothing on either side
		{"ask at 100", askAccept, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(h, tt.p, 200); !near(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSpline(t *testing.T) {
	s, err := fitSpline(10, 30, 0.2, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(s.At(10), 0.2) || !near(s.At(30), 0.8) {
		t.Errorf("spline misses its knots: f(10)=%v f(30)=%v", s.At(10), s.At(30))
	}
	if !near(s.At(20), 0.5) {
		t.Errorf("expected midpoint 0.5, got %v", s.At(20))
	}
	// zero slope at both knots
	if math.Abs(s.At(11)-s.At(10)) > math.Abs(s.At(20)-s.At(19)) {
		t.Error("expected flatter slope at the knot than in the middle")
	}

	if _, err := fitSpline(5, 5, 0, 1); !errors.Is(err, ErrDegenerateFit) {
		t.Errorf("expected ErrDegenerateFit, got %v", err)
	}
}

func TestCurveShape(t *testing.T) {
	h := []Entry{
		{Price: 60, Size: 1, Side: market.SideBid, Accepted: true},
		{Price: 80, Size: 1, Side: market.SideBid},
		{Price: 70, Size: 1, Side: market.SideAsk, Accepted: true},
		{Price: 90, Size: 1, Side: market.SideAsk},
	}

	yb, err := bidCurve(h, 50, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(yb) != 201 {
		t.Fatalf("expected 201 prices, got %d", len(yb))
	}
	for p := 0; p <= 50; p++ {
		if yb[p] != 0 {
			t.Fatalf("expected 0 at or below best bid, got %v at %d", yb[p], p)
		}
	}
	if !near(yb[60], bidAccept(h, 60, 200)) || !near(yb[200], 1) {
		t.Errorf("expected exact estimates at knots, got %v and %v", yb[60], yb[200])
	}

	ya, err := askCurve(h, 85, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ya) != 201 {
		t.Fatalf("expected 201 prices, got %d", len(ya))
	}
	if !near(ya[0], 1) || !near(ya[70], askAccept(h, 70, 200)) {
		t.Errorf("unexpected ask knots %v, %v", ya[0], ya[70])
	}
	for p := 85; p <= 200; p++ {
		if ya[p] != 0 {
			t.Fatalf("expected 0 from best ask up, got %v at %d", ya[p], p)
		}
	}
}

func TestCurveIgnoresPricesOutsideDomain(t *testing.T) {
	c := newTestContext(1)
	var v view.Published
	v[market.GoodX][market.SideAsk] = quote(205)
	c.Observe(core.Order{ID: 1, Good: market.GoodX}, v)
	c.Observe(core.Order{ID: 2, Good: market.GoodX}, view.Published{})
	if h := c.History(market.GoodX); len(h) != 1 || h[0].Price != 205 || !h[0].Accepted {
		t.Fatalf("expected the hit ask at 205 in the history, got %+v", h)
	}

	v[market.GoodX][market.SideAsk] = quote(250)
	v[market.GoodX][market.SideBid] = quote(230)
	c.Observe(core.Order{ID: 3, Good: market.GoodX}, v)

	max := c.Config().DomainMax
	for _, s := range []market.Side{market.SideAsk, market.SideBid} {
		y, err := c.Curve(market.GoodX, s, v)
		if err != nil {
			t.Fatalf("%v curve: unexpected error: %v", s, err)
		}
		if len(y) != max+1 {
			t.Errorf("%v curve: expected %d prices, got %d", s, max+1, len(y))
		}
	}
}

func TestObserveRecordsOutcomes(t *testing.T) {
	c := newTestContext(1)
	var v view.Published

	v[market.GoodX][market.SideBid] = quote(40)
	if !c.Observe(core.Order{ID: 1, Good: market.GoodX}, v) {
		t.Fatal("expected first observation to be processed")
	}
	if len(c.History(market.GoodX)) != 0 {
		t.Fatal("a new quote on an empty cell says nothing yet")
	}

	v[market.GoodX][market.SideBid] = quote(45)
	c.Observe(core.Order{ID: 2, Good: market.GoodX}, v)

	v[market.GoodX][market.SideBid] = view.Quote{}
	c.Observe(core.Order{ID: 3, Good: market.GoodX}, v)
	if c.Observe(core.Order{ID: 3, Good: market.GoodX}, v) {
		t.Error("expected repeated observation of the same order to be ignored")
	}

	h := c.History(market.GoodX)
	if len(h) != 2 {
		t.Fatalf("expected 2 entries, got %+v", h)
	}
	if h[0].Price != 40 || h[0].Accepted || h[0].OrderID != 2 {
		t.Errorf("expected rejected bid 40, got %+v", h[0])
	}
	if h[1].Price != 45 || !h[1].Accepted || h[1].Side != market.SideBid {
		t.Errorf("expected accepted bid 45, got %+v", h[1])
	}
	if len(c.History(market.GoodY)) != 0 {
		t.Error("expected Y history untouched")
	}
}

func TestObserveIgnoresWorseQuote(t *testing.T) {
	c := newTestContext(1)
	var v view.Published
	v[market.GoodY][market.SideAsk] = quote(30)
	c.Observe(core.Order{ID: 1, Good: market.GoodY}, v)

	// a partial fill changes size, not price
	v[market.GoodY][market.SideAsk] = view.Quote{Price: 30, Size: 3, OK: true}
	c.Observe(core.Order{ID: 2, Good: market.GoodY}, v)
	if len(c.History(market.GoodY)) != 0 {
		t.Errorf("expected no entries, got %+v", c.History(market.GoodY))
	}
}

func TestEndPeriodForgetsBook(t *testing.T) {
	c := newTestContext(1)
	var v view.Published
	v[market.GoodX][market.SideBid] = quote(40)
	c.Observe(core.Order{ID: 1, Good: market.GoodX}, v)

	c.EndPeriod()
	c.Observe(core.Order{ID: 2, Good: market.GoodX}, view.Published{})
	if len(c.History(market.GoodX)) != 0 {
		t.Error("a cleared book must not be read as a trade")
	}
}

func TestEquilibriumFallback(t *testing.T) {
	c := newTestContext(7)
	for i := 0; i < 50; i++ {
		p, err := c.EquilibriumPrice(market.GoodY, view.Published{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p < 10 || p >= 40 {
			t.Fatalf("fallback %v outside [10, 40)", p)
		}
	}
	if eq := c.Equilibrium(market.GoodX); eq < 20 || eq >= 80 {
		t.Errorf("initial X equilibrium %v outside [20, 80)", eq)
	}
}

func TestEquilibriumFromHistory(t *testing.T) {
	c := newTestContext(1)
	for i := 0; i < 10; i++ {
		c.hist[market.GoodX] = append(c.hist[market.GoodX], Entry{Price: 50, Size: 1, Side: market.SideBid, Accepted: true})
	}
	for i := 0; i < 5; i++ {
		c.hist[market.GoodX] = append(c.hist[market.GoodX], Entry{Price: 50, Size: 1, Side: market.SideAsk, Accepted: true})
	}

	p, err := c.EquilibriumPrice(market.GoodX, view.Published{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 50 {
		t.Errorf("expected equilibrium 50, got %v", p)
	}
}

func TestUnwindProbability(t *testing.T) {
	c := newTestContext(1)
	c.hist[market.GoodX] = []Entry{
		{Price: 50, Size: 1, Side: market.SideBid, Accepted: true},
		{Price: 55, Size: 1, Side: market.SideAsk, Accepted: true},
	}
	prob, err := c.UnwindProbability(market.GoodX, market.SideBid, view.Published{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prob) != 201 {
		t.Fatalf("expected 201 prices, got %d", len(prob))
	}
	for p, v := range prob {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Fatalf("probability %v at %d out of range", v, p)
		}
	}
	if prob[0] != 0 {
		t.Errorf("a bid at 0 never trades, got %v", prob[0])
	}
	if !near(prob[200], 1) {
		t.Errorf("a bid at the top always trades first, got %v", prob[200])
	}
}

package belief

import (
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
)

// bidCurve returns acceptance probabilities for bids at 0..max. Prices at
// or below the best bid are 0; observed bid prices above it carry their
// estimate and gaps are splined, starting from the best bid.
func bidCurve(h []Entry, bestBid, max int) ([]float64, error) {
	y := make([]float64, max+1)
	knots := prices(h, market.SideBid, func(p int) bool { return p > bestBid && p < max })
	if bestBid < max {
		knots = append(knots, max)
	}

	prevX, prevY := bestBid, bidAccept(h, bestBid, max)
	for _, k := range knots {
		yk := bidAccept(h, k, max)
		if err := fillGap(y, prevX, k, prevY, yk); err != nil {
			return nil, err
		}
		y[k] = yk
		prevX, prevY = k, yk
	}
	return y, nil
}

// askCurve returns acceptance probabilities for asks at 0..max. It is
// splined up from 0 through the observed ask prices below the best ask,
// then 0 from the best ask upward.
func askCurve(h []Entry, bestAsk, max int) ([]float64, error) {
	y := make([]float64, max+1)
	knots := prices(h, market.SideAsk, func(p int) bool { return p > 0 && p < bestAsk && p <= max })

	prevX, prevY := 0, askAccept(h, 0, max)
	y[0] = prevY
	for _, k := range knots {
		yk := askAccept(h, k, max)
		if err := fillGap(y, prevX, k, prevY, yk); err != nil {
			return nil, err
		}
		y[k] = yk
		prevX, prevY = k, yk
	}
	if bestAsk > 0 && bestAsk <= max {
		if err := fillGap(y, prevX, bestAsk, prevY, askAccept(h, bestAsk, max)); err != nil {
			return nil, err
		}
	}
	return y, nil
}

// fillGap writes the spline from (a0, p0) to (a1, p1) into y at the
// integer prices strictly between a0 and a1.
func fillGap(y []float64, a0, a1 int, p0, p1 float64) error {
	if a1-a0 <= 1 {
		return nil
	}
	s, err := fitSpline(a0, a1, p0, p1)
	if err != nil {
		return err
	}
	for x := a0 + 1; x < a1; x++ {
		y[x] = s.At(x)
	}
	return nil
}

// bestPrices reads the best bid (0 if none) and best ask (max if none),
// both clamped to the domain 0..max.
func bestPrices(v view.Published, g market.Good, max int) (int, int) {
	bid := int(v.Bid(g).PriceOr(0))
	ask := int(v.Ask(g).PriceOr(core.PriceTicks(max)))
	return min(bid, max), min(ask, max)
}

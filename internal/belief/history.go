package belief

import (
	"slices"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
)

// Entry is one observed quote: a cell that was improved on (rejected) or
// that vanished from the book (accepted).
type Entry struct {
	Price    core.PriceTicks
	Size     core.Size
	Accepted bool
	Side     market.Side
	// OrderID is the order whose processing revealed the outcome.
	OrderID core.OrderID
}

// trim keeps at most memory accepted entries: once exceeded, everything
// up to and including the oldest accepted entry is forgotten.
func trim(h []Entry, memory int) []Entry {
	n := 0
	first := -1
	for i, e := range h {
		if e.Accepted {
			if first < 0 {
				first = i
			}
			n++
		}
	}
	if n <= memory {
		return h
	}
	return append([]Entry(nil), h[first+1:]...)
}

// count returns the number of entries on side s.
func count(h []Entry, s market.Side) int {
	n := 0
	for _, e := range h {
		if e.Side == s {
			n++
		}
	}
	return n
}

// prices returns the sorted distinct prices observed on side s that keep
// returns true for.
func prices(h []Entry, s market.Side, keep func(int) bool) []int {
	seen := make(map[int]struct{})
	for _, e := range h {
		p := int(e.Price)
		if e.Side == s && keep(p) {
			seen[p] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

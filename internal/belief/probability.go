package belief

import "github.com/zappabad/cdamarket/internal/market"

// bidAccept estimates the probability a bid at p trades: accepted bids
// and all asks at or below p, against rejected bids at or above p.
func bidAccept(h []Entry, p, domainMax int) float64 {
	switch p {
	case 0:
		return 0
	case domainMax:
		return 1
	}
	var taken, refused float64
	for _, e := range h {
		q, sz := int(e.Price), float64(e.Size)
		switch {
		case e.Side == market.SideBid && e.Accepted && q <= p:
			taken += sz
		case e.Side == market.SideAsk && q <= p:
			taken += sz
		case e.Side == market.SideBid && !e.Accepted && q >= p:
			refused += sz
		}
	}
	if taken+refused == 0 {
		return 0
	}
	return taken / (taken + refused)
}

// askAccept is the mirror image of bidAccept.
func askAccept(h []Entry, p, domainMax int) float64 {
	switch p {
	case 0:
		return 1
	case domainMax:
		return 0
	}
	var taken, refused float64
	for _, e := range h {
		q, sz := int(e.Price), float64(e.Size)
		switch {
		case e.Side == market.SideAsk && e.Accepted && q >= p:
			taken += sz
		case e.Side == market.SideBid && q >= p:
			taken += sz
		case e.Side == market.SideAsk && !e.Accepted && q <= p:
			refused += sz
		}
	}
	if taken+refused == 0 {
		return 0
	}
	return taken / (taken + refused)
}

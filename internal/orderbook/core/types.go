package core

import (
	"strconv"

	"github.com/zappabad/cdamarket/internal/market"
)

// PriceTicks represents price in integer ticks.
type PriceTicks int64

func (p PriceTicks) String() string { return strconv.FormatInt(int64(p), 10) }

// Size represents order quantity.
type Size int64

func (s Size) String() string { return strconv.FormatInt(int64(s), 10) }

// OrderID uniquely identifies an order within a simulation.
type OrderID int64

// TraderID identifies the trader who placed the order.
type TraderID int64

// Order is an input/value object (safe to pass around).
// Book keeps its own copy of resting orders, not this.
type Order struct {
	ID       OrderID
	TraderID TraderID
	Good     market.Good
	Side     market.Side
	Price    PriceTicks
	Size     Size
	Time     int64 // timestep the order was created at

	// Strategic marks the first leg of an arbitrage plan; Target is the
	// price its unwind leg is meant to rest at.
	Strategic bool
	Target    PriceTicks
	// Arbitrage marks the unwind leg of an arbitrage plan.
	Arbitrage bool
}

// Improves reports whether o strictly improves on the resting order r
// of the same side. Ties never improve.
func (o Order) Improves(r Order) bool {
	if o.Side == market.SideBid {
		return o.Price > r.Price
	}
	return o.Price < r.Price
}

// Notional returns price times size.
func (o Order) Notional() int64 { return int64(o.Price) * int64(o.Size) }

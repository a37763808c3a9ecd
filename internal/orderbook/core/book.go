package core

import "github.com/zappabad/cdamarket/internal/market"

// cell is one (good, side) slot of the depth-one book.
type cell struct {
	order Order
	ok    bool
}

type cells [len(market.Goods)][2]cell

func (c *cells) at(g market.Good, s market.Side) *cell {
	return &c[g][s]
}

func restedEvent(o Order) OrderRestedEvent {
	return OrderRestedEvent{
		OrderID: o.ID, TraderID: o.TraderID, Good: o.Good, Side: o.Side,
		Price: o.Price, Size: o.Size, Time: o.Time,
	}
}

func removedEvent(o Order, reason RemoveReason) OrderRemovedEvent {
	rem := o.Size
	if reason == RemoveReasonFilled {
		rem = 0
	}
	return OrderRemovedEvent{
		OrderID: o.ID, Reason: reason, Remaining: rem, Good: o.Good,
		Side: o.Side, Price: o.Price, TraderID: o.TraderID,
	}
}

var sides = [...]market.Side{market.SideBid, market.SideAsk}

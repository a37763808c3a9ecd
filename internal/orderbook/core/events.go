package core

import "github.com/zappabad/cdamarket/internal/market"

// Event is the interface for all orderbook events.
type Event interface {
	isEvent()
}

// RemoveReason indicates why an order was removed from the book.
type RemoveReason uint8

const (
	RemoveReasonFilled RemoveReason = iota
	// RemoveReasonDisplaced: a strictly better order took the cell.
	RemoveReasonDisplaced
	// RemoveReasonEvicted: the owner could no longer honour the order.
	RemoveReasonEvicted
	RemoveReasonCleared
)

func (r RemoveReason) String() string {
	switch r {
	case RemoveReasonFilled:
		return "FILLED"
	case RemoveReasonDisplaced:
		return "DISPLACED"
	case RemoveReasonEvicted:
		return "EVICTED"
	case RemoveReasonCleared:
		return "CLEARED"
	default:
		return "UNKNOWN"
	}
}

// TradeEvent is emitted when a trade occurs.
type TradeEvent struct {
	Good      market.Good
	Price     PriceTicks
	Size      Size
	TakerSide market.Side
	Time      int64
	Arbitrage bool

	TakerOrderID  OrderID
	TakerTraderID TraderID
	MakerOrderID  OrderID
	MakerTraderID TraderID
}

func (TradeEvent) isEvent() {}

// OrderRestedEvent is emitted when an order takes a book cell.
type OrderRestedEvent struct {
	OrderID  OrderID
	TraderID TraderID
	Good     market.Good
	Side     market.Side
	Price    PriceTicks
	Size     Size
	Time     int64
}

func (OrderRestedEvent) isEvent() {}

// OrderReducedEvent is emitted when a resting order is partially filled.
type OrderReducedEvent struct {
	OrderID   OrderID
	Delta     Size // negative number (e.g. -5)
	Remaining Size
	Good      market.Good
	Side      market.Side
	Price     PriceTicks
	TraderID  TraderID
}

func (OrderReducedEvent) isEvent() {}

// OrderRemovedEvent is emitted when an order leaves its cell.
type OrderRemovedEvent struct {
	OrderID   OrderID
	Reason    RemoveReason
	Remaining Size // size left at removal (0 for filled)
	Good      market.Good
	Side      market.Side
	Price     PriceTicks
	TraderID  TraderID
}

func (OrderRemovedEvent) isEvent() {}

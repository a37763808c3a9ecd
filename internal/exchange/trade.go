package exchange

import (
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
)

// Trade is the record of one fill. The buyer pays Price*Size to the seller.
type Trade struct {
	Time   int64
	Period int
	Run    int

	Buyer  core.TraderID
	Seller core.TraderID
	Good   market.Good
	Price  core.PriceTicks
	Size   core.Size

	// Arbitrage mirrors the maker order's arbitrage flag.
	Arbitrage bool

	// Taker submitted the incoming order; Maker owned the resting one.
	Taker        core.TraderID
	Maker        core.TraderID
	TakerOrderID core.OrderID
	MakerOrderID core.OrderID
}

// Value returns the money that changes hands.
func (t Trade) Value() int64 { return int64(t.Price) * int64(t.Size) }

// Event returns the trade as a book event.
func (t Trade) Event(takerSide market.Side) core.TradeEvent {
	return core.TradeEvent{
		Good: t.Good, Price: t.Price, Size: t.Size, TakerSide: takerSide,
		Time: t.Time, Arbitrage: t.Arbitrage,
		TakerOrderID: t.TakerOrderID, TakerTraderID: t.Taker,
		MakerOrderID: t.MakerOrderID, MakerTraderID: t.Maker,
	}
}

// TakerSide returns the side of the incoming order.
func (t Trade) TakerSide() market.Side {
	if t.Taker == t.Buyer {
		return market.SideBid
	}
	return market.SideAsk
}

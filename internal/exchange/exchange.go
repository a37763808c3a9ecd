package exchange

import (
	"fmt"

	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
)

// Ledger exposes the balances the exchange needs to validate orders.
// The exchange never changes balances; settlement is the caller's job.
type Ledger interface {
	Money(id core.TraderID) int64
	Holding(id core.TraderID, g market.Good) int64
}

// Result reports what happened to a processed order.
type Result struct {
	Accepted bool
	// Trade is set when the order crossed the book.
	Trade *Trade
	// Evicted is set when a stale resting order was dropped on the way.
	Evicted *core.Order
}

// Exchange validates incoming orders, matches them against the depth-one
// book and publishes the anonymized view. Not safe for concurrent use;
// the published snapshot is.
type Exchange struct {
	cfg    Config
	book   *core.Book
	view   *view.BookView
	ledger Ledger
}

// New creates an Exchange reading balances from ledger.
func New(cfg Config, ledger Ledger) *Exchange {
	return &Exchange{
		cfg:    cfg,
		book:   core.NewBook(),
		view:   view.NewBookView(cfg.TapeCapacity),
		ledger: ledger,
	}
}

// Publish returns the current anonymized view.
func (e *Exchange) Publish() view.Published { return e.view.Snapshot() }

// View returns the book view, including the trade tape.
func (e *Exchange) View() *view.BookView { return e.view }

// Resting returns copies of the resting orders.
func (e *Exchange) Resting() []core.Order { return e.book.Resting() }

// Reset empties the book and the view.
func (e *Exchange) Reset() {
	e.book.Clear()
	e.view.Reset()
}

// Process handles one order at the given clock. A false Accepted with a
// nil error is a routine rejection; errors are fatal.
func (e *Exchange) Process(o core.Order, time int64, period, run int) (Result, error) {
	if !o.Side.Valid() {
		return Result{}, fmt.Errorf("process order %d: %w: %d", o.ID, market.ErrInvalidSide, o.Side)
	}
	if !o.Good.Valid() || o.Size <= 0 {
		return Result{}, fmt.Errorf("process order %d: %w", o.ID, core.ErrInvalidOrder)
	}
	if o.Price <= e.cfg.MinPrice || o.Price >= e.cfg.MaxPrice {
		return Result{}, nil
	}

	if o.Side == market.SideAsk {
		return e.processAsk(o, time, period, run)
	}
	return e.processBid(o, time, period, run)
}

func (e *Exchange) processAsk(o core.Order, time int64, period, run int) (Result, error) {
	if e.ledger.Holding(o.TraderID, o.Good) < int64(o.Size) {
		return Result{}, nil
	}
	best, ok := e.book.Best(o.Good, market.SideBid)
	if !ok || o.Price > best.Price {
		return e.admit(o)
	}
	if best.Notional() > e.ledger.Money(best.TraderID) {
		return e.evictAndAdmit(o, best)
	}
	return e.fill(o, best, time, period, run)
}

func (e *Exchange) processBid(o core.Order, time int64, period, run int) (Result, error) {
	if o.Notional() > e.ledger.Money(o.TraderID) {
		return Result{}, nil
	}
	best, ok := e.book.Best(o.Good, market.SideAsk)
	if !ok || o.Price < best.Price {
		return e.admit(o)
	}
	if int64(min(o.Size, best.Size)) > e.ledger.Holding(best.TraderID, o.Good) {
		return e.evictAndAdmit(o, best)
	}
	return e.fill(o, best, time, period, run)
}

func (e *Exchange) admit(o core.Order) (Result, error) {
	ok, evs, err := e.book.Admit(o)
	if err != nil {
		return Result{}, err
	}
	e.view.ApplyAll(evs)
	return Result{Accepted: ok}, nil
}

func (e *Exchange) evictAndAdmit(o, stale core.Order) (Result, error) {
	_, evs, err := e.book.Evict(stale.Good, stale.Side)
	if err != nil {
		return Result{}, err
	}
	e.view.ApplyAll(evs)
	res, err := e.admit(o)
	res.Evicted = &stale
	return res, err
}

// fill trades the taker against the resting maker at the maker's price.
// Taker size beyond the maker's size is dropped, not rested.
func (e *Exchange) fill(taker, maker core.Order, time int64, period, run int) (Result, error) {
	size := min(taker.Size, maker.Size)
	_, evs, err := e.book.Fill(maker.Good, maker.Side, size)
	if err != nil {
		return Result{}, err
	}

	tr := &Trade{
		Time: time, Period: period, Run: run,
		Good: taker.Good, Price: maker.Price, Size: size,
		Arbitrage:    maker.Arbitrage,
		Taker:        taker.TraderID,
		Maker:        maker.TraderID,
		TakerOrderID: taker.ID,
		MakerOrderID: maker.ID,
	}
	if taker.Side == market.SideBid {
		tr.Buyer, tr.Seller = taker.TraderID, maker.TraderID
	} else {
		tr.Buyer, tr.Seller = maker.TraderID, taker.TraderID
	}

	e.view.Apply(tr.Event(taker.Side))
	e.view.ApplyAll(evs)
	return Result{Accepted: true, Trade: tr}, nil
}

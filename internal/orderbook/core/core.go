package core

import (
	"errors"
	"fmt"

	"github.com/zappabad/cdamarket/internal/market"
)

var (
	ErrInvalidOrder = errors.New("invalid order")
	ErrEmptyCell    = errors.New("no resting order")
)

// Book is a depth-one limit order book: at most one resting order per
// (good, side). It is deterministic and has no goroutines, mutexes,
// channels, or time calls.
type Book struct {
	c cells
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{}
}

func validate(o Order) error {
	if !o.Side.Valid() {
		return fmt.Errorf("%w: %d", market.ErrInvalidSide, o.Side)
	}
	if !o.Good.Valid() {
		return ErrInvalidOrder
	}
	if o.Size <= 0 {
		return ErrInvalidOrder
	}
	return nil
}

// Best returns the resting order for (g, s), if any.
func (b *Book) Best(g market.Good, s market.Side) (Order, bool) {
	c := b.c.at(g, s)
	return c.order, c.ok
}

// Admit places o into its cell if the cell is empty or o strictly improves
// the resting order. A displaced order is dropped. Returns false, without
// events, when o does not improve the cell.
func (b *Book) Admit(o Order) (bool, []Event, error) {
	if err := validate(o); err != nil {
		return false, nil, err
	}
	c := b.c.at(o.Good, o.Side)
	var evs []Event
	if c.ok {
		if !o.Improves(c.order) {
			return false, nil, nil
		}
		evs = append(evs, removedEvent(c.order, RemoveReasonDisplaced))
	}
	c.order, c.ok = o, true
	evs = append(evs, restedEvent(o))
	return true, evs, nil
}

// Fill takes size from the resting order at (g, s). A partial fill reduces
// the order in place; a full fill empties the cell. Returns the resting
// order as it was before the fill.
func (b *Book) Fill(g market.Good, s market.Side, size Size) (Order, []Event, error) {
	c := b.c.at(g, s)
	if !c.ok {
		return Order{}, nil, ErrEmptyCell
	}
	maker := c.order
	if size >= maker.Size {
		c.ok = false
		c.order = Order{}
		return maker, []Event{removedEvent(maker, RemoveReasonFilled)}, nil
	}
	c.order.Size -= size
	return maker, []Event{OrderReducedEvent{
		OrderID: maker.ID, Delta: -size, Remaining: c.order.Size,
		Good: g, Side: s, Price: maker.Price, TraderID: maker.TraderID,
	}}, nil
}

// Evict removes the resting order at (g, s) because its owner can no
// longer honour it.
func (b *Book) Evict(g market.Good, s market.Side) (Order, []Event, error) {
	c := b.c.at(g, s)
	if !c.ok {
		return Order{}, nil, ErrEmptyCell
	}
	o := c.order
	c.ok = false
	c.order = Order{}
	return o, []Event{removedEvent(o, RemoveReasonEvicted)}, nil
}

// Clear empties every cell.
func (b *Book) Clear() []Event {
	var evs []Event
	for _, g := range market.Goods {
		for _, s := range sides {
			c := b.c.at(g, s)
			if c.ok {
				evs = append(evs, removedEvent(c.order, RemoveReasonCleared))
				c.ok = false
				c.order = Order{}
			}
		}
	}
	return evs
}

// Resting returns copies of all resting orders, goods then bid before ask.
func (b *Book) Resting() []Order {
	var out []Order
	for _, g := range market.Goods {
		for _, s := range sides {
			if c := b.c.at(g, s); c.ok {
				out = append(out, c.order)
			}
		}
	}
	return out
}

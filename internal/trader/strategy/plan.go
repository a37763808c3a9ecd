package strategy

import (
	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
)

// PlanState is the stage of a two-leg arbitrage plan.
type PlanState uint8

const (
	// PlanIdle: no plan.
	PlanIdle PlanState = iota
	// PlanLegOnePending: the strategic order was handed to the exchange.
	PlanLegOnePending
	// PlanLegTwoQueued: the strategic order traded; the unwind goes next.
	PlanLegTwoQueued
	// PlanAwaitingUnwind: the unwind order was submitted and waits for a fill.
	PlanAwaitingUnwind
)

func (s PlanState) String() string {
	switch s {
	case PlanIdle:
		return "IDLE"
	case PlanLegOnePending:
		return "LEG_ONE_PENDING"
	case PlanLegTwoQueued:
		return "LEG_TWO_QUEUED"
	case PlanAwaitingUnwind:
		return "AWAITING_UNWIND"
	default:
		return "UNKNOWN"
	}
}

// ArbitrageRecord describes a completed plan: the unwind trade plus what
// the strategic leg looked like.
type ArbitrageRecord struct {
	Trade         exchange.Trade
	OriginalPrice core.PriceTicks
	Profit        int64
	WaitTime      int64
	TargetPrice   core.PriceTicks
}

type plan struct {
	state     PlanState
	strategic core.Order
	unwind    core.Order
}

// complete turns the unwind trade tr into a record and clears the plan.
func (p *plan) complete(tr exchange.Trade) ArbitrageRecord {
	rec := ArbitrageRecord{
		Trade:         tr,
		OriginalPrice: p.strategic.Price,
		WaitTime:      tr.Time - p.strategic.Time,
		TargetPrice:   p.strategic.Target,
	}
	if p.strategic.Side == market.SideAsk {
		rec.Profit = int64(p.strategic.Price - tr.Price)
	} else {
		rec.Profit = int64(tr.Price - p.strategic.Price)
	}
	*p = plan{}
	return rec
}

// abandon clears the plan and returns the strategic order it held.
func (p *plan) abandon() core.Order {
	o := p.strategic
	*p = plan{}
	return o
}

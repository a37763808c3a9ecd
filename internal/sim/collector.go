package sim

import (
	"github.com/google/uuid"

	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/results"
	"github.com/zappabad/cdamarket/internal/trader"
	"github.com/zappabad/cdamarket/internal/trader/strategy"
)

// collector accumulates result records across runs.
type collector struct {
	experiment uuid.UUID
	algos      []string

	run int
	// utilRun is the utility series of the current run; utilAvg the
	// series averaged over finished runs, index-aligned with it.
	utilRun []results.UtilityRecord
	utilAvg []results.UtilityRecord

	trades    []results.TradeRecord
	byTaker   map[core.OrderID]int
	excessRec []results.ExcessRecord
	arbRec    []results.ArbitrageRecord
	rejRec    []results.RejectedRecord
}

func newCollector(exp uuid.UUID, algos []string) *collector {
	return &collector{experiment: exp, algos: algos}
}

func (c *collector) beginRun(run int) {
	c.run = run
	c.utilRun = nil
	c.byTaker = make(map[core.OrderID]int)
}

func (c *collector) endRun() {
	if c.utilAvg == nil || len(c.utilAvg) != len(c.utilRun) {
		c.utilAvg = c.utilRun
	} else {
		n := float64(c.run)
		for i := range c.utilRun {
			c.utilRun[i].AvgUtil = onlineAverage(c.utilAvg[i].AvgUtil, c.utilRun[i].AvgUtil, n)
		}
		c.utilAvg = c.utilRun
	}
	c.utilRun = nil
}

// onlineAverage folds the n-th observation x into avg.
func onlineAverage(avg, x, n float64) float64 {
	return avg*((n-1)/n) + x/n
}

// utility appends and returns the averages per (algorithm, type).
func (c *collector) utility(traders population, time int64, period int) []results.UtilityRecord {
	start := len(c.utilRun)
	for _, algo := range c.algos {
		for _, typ := range trader.Archetypes {
			var sum float64
			var n int
			for _, p := range traders {
				if p.acct.Algo == algo && p.acct.Type == typ {
					sum += p.acct.Utility()
					n++
				}
			}
			if n == 0 {
				continue
			}
			c.utilRun = append(c.utilRun, results.UtilityRecord{
				AvgUtil: sum / float64(n),
				Algo:    algo,
				Type:    int(typ),
				Time:    time,
				Period:  period,
			})
		}
	}
	out := make([]results.UtilityRecord, len(c.utilRun)-start)
	copy(out, c.utilRun[start:])
	return out
}

func (c *collector) trade(tr exchange.Trade, buyer, seller *trader.Account) {
	c.byTaker[tr.TakerOrderID] = len(c.trades)
	c.trades = append(c.trades, tradeRecord(tr, buyer, seller))
}

func tradeRecord(tr exchange.Trade, buyer, seller *trader.Account) results.TradeRecord {
	return results.TradeRecord{
		Time:          tr.Time,
		Period:        tr.Period,
		Run:           tr.Run,
		BuyerID:       int64(tr.Buyer),
		SellerID:      int64(tr.Seller),
		Price:         int64(tr.Price),
		Quantity:      int64(tr.Size),
		Good:          tr.Good.String(),
		Arbitrage:     tr.Arbitrage,
		TakerID:       int64(tr.Taker),
		MakerID:       int64(tr.Maker),
		BuyerAlgo:     buyer.Algo,
		BuyerUtil:     buyer.Utility(),
		BuyerBalance:  buyer.Balance(),
		SellerAlgo:    seller.Algo,
		SellerUtil:    seller.Utility(),
		SellerBalance: seller.Balance(),
	}
}

func (c *collector) excess(a *trader.Account, period, run int) {
	e := a.Excess()
	c.excessRec = append(c.excessRec, results.ExcessRecord{
		Money:    e.Money,
		X:        e.X,
		Y:        e.Y,
		TraderID: int64(a.ID),
		Algo:     a.Algo,
		Type:     int(a.Type),
		Period:   period,
		Run:      run,
	})
}

// arbitrage collects the finished and failed plans of g for the run.
func (c *collector) arbitrage(g *strategy.GDZ, run int) {
	for _, r := range g.Completed() {
		rec := results.ArbitrageRecord{
			OriginalPrice: int64(r.OriginalPrice),
			Profit:        r.Profit,
			WaitTime:      r.WaitTime,
			TargetPrice:   int64(r.TargetPrice),
		}
		if i, ok := c.byTaker[r.Trade.TakerOrderID]; ok {
			rec.TradeRecord = c.trades[i]
		}
		c.arbRec = append(c.arbRec, rec)
	}
	for _, o := range g.Rejected() {
		c.rejRec = append(c.rejRec, results.RejectedRecord{
			OrderID:  int64(o.ID),
			TraderID: int64(o.TraderID),
			Side:     o.Side.String(),
			Good:     o.Good.String(),
			Price:    int64(o.Price),
			Target:   int64(o.Target),
			Time:     o.Time,
			Run:      run,
		})
	}
}

func (c *collector) set() *results.Set {
	util := c.utilAvg
	if util == nil {
		util = c.utilRun
	}
	return &results.Set{
		Experiment: c.experiment,
		Utility:    append([]results.UtilityRecord(nil), util...),
		Trades:     append([]results.TradeRecord(nil), c.trades...),
		Excess:     append([]results.ExcessRecord(nil), c.excessRec...),
		Arbitrage:  append([]results.ArbitrageRecord(nil), c.arbRec...),
		Rejected:   append([]results.RejectedRecord(nil), c.rejRec...),
	}
}

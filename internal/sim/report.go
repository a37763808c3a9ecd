package sim

import (
	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/market"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/internal/results"
)

// StepReport summarizes one timestep.
type StepReport struct {
	Run    int
	Period int
	Time   int64

	// Orders counts orders handed to the exchange, follow-ups included.
	Orders   int
	Accepted int
	Trades   []exchange.Trade

	// Utility holds the average utility per (algorithm, type) at the
	// start of the step.
	Utility []results.UtilityRecord

	// Book is the published view after the step.
	Book view.Published
	// Equilibrium is the shared belief estimate per good after the step.
	Equilibrium [len(market.Goods)]float64
}

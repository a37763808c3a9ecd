package strategy

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/zappabad/cdamarket/internal/belief"
	"github.com/zappabad/cdamarket/internal/exchange"
	"github.com/zappabad/cdamarket/internal/orderbook/core"
	"github.com/zappabad/cdamarket/internal/orderbook/view"
	"github.com/zappabad/cdamarket/internal/trader"
)

// ErrUnknownAlgorithm is returned for an algorithm name with no strategy.
var ErrUnknownAlgorithm = errors.New("unknown trading algorithm")

// Algorithm names.
const (
	AlgoZI  = "ZI"
	AlgoZIP = "ZIP"
	AlgoEGD = "eGD"
	AlgoGDZ = "GDZ"
)

// Strategy is what the driver calls on every trader each timestep.
type Strategy interface {
	// ChooseAction is called for every trader before anyone acts.
	ChooseAction(v view.Published)
	// GetOrder returns the order to submit now, or nil.
	GetOrder(time int64, v view.Published) *core.Order
	// Respond is called on every trader after any accepted order o.
	Respond(time int64, v view.Published, o core.Order)
}

// OutcomeObserver is told how its own orders were processed.
type OutcomeObserver interface {
	OnProcessed(o core.Order, res exchange.Result)
}

// TradeObserver is told about trades it took part in, after bookkeeping.
type TradeObserver interface {
	OnTrade(tr exchange.Trade)
}

// FollowUpper may submit a second order right after its own order traded.
type FollowUpper interface {
	FollowUp(time int64, v view.Published) *core.Order
}

// PeriodResetter runs at every period boundary, after balances reset.
type PeriodResetter interface {
	ResetPeriod()
}

// Deps are the collaborators a strategy may need.
type Deps struct {
	Rng    *rand.Rand
	Belief *belief.Context
	Config Config
}

// New builds the strategy named algo for acct.
func New(algo string, acct *trader.Account, deps Deps) (Strategy, error) {
	switch algo {
	case AlgoZI:
		return NewZI(acct, deps.Config.ZI, deps.Rng), nil
	case AlgoZIP:
		return NewZIP(acct, deps.Config.ZIP, deps.Rng), nil
	case AlgoEGD:
		if deps.Belief == nil {
			return nil, fmt.Errorf("%s needs a belief context", algo)
		}
		return NewEGD(acct, deps.Config.EGD, deps.Belief, deps.Rng), nil
	case AlgoGDZ:
		if deps.Belief == nil {
			return nil, fmt.Errorf("%s needs a belief context", algo)
		}
		return NewGDZ(acct, deps.Config, deps.Belief, deps.Rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
}

// roundPrice rounds half to even.
func roundPrice(x float64) core.PriceTicks {
	return core.PriceTicks(math.RoundToEven(x))
}

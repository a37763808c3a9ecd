package trader

import (
	"errors"
	"fmt"

	"github.com/zappabad/cdamarket/internal/market"
)

var (
	ErrInvalidTraderType = errors.New("invalid trader type")
	ErrTradeAttribution  = errors.New("trader was not involved in this trade")
	ErrNegativeBalance   = errors.New("negative balance")
)

// Archetype fixes a trader's endowment and the two assets it values.
type Archetype int

const (
	// Type1 holds X and values money and Y.
	Type1 Archetype = 1
	// Type2 holds Y and values money and X.
	Type2 Archetype = 2
	// Type3 holds money and values X and Y.
	Type3 Archetype = 3
)

// Archetypes lists the archetypes in roster order.
var Archetypes = [...]Archetype{Type1, Type2, Type3}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool { return a >= Type1 && a <= Type3 }

// Values returns the two assets whose minimum gives the utility.
func (a Archetype) Values() (market.Asset, market.Asset) {
	switch a {
	case Type1:
		return market.AssetMoney, market.AssetY
	case Type2:
		return market.AssetMoney, market.AssetX
	default:
		return market.AssetX, market.AssetY
	}
}

// Unvalued returns the asset that adds nothing to utility.
func (a Archetype) Unvalued() market.Asset {
	switch a {
	case Type1:
		return market.AssetX
	case Type2:
		return market.AssetY
	default:
		return market.AssetMoney
	}
}

// ValuesGood reports whether good g enters the utility of a.
func (a Archetype) ValuesGood(g market.Good) bool {
	return a.Unvalued() != market.AssetOf(g)
}

func (a Archetype) String() string { return fmt.Sprintf("type %d", int(a)) }

// Balance is a trader's holding of money and goods.
type Balance struct {
	Money int64 `json:"money"`
	X     int64 `json:"x"`
	Y     int64 `json:"y"`
}

// Get returns the amount held of asset a.
func (b Balance) Get(a market.Asset) int64 {
	switch a {
	case market.AssetMoney:
		return b.Money
	case market.AssetX:
		return b.X
	default:
		return b.Y
	}
}

// Holding returns the amount held of good g.
func (b Balance) Holding(g market.Good) int64 { return b.Get(market.AssetOf(g)) }

// add moves n units of good g in and pays price*n (n may be negative).
func (b *Balance) add(g market.Good, n, value int64) {
	if g == market.GoodX {
		b.X += n
	} else {
		b.Y += n
	}
	b.Money -= value
}

// Negative reports whether any entry is below zero.
func (b Balance) Negative() bool { return b.Money < 0 || b.X < 0 || b.Y < 0 }

// Excess is the amount of each asset a trader could give away without
// losing utility.
type Excess struct {
	Money float64 `json:"money"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (e *Excess) add(a market.Asset, v float64) {
	switch a {
	case market.AssetMoney:
		e.Money += v
	case market.AssetX:
		e.X += v
	default:
		e.Y += v
	}
}

// Action is one (side, good) choice, or the do-nothing choice.
type Action struct {
	Noop bool
	Side market.Side
	Good market.Good
}

// DoNothing is the idle choice.
var DoNothing = Action{Noop: true}

func (a Action) String() string {
	if a.Noop {
		return "do nothing"
	}
	return a.Side.String() + " " + a.Good.String()
}

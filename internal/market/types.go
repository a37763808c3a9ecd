package market

import (
	"errors"
	"strconv"
)

// ErrInvalidSide is returned when an order carries a side other than bid or ask.
var ErrInvalidSide = errors.New("invalid order side")

// Good identifies a tradeable good. Money is the numeraire and is not a Good.
type Good uint8

const (
	GoodX Good = iota
	GoodY
)

// Goods lists every tradeable good in a stable order.
var Goods = [...]Good{GoodX, GoodY}

func (g Good) String() string {
	switch g {
	case GoodX:
		return "X"
	case GoodY:
		return "Y"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether g is a known good.
func (g Good) Valid() bool { return g == GoodX || g == GoodY }

// ParseGood parses "X" or "Y" (case-insensitive).
func ParseGood(s string) (Good, error) {
	switch s {
	case "X", "x":
		return GoodX, nil
	case "Y", "y":
		return GoodY, nil
	}
	return 0, errors.New("unknown good " + strconv.Quote(s))
}

// Asset identifies a balance entry: money or one of the goods.
type Asset uint8

const (
	AssetMoney Asset = iota
	AssetX
	AssetY
)

func (a Asset) String() string {
	switch a {
	case AssetMoney:
		return "money"
	case AssetX:
		return "X"
	case AssetY:
		return "Y"
	default:
		return "UNKNOWN"
	}
}

// AssetOf returns the balance entry holding good g.
func AssetOf(g Good) Asset {
	if g == GoodY {
		return AssetY
	}
	return AssetX
}

// Side represents the order side: bid or ask.
type Side uint8

const (
	SideBid Side = iota
	SideAsk
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is bid or ask.
func (s Side) Valid() bool { return s == SideBid || s == SideAsk }

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

package trader

// Config holds the endowment and utility scales shared by every account.
type Config struct {
	// Endowments per archetype, indexed by Archetype-1.
	Endowments [3]Balance
	// Scale divides each asset in the Leontief utility.
	Scale Scale
}

// Scale is the per-asset utility normalizer.
type Scale struct {
	Money float64
	X     float64
	Y     float64
}

// DefaultConfig returns the classic three-archetype economy.
func DefaultConfig() Config {
	return Config{
		Endowments: [3]Balance{
			{Money: 0, X: 10, Y: 0},
			{Money: 0, X: 0, Y: 20},
			{Money: 400, X: 0, Y: 0},
		},
		Scale: Scale{Money: 400, X: 10, Y: 20},
	}
}

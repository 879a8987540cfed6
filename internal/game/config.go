package game

import "fmt"

// Config carries the scoring and end-of-game parameters for one game.
type Config struct {
	Variant Variant

	// PoolLimit eliminates a pool player whose cumulative score
	// strictly exceeds it.
	PoolLimit int

	// DealsRounds is the round count for the deals variant.
	DealsRounds int

	FirstDropPenalty      int
	MiddleDropPenalty     int
	InvalidDeclarePenalty int

	// MaxRoundScore caps a still-in player's deadwood loss.
	MaxRoundScore int
}

// DefaultConfig returns the conventional 101-pool parameters.
func DefaultConfig() Config {
	return Config{
		Variant:               Pool,
		PoolLimit:             101,
		DealsRounds:           2,
		FirstDropPenalty:      25,
		MiddleDropPenalty:     50,
		InvalidDeclarePenalty: 80,
		MaxRoundScore:         80,
	}
}

// Validate rejects configurations the state machine cannot run.
func (c Config) Validate() error {
	if c.Variant == Pool && c.PoolLimit <= 0 {
		return fmt.Errorf("pool variant needs a positive pool limit, got %d", c.PoolLimit)
	}
	if c.Variant == Deals && c.DealsRounds <= 0 {
		return fmt.Errorf("deals variant needs a positive round count, got %d", c.DealsRounds)
	}
	if c.MaxRoundScore <= 0 {
		return fmt.Errorf("max round score must be positive, got %d", c.MaxRoundScore)
	}
	return nil
}

// EliminationLimit is the pool limit when eliminations apply. Deals
// and points games have no elimination, so agents see 0 and their
// near-elimination guards stay off.
func (c Config) EliminationLimit() int {
	if c.Variant == Pool {
		return c.PoolLimit
	}
	return 0
}

// DropPenalty returns the penalty for dropping, first turn or later.
func (c Config) DropPenalty(firstTurn bool) int {
	if firstTurn {
		return c.FirstDropPenalty
	}
	return c.MiddleDropPenalty
}

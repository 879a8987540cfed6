// Package bot implements the three computer opponents. Each
// difficulty is a pure strategy function from a turn view and an
// injected random source to one action; difficulty selection is a
// lookup, not a hierarchy. Thinking time is a separate, presentation-
// only concern sampled from its own source so it can never influence
// a decision.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/playrummy/rummybots/internal/game"
	"github.com/playrummy/rummybots/internal/randutil"
)

// Difficulty selects a strategy tier.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// String returns the difficulty's display name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty reads a difficulty name, case-insensitive.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(s) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
	}
}

// Strategy maps one turn view to one action.
type Strategy func(view game.TurnView, rng *rand.Rand) game.Action

// ForDifficulty returns the strategy for a tier.
func ForDifficulty(d Difficulty) Strategy {
	switch d {
	case Medium:
		return MediumStrategy
	case Hard:
		return HardStrategy
	default:
		return EasyStrategy
	}
}

// Think-time bounds for presentation pacing.
const (
	minThink = 400 * time.Millisecond
	maxThink = 1800 * time.Millisecond
)

// Agent wraps a strategy with its own decision and pacing random
// sources. It satisfies game.Agent and game.Pacer.
type Agent struct {
	difficulty Difficulty
	strategy   Strategy
	rng        *rand.Rand
	pacing     *rand.Rand
}

// New creates a bot agent for a difficulty, deterministically seeded.
// Decision and pacing streams are derived separately: drawing a think
// time never perturbs the next decision.
func New(d Difficulty, seed int64) *Agent {
	return &Agent{
		difficulty: d,
		strategy:   ForDifficulty(d),
		rng:        randutil.New(randutil.Derive(seed, 0)),
		pacing:     randutil.New(randutil.Derive(seed, 1)),
	}
}

// Difficulty returns the agent's tier.
func (a *Agent) Difficulty() Difficulty { return a.difficulty }

// Act implements game.Agent.
func (a *Agent) Act(view game.TurnView) game.Action {
	return a.strategy(view, a.rng)
}

// ThinkTime implements game.Pacer with a bounded sample.
func (a *Agent) ThinkTime() time.Duration {
	return minThink + time.Duration(a.pacing.Int64N(int64(maxThink-minThink)))
}

package bot

import (
	rand "math/rand/v2"

	"github.com/playrummy/rummybots/internal/arrange"
	"github.com/playrummy/rummybots/internal/game"
)

const (
	mediumDropFloor   = 45
	mediumDropCeiling = 0.35
)

// MediumStrategy plays positionally: it always takes a joker, takes a
// discard that simulation shows completing or nearly completing a set
// or adjacent-rank cluster, sheds the least keepable unmelded card,
// and drops in proportion to how bad the hand is, but never when the
// drop itself could push it toward elimination.
func MediumStrategy(view game.TurnView, rng *rand.Rand) game.Action {
	switch view.Phase {
	case game.PhaseDraw:
		if drop, ok := mediumDrop(view, rng); ok {
			return drop
		}
		top := view.TopDiscard
		if top == nil {
			return game.Action{Kind: game.ActionDrawDeck}
		}
		if top.IsJoker() {
			return game.Action{Kind: game.ActionDrawDiscard}
		}
		// Completes a meld outright?
		if bestAfterPickup(view.Hand, *top) < arrange.Best(view.Hand).DeadwoodPoints() {
			return game.Action{Kind: game.ActionDrawDiscard}
		}
		// Nearly completes a cluster: two related holdings.
		if sameRankMates(view.Hand, *top)+suitNeighbors(view.Hand, *top, 1) >= 2 {
			return game.Action{Kind: game.ActionDrawDiscard}
		}
		return game.Action{Kind: game.ActionDrawDeck}

	default:
		if act, ok := declareIfPossible(view); ok {
			return act
		}
		candidates := unmeldedNonJokers(view.Hand)
		out := candidates[0]
		for _, c := range candidates[1:] {
			if keepScore(view.Hand, c) < keepScore(view.Hand, out) {
				out = c
			}
		}
		return game.Action{Kind: game.ActionDiscard, Card: out}
	}
}

// mediumDrop scales drop probability with deadwood severity and pool
// headroom. It never drops when the penalty risks near-term
// elimination.
func mediumDrop(view game.TurnView, rng *rand.Rand) (game.Action, bool) {
	arr := arrange.Best(view.Hand)
	deadwood := arr.DeadwoodPoints()
	if deadwood < mediumDropFloor {
		return game.Action{}, false
	}

	p := float64(deadwood-mediumDropFloor) / 120
	if view.PoolLimit > 0 {
		headroom := view.PoolLimit - view.Score
		if view.Score+view.DropPenalty > view.PoolLimit {
			return game.Action{}, false
		}
		if headroom < 2*view.DropPenalty {
			return game.Action{}, false
		}
		if headroom < 60 {
			p /= 2
		}
	}
	if p > mediumDropCeiling {
		p = mediumDropCeiling
	}
	if rng.Float64() < p {
		return game.Action{Kind: game.ActionDrop}, true
	}
	return game.Action{}, false
}

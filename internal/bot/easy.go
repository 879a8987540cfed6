package bot

import (
	rand "math/rand/v2"
	"sort"

	"github.com/playrummy/rummybots/internal/arrange"
	"github.com/playrummy/rummybots/internal/game"
)

const (
	easyDeckBias      = 0.8
	easyDropChance    = 0.05
	easyBadHandPoints = 60
	easyPickupFloor   = 10
)

// EasyStrategy plays impulsively: it draws from the deck 80% of the
// time regardless of the discard, only grabs obviously valuable
// discards otherwise, and throws away its most expensive cards with a
// little randomness among the top three.
func EasyStrategy(view game.TurnView, rng *rand.Rand) game.Action {
	switch view.Phase {
	case game.PhaseDraw:
		// A hopeless opening hand is worth a cheap first-turn drop,
		// rarely.
		if view.FirstTurn {
			arr := arrange.Best(view.Hand)
			if len(arr.Melds) == 0 && arr.DeadwoodPoints() >= easyBadHandPoints && rng.Float64() < easyDropChance {
				return game.Action{Kind: game.ActionDrop}
			}
		}
		if rng.Float64() < easyDeckBias {
			return game.Action{Kind: game.ActionDrawDeck}
		}
		if top := view.TopDiscard; top != nil && (top.IsJoker() || top.Points() >= easyPickupFloor) {
			return game.Action{Kind: game.ActionDrawDiscard}
		}
		return game.Action{Kind: game.ActionDrawDeck}

	default:
		if act, ok := declareIfPossible(view); ok {
			return act
		}
		candidates := withoutJokers(view.Hand)
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].Points() != candidates[j].Points() {
				return candidates[i].Points() > candidates[j].Points()
			}
			return candidates[i].ID < candidates[j].ID
		})
		top := 3
		if len(candidates) < top {
			top = len(candidates)
		}
		return game.Action{Kind: game.ActionDiscard, Card: candidates[rng.IntN(top)]}
	}
}

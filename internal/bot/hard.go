package bot

import (
	rand "math/rand/v2"

	"github.com/playrummy/rummybots/internal/arrange"
	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/game"
)

const (
	hardPickupMargin = 4
	hardDropFloor    = 55
	hardDropChance   = 0.3
)

// HardStrategy simulates. A discard is taken when the whole-hand
// evaluation after the pickup improves materially or the card closes
// a meld outright, discounted for ranks and suits opponents have
// visibly abandoned. Discards bias toward heavily-discarded ranks and
// suits, which are safer to let go. Drops carry explicit guards.
func HardStrategy(view game.TurnView, rng *rand.Rand) game.Action {
	switch view.Phase {
	case game.PhaseDraw:
		if drop, ok := hardDrop(view, rng); ok {
			return drop
		}
		top := view.TopDiscard
		if top == nil {
			return game.Action{Kind: game.ActionDrawDeck}
		}
		if top.IsJoker() {
			return game.Action{Kind: game.ActionDrawDiscard}
		}

		current := arrange.Best(view.Hand).DeadwoodPoints()
		after := bestAfterPickup(view.Hand, *top)
		improvement := current - after

		if closesMeld(view.Hand, *top) && improvement > 0 {
			return game.Action{Kind: game.ActionDrawDiscard}
		}
		// Opponents shedding a rank or suit means fewer mates for it
		// remain live; demand more improvement before chasing it.
		margin := hardPickupMargin + countRank(view.History, top.Rank) + countSuit(view.History, top.Suit)/3
		if improvement >= margin {
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
			if hardDiscardScore(view, c) < hardDiscardScore(view, out) {
				out = c
			}
		}
		return game.Action{Kind: game.ActionDiscard, Card: out}
	}
}

// hardDiscardScore is the keep score minus a safety bonus for ranks
// and suits the table has already discarded heavily.
func hardDiscardScore(view game.TurnView, c deck.Card) int {
	safety := 2*countRank(view.History, c.Rank) + countSuit(view.History, c.Suit)/2
	return keepScore(view.Hand, c) - safety
}

// closesMeld reports whether the pickup itself lands inside a meld of
// the improved arrangement.
func closesMeld(hand []deck.Card, pick deck.Card) bool {
	full := append(append([]deck.Card(nil), hand...), pick)
	for _, m := range arrange.Best(full).Melds {
		for _, c := range m.Cards {
			if c.ID == pick.ID {
				return true
			}
		}
	}
	return false
}

// hardDrop drops only on a genuinely bad hand and never when dropping
// would eliminate the bot or when it already holds two or more
// complete melds.
func hardDrop(view game.TurnView, rng *rand.Rand) (game.Action, bool) {
	arr := arrange.Best(view.Hand)
	if len(arr.Melds) >= 2 {
		return game.Action{}, false
	}
	if view.PoolLimit > 0 && view.Score+view.DropPenalty > view.PoolLimit {
		return game.Action{}, false
	}
	deadwood := arr.DeadwoodPoints()
	if deadwood < hardDropFloor {
		return game.Action{}, false
	}
	p := hardDropChance
	if view.PoolLimit > 0 && view.PoolLimit-view.Score < 60 {
		p /= 2
	}
	if rng.Float64() < p {
		return game.Action{Kind: game.ActionDrop}, true
	}
	return game.Action{}, false
}

package bot

import (
	"github.com/playrummy/rummybots/internal/arrange"
	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/game"
)

// declareIfPossible is shared by every tier: in the discard phase a
// 14-card hand is searched for a discard that leaves a declarable
// arrangement, and the declaration is submitted with the re-derived
// melds attached.
func declareIfPossible(view game.TurnView) (game.Action, bool) {
	if view.Phase != game.PhaseDiscard {
		return game.Action{}, false
	}
	out, arr, ok := arrange.FindDeclaration(view.Hand)
	if !ok {
		return game.Action{}, false
	}
	melds := make([][]deck.Card, len(arr.Melds))
	for i, m := range arr.Melds {
		melds[i] = m.Cards
	}
	return game.Action{Kind: game.ActionDeclare, Card: out, Melds: melds}, true
}

// sameRankMates counts hand cards of c's rank in other suits,
// jokers excluded.
func sameRankMates(hand []deck.Card, c deck.Card) int {
	n := 0
	for _, h := range hand {
		if h.ID == c.ID || h.IsJoker() {
			continue
		}
		if h.Rank == c.Rank && h.Suit != c.Suit {
			n++
		}
	}
	return n
}

// suitNeighbors counts same-suit hand cards within maxGap missing
// ranks of c, jokers excluded.
func suitNeighbors(hand []deck.Card, c deck.Card, maxGap int) int {
	n := 0
	for _, h := range hand {
		if h.ID == c.ID || h.IsJoker() {
			continue
		}
		if h.Suit == c.Suit && gapBetween(h.Rank, c.Rank) <= maxGap {
			n++
		}
	}
	return n
}

func gapBetween(a, b deck.Rank) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	gap := d - 1
	// The ace also sits above the king.
	if a == deck.Ace || b == deck.Ace {
		hi, lo := int(a), int(b)
		if a == deck.Ace {
			hi, lo = 14, int(b)
		} else {
			hi, lo = 14, int(a)
		}
		if alt := hi - lo - 1; alt >= 0 && alt < gap {
			gap = alt
		}
	}
	if gap < 0 {
		gap = 0
	}
	return gap
}

// keepScore rates how much a card is worth holding: its proximity to
// future melds minus its point cost. The lowest keeper is the first
// to let go, so expensive cards with no synergy leave early.
func keepScore(hand []deck.Card, c deck.Card) int {
	bonus := 3*sameRankMates(hand, c) + 2*suitNeighbors(hand, c, 0) + suitNeighbors(hand, c, 1)
	return bonus - c.Points()
}

// unmeldedNonJokers returns the deadwood of the hand's best
// arrangement with jokers filtered out; when everything is melded it
// falls back to the full hand so a discard can always be chosen.
func unmeldedNonJokers(hand []deck.Card) []deck.Card {
	arr := arrange.Best(hand)
	candidates := withoutJokers(arr.Deadwood)
	if len(candidates) == 0 {
		candidates = withoutJokers(hand)
	}
	return candidates
}

func withoutJokers(cards []deck.Card) []deck.Card {
	var out []deck.Card
	for _, c := range cards {
		if !c.IsJoker() {
			out = append(out, c)
		}
	}
	return out
}

// countRank and countSuit tally the discard history for safety and
// abandonment heuristics.
func countRank(history []deck.Card, r deck.Rank) int {
	n := 0
	for _, c := range history {
		if !c.IsJoker() && c.Rank == r {
			n++
		}
	}
	return n
}

func countSuit(history []deck.Card, s deck.Suit) int {
	n := 0
	for _, c := range history {
		if !c.IsJoker() && c.Suit == s {
			n++
		}
	}
	return n
}

// bestAfterPickup evaluates taking a card: the lowest deadwood over
// every possible follow-up discard from the 14-card hand.
func bestAfterPickup(hand []deck.Card, pick deck.Card) int {
	full := append(append([]deck.Card(nil), hand...), pick)
	best := -1
	for i := range full {
		rest := make([]deck.Card, 0, len(full)-1)
		rest = append(rest, full[:i]...)
		rest = append(rest, full[i+1:]...)
		if dw := arrange.Best(rest).DeadwoodPoints(); best < 0 || dw < best {
			best = dw
		}
	}
	return best
}

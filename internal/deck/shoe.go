package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// ShoeSize is the total card count of the two-deck shoe.
const ShoeSize = 108

// HandSize is the number of cards dealt to each player.
const HandSize = 13

// PrintedJokersPerDeck is the number of printed jokers in each 54-card deck.
const PrintedJokersPerDeck = 2

// NewShoe builds the 108-card shoe: two full decks plus four printed
// jokers, in canonical order. IDs are assigned 0..107.
func NewShoe() []Card {
	shoe := make([]Card, 0, ShoeSize)
	for copies := 0; copies < 2; copies++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Ace; rank <= King; rank++ {
				shoe = append(shoe, Card{ID: len(shoe), Suit: suit, Rank: rank})
			}
		}
		for j := 0; j < PrintedJokersPerDeck; j++ {
			shoe = append(shoe, Card{ID: len(shoe), Joker: JokerPrinted})
		}
	}
	return shoe
}

// Shuffle returns a Fisher-Yates shuffled copy of cards. The input
// slice is never mutated.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	out := append([]Card(nil), cards...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal is the result of dealing a shuffled shoe to n players.
//
// The physical wild-indicator card stays at the bottom of the draw
// pile (last index) so the 108-card conservation invariant holds over
// hands + draw + discard alone; Indicator is a copy for rule checks.
type Deal struct {
	Hands     [][]Card
	Indicator Card
	DrawPile  []Card
	Discard   []Card
}

// DealHands deals 13 cards to each of players hands one card at a time
// round-robin, selects and applies the wild indicator, flips the open
// card onto the discard pile and leaves the rest as the draw pile.
func DealHands(shoe []Card, players int) (*Deal, error) {
	if players < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", players)
	}
	if players*HandSize+3 > len(shoe) {
		return nil, fmt.Errorf("shoe of %d cards cannot serve %d players", len(shoe), players)
	}

	stack := append([]Card(nil), shoe...)
	hands := make([][]Card, players)
	for i := range hands {
		hands[i] = make([]Card, 0, HandSize+1)
	}
	for round := 0; round < HandSize; round++ {
		for p := 0; p < players; p++ {
			hands[p] = append(hands[p], stack[0])
			stack = stack[1:]
		}
	}

	// The next card is the wild indicator. A printed joker cannot
	// indicate a rank: swap in the first non-printed card behind it.
	if stack[0].Joker == JokerPrinted {
		for j := 1; j < len(stack); j++ {
			if stack[j].Joker != JokerPrinted {
				stack[0], stack[j] = stack[j], stack[0]
				break
			}
		}
	}
	indicator := stack[0]
	stack = stack[1:]

	// Promote every card of the indicator's rank to wild, hands and
	// remaining stack alike. The indicator card itself stays natural.
	for p := range hands {
		promoteWilds(hands[p], indicator.Rank)
	}
	promoteWilds(stack, indicator.Rank)

	open := stack[0]
	stack = stack[1:]

	d := &Deal{
		Hands:     hands,
		Indicator: indicator,
		DrawPile:  append(stack, indicator),
		Discard:   []Card{open},
	}
	return d, nil
}

func promoteWilds(cards []Card, wildRank Rank) {
	for i := range cards {
		if cards[i].Joker == JokerNone && cards[i].Rank == wildRank {
			cards[i].Joker = JokerWild
		}
	}
}

// DrawTop pops the top (index 0) of the draw pile. ok is false when
// the pile is empty; the caller is expected to attempt a refill.
func DrawTop(pile []Card) (Card, []Card, bool) {
	if len(pile) == 0 {
		return Card{}, pile, false
	}
	return pile[0], pile[1:], true
}

// DrawDiscard pops the top of the discard stack (the most recently
// discarded card, at the last index).
func DrawDiscard(pile []Card) (Card, []Card, bool) {
	if len(pile) == 0 {
		return Card{}, pile, false
	}
	n := len(pile) - 1
	return pile[n], pile[:n], true
}

// DiscardTo pushes a card onto the discard stack.
func DiscardTo(pile []Card, c Card) []Card {
	return append(pile, c)
}

// Refill rebuilds the draw pile from the discard pile. It applies only
// when the draw pile is empty and the discard pile holds more than one
// card: the top discard stays in place and the rest reshuffles into a
// fresh draw pile. Otherwise both piles are returned unchanged with
// ok=false; that stalemate is the caller's to handle.
func Refill(draw, discard []Card, rng *rand.Rand) (newDraw, newDiscard []Card, ok bool) {
	if len(draw) != 0 || len(discard) <= 1 {
		return draw, discard, false
	}
	top := discard[len(discard)-1]
	rest := discard[:len(discard)-1]
	return Shuffle(rest, rng), []Card{top}, true
}

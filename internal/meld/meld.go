// Package meld holds the pure predicates for 13-card rummy melds:
// sets, sequences and pure sequences, including joker substitution and
// the two-interpretation ace resolution.
package meld

import (
	"sort"

	"github.com/playrummy/rummybots/internal/deck"
)

// Kind classifies a group of cards.
type Kind int

const (
	None Kind = iota
	Set
	Sequence
	PureSequence
)

// String returns the kind's display name.
func (k Kind) String() string {
	switch k {
	case Set:
		return "set"
	case Sequence:
		return "sequence"
	case PureSequence:
		return "pure sequence"
	default:
		return "none"
	}
}

// Meld is a classified group of cards.
type Meld struct {
	Kind  Kind
	Cards []deck.Card
}

// Points sums the deadwood value of the meld's cards.
func (m Meld) Points() int {
	total := 0
	for _, c := range m.Cards {
		total += c.Points()
	}
	return total
}

// KindOf re-derives the strongest classification for the cards:
// pure sequence over sequence over set, else None.
func KindOf(cards []deck.Card) Kind {
	switch {
	case IsPureSequence(cards):
		return PureSequence
	case IsValidSequence(cards):
		return Sequence
	case IsValidSet(cards):
		return Set
	default:
		return None
	}
}

// IsValidSet reports whether cards form a set: 3 or 4 cards whose
// non-joker members share one rank with pairwise distinct suits, with
// at least one non-joker present.
func IsValidSet(cards []deck.Card) bool {
	if len(cards) < 3 || len(cards) > 4 {
		return false
	}
	naturals, _ := splitJokers(cards)
	if len(naturals) == 0 {
		return false
	}
	rank := naturals[0].Rank
	var seen [4]bool
	for _, c := range naturals {
		if c.Rank != rank {
			return false
		}
		if seen[c.Suit] {
			return false
		}
		seen[c.Suit] = true
	}
	return true
}

// IsValidSequence reports whether cards form a sequence: at least 3
// cards whose non-joker members share one suit and occupy strictly
// increasing consecutive ranks under one consistent ace interpretation,
// with jokers filling the gaps.
//
// Ace ambiguity is resolved by inspecting the present natural ranks:
// the ace plays high only when ranks 10..K appear and none of 2..4
// does. If the preferred interpretation fails the gap test the
// opposite one is evaluated before rejecting.
func IsValidSequence(cards []deck.Card) bool {
	if len(cards) < 3 {
		return false
	}
	naturals, jokers := splitJokers(cards)
	if len(naturals) == 0 {
		// Nothing constrains an all-joker group; it plays as a
		// sequence of the jokers' choosing.
		return true
	}
	suit := naturals[0].Suit
	hasAce := false
	for _, c := range naturals {
		if c.Suit != suit {
			return false
		}
		if c.Rank == deck.Ace {
			hasAce = true
		}
	}

	aceHigh := preferAceHigh(naturals)
	if gapsFit(naturals, jokers, aceHigh) {
		return true
	}
	if hasAce {
		return gapsFit(naturals, jokers, !aceHigh)
	}
	return false
}

// IsPureSequence reports whether cards form a sequence without joker
// substitution. Any printed joker makes the group impure. Wild jokers
// are allowed only when acting as themselves: all cards, wilds
// included, must share one suit and sit in a zero-gap consecutive
// block, each wild at its own natural rank.
func IsPureSequence(cards []deck.Card) bool {
	if !IsValidSequence(cards) {
		return false
	}
	wilds := 0
	for _, c := range cards {
		switch c.Joker {
		case deck.JokerPrinted:
			return false
		case deck.JokerWild:
			wilds++
		}
	}
	if wilds == 0 {
		return true
	}

	// Re-run the gap test with every card at face value. A wild that
	// fills a gap rather than its own slot will break the zero-gap
	// requirement.
	suit := cards[0].Suit
	for _, c := range cards[1:] {
		if c.Suit != suit {
			return false
		}
	}
	aceHigh := preferAceHigh(cards)
	if consecutive(cards, aceHigh) {
		return true
	}
	for _, c := range cards {
		if c.Rank == deck.Ace {
			return consecutive(cards, !aceHigh)
		}
	}
	return false
}

// preferAceHigh picks the default ace interpretation from the present
// ranks: high only with cards in 10..K and none in 2..4.
func preferAceHigh(cards []deck.Card) bool {
	high, low := false, false
	for _, c := range cards {
		if c.Rank >= deck.Ten && c.Rank <= deck.King {
			high = true
		}
		if c.Rank >= deck.Two && c.Rank <= deck.Four {
			low = true
		}
	}
	return high && !low
}

// gapsFit sorts the naturals under the chosen ace interpretation and
// checks consecutive gaps: a negative gap (duplicate rank) rejects
// immediately, and the gap total must not exceed the joker count.
func gapsFit(naturals []deck.Card, jokers int, aceHigh bool) bool {
	order := sortedOrders(naturals, aceHigh)
	total := 0
	for i := 1; i < len(order); i++ {
		gap := order[i] - order[i-1] - 1
		if gap < 0 {
			return false
		}
		total += gap
	}
	return total <= jokers
}

// consecutive is the zero-gap, zero-duplicate variant of gapsFit used
// by the purity check.
func consecutive(cards []deck.Card, aceHigh bool) bool {
	order := sortedOrders(cards, aceHigh)
	for i := 1; i < len(order); i++ {
		if order[i] != order[i-1]+1 {
			return false
		}
	}
	return true
}

func sortedOrders(cards []deck.Card, aceHigh bool) []int {
	order := make([]int, len(cards))
	for i, c := range cards {
		order[i] = seqOrder(c.Rank, aceHigh)
	}
	sort.Ints(order)
	return order
}

func seqOrder(r deck.Rank, aceHigh bool) int {
	if r == deck.Ace && aceHigh {
		return int(deck.King) + 1
	}
	return int(r)
}

func splitJokers(cards []deck.Card) (naturals []deck.Card, jokers int) {
	for _, c := range cards {
		if c.IsJoker() {
			jokers++
		} else {
			naturals = append(naturals, c)
		}
	}
	return naturals, jokers
}

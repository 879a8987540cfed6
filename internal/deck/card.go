package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ace is stored low (1); sequence
// validation decides per meld whether it plays high.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// JokerType distinguishes the two ways a card can act as a joker.
// Printed jokers ship with the deck; wild jokers are regular cards
// promoted when their rank matches the wild indicator.
type JokerType int

const (
	JokerNone JokerType = iota
	JokerPrinted
	JokerWild
)

// Card is one card of the 108-card shoe. ID is unique within a shoe
// so the two copies of each suit/rank combination stay distinguishable.
type Card struct {
	ID    int
	Suit  Suit
	Rank  Rank
	Joker JokerType
}

// IsJoker returns true for printed and wild jokers alike.
func (c Card) IsJoker() bool {
	return c.Joker != JokerNone
}

// Points returns the card's deadwood value: jokers score zero,
// ace and face cards ten, everything else its pip count.
func (c Card) Points() int {
	if c.IsJoker() {
		return 0
	}
	switch c.Rank {
	case Ace, Jack, Queen, King:
		return 10
	default:
		return int(c.Rank)
	}
}

// String returns the card's display form, e.g. "A♠", "7♥", "JK", "7♥*".
func (c Card) String() string {
	if c.Joker == JokerPrinted {
		return "JK"
	}
	s := c.Rank.String() + c.Suit.String()
	if c.Joker == JokerWild {
		s += "*"
	}
	return s
}

// ParseCards parses compact card notation like "AsKsQs" or "7h 8h jk",
// case-insensitive, whitespace optional. "jk" denotes a printed joker.
// IDs are assigned sequentially from 0. Intended for tests and tooling;
// parsed cards are never wild.
func ParseCards(input string) ([]Card, error) {
	compact := strings.ToLower(strings.Join(strings.Fields(input), ""))
	if len(compact)%2 != 0 {
		return nil, fmt.Errorf("card string %q has odd length", input)
	}

	cards := make([]Card, 0, len(compact)/2)
	for i := 0; i < len(compact); i += 2 {
		tok := compact[i : i+2]
		if tok == "jk" {
			cards = append(cards, Card{ID: len(cards), Joker: JokerPrinted})
			continue
		}

		var rank Rank
		switch tok[0] {
		case 'a':
			rank = Ace
		case 't':
			rank = Ten
		case 'j':
			rank = Jack
		case 'q':
			rank = Queen
		case 'k':
			rank = King
		default:
			if tok[0] < '2' || tok[0] > '9' {
				return nil, fmt.Errorf("invalid rank %q in %q", string(tok[0]), input)
			}
			rank = Rank(tok[0] - '0')
		}

		var suit Suit
		switch tok[1] {
		case 's':
			suit = Spades
		case 'h':
			suit = Hearts
		case 'd':
			suit = Diamonds
		case 'c':
			suit = Clubs
		default:
			return nil, fmt.Errorf("invalid suit %q in %q", string(tok[1]), input)
		}

		cards = append(cards, Card{ID: len(cards), Suit: suit, Rank: rank})
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on malformed input.
func MustParseCards(input string) []Card {
	cards, err := ParseCards(input)
	if err != nil {
		panic(err)
	}
	return cards
}

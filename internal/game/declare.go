package game

import (
	"fmt"

	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/meld"
)

// DeclarationResult reports the four declare-legality conditions
// independently so the presentation layer can tell a player exactly
// what was missing. Melds whose claimed shape does not re-derive are
// demoted to deadwood with a recorded error.
type DeclarationResult struct {
	Valid bool

	HasPureSequence bool
	HasTwoSequences bool
	NoDeadwood      bool
	CardCountOK     bool

	Melds    []meld.Meld
	Deadwood []deck.Card
	Errors   []string
}

// ValidateDeclaration re-derives each submitted meld's type
// independently of the caller's claim and applies the four rules:
// at least one pure sequence, at least two sequences in total, zero
// deadwood, and melds plus deadwood covering exactly the 13-card hand.
func ValidateDeclaration(melds [][]deck.Card, deadwood []deck.Card) DeclarationResult {
	res := DeclarationResult{
		Deadwood: append([]deck.Card(nil), deadwood...),
	}

	pure, sequences := 0, 0
	count := len(deadwood)
	for i, cards := range melds {
		count += len(cards)
		kind := meld.KindOf(cards)
		if kind == meld.None {
			res.Errors = append(res.Errors, fmt.Sprintf("group %d is not a valid meld: %v", i+1, cards))
			res.Deadwood = append(res.Deadwood, cards...)
			continue
		}
		res.Melds = append(res.Melds, meld.Meld{Kind: kind, Cards: append([]deck.Card(nil), cards...)})
		switch kind {
		case meld.PureSequence:
			pure++
			sequences++
		case meld.Sequence:
			sequences++
		}
	}

	res.HasPureSequence = pure >= 1
	res.HasTwoSequences = sequences >= 2
	res.NoDeadwood = len(res.Deadwood) == 0
	res.CardCountOK = count == deck.HandSize

	if !res.HasPureSequence {
		res.Errors = append(res.Errors, "declaration needs at least one pure sequence")
	}
	if !res.HasTwoSequences {
		res.Errors = append(res.Errors, "declaration needs at least two sequences")
	}
	if !res.NoDeadwood {
		res.Errors = append(res.Errors, fmt.Sprintf("%d cards left unmelded", len(res.Deadwood)))
	}
	if !res.CardCountOK {
		res.Errors = append(res.Errors, fmt.Sprintf("declaration covers %d cards, want %d", count, deck.HandSize))
	}

	res.Valid = res.HasPureSequence && res.HasTwoSequences && res.NoDeadwood && res.CardCountOK
	return res
}

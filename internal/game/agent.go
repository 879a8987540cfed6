package game

import (
	"time"

	"github.com/playrummy/rummybots/internal/deck"
)

// ActionKind enumerates the five things a player can do on a turn.
type ActionKind int

const (
	ActionDrawDeck ActionKind = iota
	ActionDrawDiscard
	ActionDiscard
	ActionDeclare
	ActionDrop
)

// String returns the action kind's display name.
func (k ActionKind) String() string {
	switch k {
	case ActionDrawDeck:
		return "draw-deck"
	case ActionDrawDiscard:
		return "draw-discard"
	case ActionDiscard:
		return "discard"
	case ActionDeclare:
		return "declare"
	case ActionDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Action is one player decision. Card is the discard target, or the
// final discard of a declaration; Melds carries the declared partition.
type Action struct {
	Kind  ActionKind
	Card  deck.Card
	Melds [][]deck.Card
}

// TurnView is the read-only snapshot a decision is made from. The
// round controller builds one per turn; everything in it is a copy,
// so agents stay pure and independently testable.
type TurnView struct {
	Seat       int
	Hand       []deck.Card
	Phase      Phase
	TopDiscard *deck.Card
	History    []deck.Card
	FirstTurn  bool

	// Score is the acting player's cumulative score; PoolLimit is 0
	// outside the pool variant. DropPenalty is what dropping right
	// now would cost.
	Score       int
	PoolLimit   int
	DropPenalty int
}

// Agent produces one action for one turn view.
type Agent interface {
	Act(view TurnView) Action
}

// Pacer is implemented by agents whose actions should be delayed for
// presentation. The sampled duration is pacing only; it never feeds
// back into the decision.
type Pacer interface {
	ThinkTime() time.Duration
}

// ViewFor builds the decision snapshot for a seat, filling the
// score-related fields from the supplied values.
func (r *Round) ViewFor(seat int, score, poolLimit, dropPenalty int) TurnView {
	view := TurnView{
		Seat:        seat,
		Hand:        append([]deck.Card(nil), r.Hands[seat]...),
		Phase:       r.Phase,
		History:     append([]deck.Card(nil), r.History...),
		FirstTurn:   r.FirstTurn(seat),
		Score:       score,
		PoolLimit:   poolLimit,
		DropPenalty: dropPenalty,
	}
	if top, ok := r.TopDiscard(); ok {
		view.TopDiscard = &top
	}
	return view
}

package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/playrummy/rummybots/internal/deck"
)

// Round holds one round's complete state. Every action is a single
// indivisible transition guarded by seat and phase; illegal actions
// are rejected with ok=false and change nothing. The presentation
// layer is expected to disable controls it gets false back for.
type Round struct {
	DrawPile    []deck.Card
	DiscardPile []deck.Card
	Hands       [][]deck.Card
	Indicator   deck.Card
	Current     int
	Dealer      int
	Phase       Phase
	Dropped     []bool

	// History is the append-only record of every discarded card, in
	// order, round-controller owned; bots receive it read-only.
	History []deck.Card

	droppedFirst []bool
	turns        []int
	rng          *rand.Rand

	finished    bool
	stalemate   bool
	winner      int
	invalid     int
	declaration *DeclarationResult
}

// NewRound shuffles a fresh shoe and deals to the given number of
// players. Play starts left of the dealer.
func NewRound(players, dealer int, rng *rand.Rand) (*Round, error) {
	shoe := deck.Shuffle(deck.NewShoe(), rng)
	d, err := deck.DealHands(shoe, players)
	if err != nil {
		return nil, fmt.Errorf("dealing round: %w", err)
	}
	return &Round{
		DrawPile:     d.DrawPile,
		DiscardPile:  d.Discard,
		Hands:        d.Hands,
		Indicator:    d.Indicator,
		Current:      (dealer + 1) % players,
		Dealer:       dealer,
		Phase:        PhaseDraw,
		Dropped:      make([]bool, players),
		droppedFirst: make([]bool, players),
		turns:        make([]int, players),
		rng:          rng,
		winner:       -1,
		invalid:      -1,
	}, nil
}

// Finished reports whether the round is over.
func (r *Round) Finished() bool { return r.finished }

// Stalemate reports whether the round ended with an exhausted shoe.
func (r *Round) Stalemate() bool { return r.stalemate }

// Winner returns the winning seat and true, or false if the round has
// no winner (still running, stalemate, or invalid declaration).
func (r *Round) Winner() (int, bool) {
	if !r.finished || r.winner < 0 {
		return -1, false
	}
	return r.winner, true
}

// Declaration returns the recorded declaration result, if any.
func (r *Round) Declaration() *DeclarationResult { return r.declaration }

// Abort ends the round with no winner, as a stalemate. Remaining
// players score as still-in.
func (r *Round) Abort() {
	if r.finished {
		return
	}
	r.finished = true
	r.stalemate = true
	r.winner = -1
	r.invalid = -1
}

// CardCount sums cards across hands and piles. It is 108 throughout a
// round; the wild indicator sits at the bottom of the draw pile.
func (r *Round) CardCount() int {
	n := len(r.DrawPile) + len(r.DiscardPile)
	for _, h := range r.Hands {
		n += len(h)
	}
	return n
}

// TopDiscard returns the top of the discard pile, if any.
func (r *Round) TopDiscard() (deck.Card, bool) {
	if len(r.DiscardPile) == 0 {
		return deck.Card{}, false
	}
	return r.DiscardPile[len(r.DiscardPile)-1], true
}

// FirstTurn reports whether the seat has not completed a turn yet.
func (r *Round) FirstTurn(seat int) bool { return r.turns[seat] == 0 }

// DroppedFirstTurn reports whether the seat dropped before playing a turn.
func (r *Round) DroppedFirstTurn(seat int) bool { return r.droppedFirst[seat] }

func (r *Round) canAct(seat int, phase Phase) bool {
	return !r.finished && seat == r.Current && r.Phase == phase && !r.Dropped[seat]
}

// DrawFromDeck pops the top of the draw pile into the seat's hand,
// refilling from the discard pile first when the draw pile is empty.
// When no refill is possible the round ends in a stalemate and ok is
// false: there is no card to give.
func (r *Round) DrawFromDeck(seat int) (deck.Card, bool) {
	if !r.canAct(seat, PhaseDraw) {
		return deck.Card{}, false
	}
	if len(r.DrawPile) == 0 {
		draw, discard, ok := deck.Refill(r.DrawPile, r.DiscardPile, r.rng)
		if !ok {
			r.Abort()
			return deck.Card{}, false
		}
		r.DrawPile, r.DiscardPile = draw, discard
	}
	c, rest, ok := deck.DrawTop(r.DrawPile)
	if !ok {
		// Refill produced an empty pile; treat as stalemate.
		r.Abort()
		return deck.Card{}, false
	}
	r.DrawPile = rest
	r.Hands[seat] = append(r.Hands[seat], c)
	r.Phase = PhaseDiscard
	return c, true
}

// DrawFromDiscard takes the top discard into the seat's hand.
func (r *Round) DrawFromDiscard(seat int) (deck.Card, bool) {
	if !r.canAct(seat, PhaseDraw) {
		return deck.Card{}, false
	}
	c, rest, ok := deck.DrawDiscard(r.DiscardPile)
	if !ok {
		return deck.Card{}, false
	}
	r.DiscardPile = rest
	r.Hands[seat] = append(r.Hands[seat], c)
	r.Phase = PhaseDiscard
	return c, true
}

// Discard moves the identified card from the seat's hand onto the
// discard pile and passes the turn.
func (r *Round) Discard(seat, cardID int) bool {
	if !r.canAct(seat, PhaseDiscard) {
		return false
	}
	c, ok := r.removeFromHand(seat, cardID)
	if !ok {
		return false
	}
	r.DiscardPile = deck.DiscardTo(r.DiscardPile, c)
	r.History = append(r.History, c)
	r.advance()
	return true
}

// Drop exits the round voluntarily. Allowed only before drawing. If
// exactly one player remains, that player wins the round on the spot
// without declaring.
func (r *Round) Drop(seat int) bool {
	if !r.canAct(seat, PhaseDraw) {
		return false
	}
	r.Dropped[seat] = true
	r.droppedFirst[seat] = r.turns[seat] == 0

	if last, only := r.lastStanding(); only {
		r.finished = true
		r.winner = last
		r.invalid = -1
		return true
	}
	r.advance()
	return true
}

// Declare submits a candidate partition: the final discard plus melds
// covering (some of) the remaining 13 cards; hand cards missing from
// the melds count as deadwood. The round ends either way: an invalid
// declaration is not blocked, the declarer pays for it at scoring.
func (r *Round) Declare(seat, finalDiscardID int, melds [][]deck.Card) (*DeclarationResult, bool) {
	if !r.canAct(seat, PhaseDiscard) {
		return nil, false
	}
	c, ok := r.removeFromHand(seat, finalDiscardID)
	if !ok {
		return nil, false
	}
	r.DiscardPile = deck.DiscardTo(r.DiscardPile, c)
	r.History = append(r.History, c)

	deadwood := leftover(r.Hands[seat], melds)
	res := ValidateDeclaration(melds, deadwood)
	r.declaration = &res
	r.finished = true
	if res.Valid {
		r.winner = seat
		r.invalid = -1
	} else {
		r.winner = -1
		r.invalid = seat
	}
	return &res, true
}

// ActiveSeats returns the seats still in the round, in order.
func (r *Round) ActiveSeats() []int {
	var seats []int
	for i, dropped := range r.Dropped {
		if !dropped {
			seats = append(seats, i)
		}
	}
	return seats
}

func (r *Round) lastStanding() (int, bool) {
	seats := r.ActiveSeats()
	if len(seats) == 1 {
		return seats[0], true
	}
	return -1, false
}

func (r *Round) advance() {
	r.turns[r.Current]++
	for i := 1; i <= len(r.Hands); i++ {
		next := (r.Current + i) % len(r.Hands)
		if !r.Dropped[next] {
			r.Current = next
			break
		}
	}
	r.Phase = PhaseDraw
}

func (r *Round) removeFromHand(seat, cardID int) (deck.Card, bool) {
	hand := r.Hands[seat]
	for i, c := range hand {
		if c.ID == cardID {
			r.Hands[seat] = append(hand[:i:i], hand[i+1:]...)
			return c, true
		}
	}
	return deck.Card{}, false
}

// leftover returns the hand cards not covered by the melds.
func leftover(hand []deck.Card, melds [][]deck.Card) []deck.Card {
	melded := map[int]bool{}
	for _, m := range melds {
		for _, c := range m {
			melded[c.ID] = true
		}
	}
	var rest []deck.Card
	for _, c := range hand {
		if !melded[c.ID] {
			rest = append(rest, c)
		}
	}
	return rest
}

package game

import (
	"testing"

	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/randutil"
)

func TestNewRound(t *testing.T) {
	t.Parallel()
	r, err := NewRound(4, 2, randutil.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.CardCount(); got != deck.ShoeSize {
		t.Errorf("CardCount() = %d, want %d", got, deck.ShoeSize)
	}
	for seat, h := range r.Hands {
		if len(h) != deck.HandSize {
			t.Errorf("seat %d has %d cards, want %d", seat, len(h), deck.HandSize)
		}
	}
	if r.Current != 3 {
		t.Errorf("play should start left of the dealer, got seat %d", r.Current)
	}
	if r.Phase != PhaseDraw {
		t.Errorf("round should open in the draw phase, got %s", r.Phase)
	}
	if _, ok := r.Winner(); ok {
		t.Error("fresh round must not have a winner")
	}
}

func TestDrawDiscardCycle(t *testing.T) {
	t.Parallel()
	r, err := NewRound(2, 0, randutil.New(2))
	if err != nil {
		t.Fatal(err)
	}
	seat := r.Current

	c, ok := r.DrawFromDeck(seat)
	if !ok {
		t.Fatal("draw from deck refused")
	}
	if len(r.Hands[seat]) != deck.HandSize+1 {
		t.Fatalf("hand has %d cards after draw, want %d", len(r.Hands[seat]), deck.HandSize+1)
	}
	if r.Phase != PhaseDiscard {
		t.Fatalf("phase after draw = %s, want discard", r.Phase)
	}

	// Drawing twice in one turn is illegal.
	if _, ok := r.DrawFromDeck(seat); ok {
		t.Error("second draw in one turn must be rejected")
	}

	if !r.Discard(seat, c.ID) {
		t.Fatal("discard of the drawn card refused")
	}
	if len(r.Hands[seat]) != deck.HandSize {
		t.Errorf("hand has %d cards after discard, want %d", len(r.Hands[seat]), deck.HandSize)
	}
	if r.Current == seat {
		t.Error("turn should pass after the discard")
	}
	if r.Phase != PhaseDraw {
		t.Errorf("phase after discard = %s, want draw", r.Phase)
	}
	if top, _ := r.TopDiscard(); top.ID != c.ID {
		t.Errorf("top discard = %s, want the discarded %s", top, c)
	}
	if len(r.History) != 1 || r.History[0].ID != c.ID {
		t.Errorf("history should record the discard, got %v", r.History)
	}
	if got := r.CardCount(); got != deck.ShoeSize {
		t.Errorf("CardCount() = %d after a full turn, want %d", got, deck.ShoeSize)
	}
}

func TestDrawFromDiscard(t *testing.T) {
	t.Parallel()
	r, err := NewRound(2, 0, randutil.New(3))
	if err != nil {
		t.Fatal(err)
	}
	seat := r.Current
	want, _ := r.TopDiscard()

	c, ok := r.DrawFromDiscard(seat)
	if !ok || c.ID != want.ID {
		t.Fatalf("DrawFromDiscard = %s ok=%v, want %s true", c, ok, want)
	}
	if len(r.DiscardPile) != 0 {
		t.Errorf("discard pile should be empty, has %d cards", len(r.DiscardPile))
	}

	// An empty pile refuses the pickup without ending the round.
	r.Discard(seat, c.ID)
	r.DiscardPile = nil
	if _, ok := r.DrawFromDiscard(r.Current); ok {
		t.Error("pickup from an empty pile must be rejected")
	}
	if r.Finished() {
		t.Error("a refused pickup must not end the round")
	}
}

func TestIllegalActionsAreNoOps(t *testing.T) {
	t.Parallel()
	r, err := NewRound(3, 0, randutil.New(4))
	if err != nil {
		t.Fatal(err)
	}
	other := (r.Current + 1) % 3

	if _, ok := r.DrawFromDeck(other); ok {
		t.Error("out-of-turn draw must be rejected")
	}
	if ok := r.Discard(r.Current, r.Hands[r.Current][0].ID); ok {
		t.Error("discard during the draw phase must be rejected")
	}
	if ok := r.Drop(other); ok {
		t.Error("out-of-turn drop must be rejected")
	}

	seat := r.Current
	r.DrawFromDeck(seat)
	if ok := r.Discard(seat, -99); ok {
		t.Error("discarding a card not in hand must be rejected")
	}
	if ok := r.Drop(seat); ok {
		t.Error("drop after drawing must be rejected")
	}
	if got := r.CardCount(); got != deck.ShoeSize {
		t.Errorf("rejected actions changed the card count: %d", got)
	}
}

func TestDropTracking(t *testing.T) {
	t.Parallel()
	r, err := NewRound(3, 2, randutil.New(5))
	if err != nil {
		t.Fatal(err)
	}

	first := r.Current // seat 0
	if !r.Drop(first) {
		t.Fatal("first-turn drop refused")
	}
	if !r.DroppedFirstTurn(first) {
		t.Error("drop before any turn should count as a first drop")
	}
	if r.Finished() {
		t.Fatal("round should continue with two players")
	}
	if r.Current == first {
		t.Error("turn should pass over the dropped seat")
	}

	// The next seat completes a turn, then drops on its second one.
	second := r.Current
	c, _ := r.DrawFromDeck(second)
	r.Discard(second, c.ID)

	third := r.Current
	c, _ = r.DrawFromDeck(third)
	r.Discard(third, c.ID)

	if r.Current != second {
		t.Fatalf("expected play back at seat %d, got %d", second, r.Current)
	}
	if !r.Drop(second) {
		t.Fatal("middle drop refused")
	}
	if r.DroppedFirstTurn(second) {
		t.Error("a drop after a completed turn is a middle drop")
	}

	// Only one player remains: last standing wins without declaring.
	if !r.Finished() {
		t.Fatal("round should end when one player remains")
	}
	if w, ok := r.Winner(); !ok || w != third {
		t.Errorf("Winner() = %d ok=%v, want %d true", w, ok, third)
	}
	if r.Declaration() != nil {
		t.Error("last-standing win records no declaration")
	}
}

func TestAbortStalemate(t *testing.T) {
	t.Parallel()
	r, err := NewRound(2, 0, randutil.New(6))
	if err != nil {
		t.Fatal(err)
	}
	r.Abort()
	if !r.Finished() || !r.Stalemate() {
		t.Error("aborted round should be a finished stalemate")
	}
	if _, ok := r.Winner(); ok {
		t.Error("stalemate has no winner")
	}
	if _, ok := r.DrawFromDeck(r.Current); ok {
		t.Error("actions after the round ended must be rejected")
	}
}

func TestRefillOnEmptyDrawPile(t *testing.T) {
	t.Parallel()
	r, err := NewRound(2, 0, randutil.New(7))
	if err != nil {
		t.Fatal(err)
	}

	// Move the draw pile onto the discard pile, leaving it empty.
	r.DiscardPile = append(r.DiscardPile, r.DrawPile...)
	r.DrawPile = nil

	before := r.CardCount()
	if _, ok := r.DrawFromDeck(r.Current); !ok {
		t.Fatal("draw should succeed via refill")
	}
	if r.Finished() {
		t.Error("refill must not end the round")
	}
	if len(r.DiscardPile) != 1 {
		t.Errorf("refill should leave the top discard, pile has %d", len(r.DiscardPile))
	}
	if got := r.CardCount(); got != before {
		t.Errorf("refill changed the card count: %d -> %d", before, got)
	}
}

func TestExhaustedShoeEndsRound(t *testing.T) {
	t.Parallel()
	r, err := NewRound(2, 0, randutil.New(8))
	if err != nil {
		t.Fatal(err)
	}

	// Empty draw pile and a single discard: no refill possible.
	r.DrawPile = nil
	r.DiscardPile = r.DiscardPile[:1]

	if _, ok := r.DrawFromDeck(r.Current); ok {
		t.Error("draw from an exhausted shoe should fail")
	}
	if !r.Finished() || !r.Stalemate() {
		t.Error("exhausted shoe should end the round in a stalemate")
	}
}

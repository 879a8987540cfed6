package bot

import (
	"testing"

	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/game"
	"github.com/playrummy/rummybots/internal/randutil"
)

func TestParseDifficulty(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{"easy", Easy, false},
		{"MEDIUM", Medium, false},
		{"Hard", Hard, false},
		{"expert", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// discardView builds a 14-card discard-phase view.
func discardView(hand string) game.TurnView {
	return game.TurnView{
		Hand:  deck.MustParseCards(hand),
		Phase: game.PhaseDiscard,
	}
}

func TestAllTiersDeclareWhenPossible(t *testing.T) {
	t.Parallel()
	view := discardView("2s3s4s 5h6h7h 9s9h9d qcqdqhqs kd")
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		rng := randutil.New(1)
		act := ForDifficulty(d)(view, rng)
		if act.Kind != game.ActionDeclare {
			t.Errorf("%s: action = %s, want declare", d, act.Kind)
		}
		if len(act.Melds) == 0 {
			t.Errorf("%s: declaration carries no melds", d)
		}
	}
}

func TestAgentDeterminism(t *testing.T) {
	t.Parallel()
	view := discardView("ks qd jc 2s 4h 6d 8c th ah 9s 3c 5d 7s 9c")

	a := New(Easy, 42)
	b := New(Easy, 42)
	for i := 0; i < 20; i++ {
		got, want := a.Act(view), b.Act(view)
		if got.Kind != want.Kind || got.Card.ID != want.Card.ID {
			t.Fatalf("step %d: agents with one seed diverged: %+v vs %+v", i, got, want)
		}
	}
}

func TestThinkTimeDoesNotPerturbDecisions(t *testing.T) {
	t.Parallel()
	view := discardView("ks qd jc 2s 4h 6d 8c th ah 9s 3c 5d 7s 9c")

	quiet := New(Medium, 7)
	chatty := New(Medium, 7)
	for i := 0; i < 20; i++ {
		chatty.ThinkTime()
		chatty.ThinkTime()
		got, want := chatty.Act(view), quiet.Act(view)
		if got.Kind != want.Kind || got.Card.ID != want.Card.ID {
			t.Fatalf("step %d: think-time sampling changed a decision: %+v vs %+v", i, got, want)
		}
	}
}

func TestThinkTimeBounds(t *testing.T) {
	t.Parallel()
	a := New(Hard, 3)
	for i := 0; i < 200; i++ {
		d := a.ThinkTime()
		if d < minThink || d >= maxThink {
			t.Fatalf("ThinkTime() = %s, want in [%s, %s)", d, minThink, maxThink)
		}
	}
}

func TestMediumTakesJoker(t *testing.T) {
	t.Parallel()
	joker := deck.Card{ID: 99, Joker: deck.JokerPrinted}
	view := game.TurnView{
		Hand:       deck.MustParseCards("2s3s4s 5h6h7h 9s9h9d qc2d4h3c"),
		Phase:      game.PhaseDraw,
		TopDiscard: &joker,
	}
	for seed := int64(0); seed < 50; seed++ {
		act := MediumStrategy(view, randutil.New(seed))
		if act.Kind != game.ActionDrawDiscard {
			t.Fatalf("seed %d: action = %s, want draw-discard for a joker", seed, act.Kind)
		}
	}
}

func TestHardTakesMeldClosingDiscard(t *testing.T) {
	t.Parallel()
	pick := deck.Card{ID: 99, Suit: deck.Spades, Rank: deck.Four}
	view := game.TurnView{
		Hand:       deck.MustParseCards("2s3s 5h6h7h 9s9h9d qcqdkd 7c4h"),
		Phase:      game.PhaseDraw,
		TopDiscard: &pick,
	}
	for seed := int64(0); seed < 50; seed++ {
		act := HardStrategy(view, randutil.New(seed))
		if act.Kind != game.ActionDrawDiscard {
			t.Fatalf("seed %d: action = %s, want draw-discard closing 2♠3♠4♠", seed, act.Kind)
		}
	}
}

func TestMediumDiscardsExpensiveLoner(t *testing.T) {
	t.Parallel()
	// K♦ is the most expensive unmelded card with no support; it
	// must go before the cheap loners.
	view := discardView("2s3s4s 7h8h9h tctdthts kd2h5c8d")
	act := MediumStrategy(view, randutil.New(1))
	if act.Kind != game.ActionDiscard {
		t.Fatalf("action = %s, want discard", act.Kind)
	}
	if act.Card.Rank != deck.King {
		t.Errorf("discarded %s, want the unsupported K♦", act.Card)
	}
}

func TestMediumNeverDropsNearElimination(t *testing.T) {
	t.Parallel()
	view := game.TurnView{
		Hand:        deck.MustParseCards("ks qd jc 2s 4h 6d 8c th ah 9s 3c 5d 7s"),
		Phase:       game.PhaseDraw,
		FirstTurn:   true,
		Score:       90,
		PoolLimit:   101,
		DropPenalty: 25,
	}
	for seed := int64(0); seed < 200; seed++ {
		if act := MediumStrategy(view, randutil.New(seed)); act.Kind == game.ActionDrop {
			t.Fatalf("seed %d: dropped at 90/101 with a 25 penalty", seed)
		}
	}
}

func TestHardNeverDropsWithTwoMelds(t *testing.T) {
	t.Parallel()
	view := game.TurnView{
		Hand:        deck.MustParseCards("2s3s4s 5h6h7h kskdqc jh9c4d2h"),
		Phase:       game.PhaseDraw,
		FirstTurn:   true,
		Score:       0,
		PoolLimit:   101,
		DropPenalty: 25,
	}
	for seed := int64(0); seed < 200; seed++ {
		if act := HardStrategy(view, randutil.New(seed)); act.Kind == game.ActionDrop {
			t.Fatalf("seed %d: dropped despite holding two complete sequences", seed)
		}
	}
}

func TestEasyDiscardsFromTopThreeByPoints(t *testing.T) {
	t.Parallel()
	view := discardView("2s3s4s 5h6h7h 9s9h9d qcqdqh 2c3d")
	seen := map[deck.Rank]bool{}
	for seed := int64(0); seed < 100; seed++ {
		act := EasyStrategy(view, randutil.New(seed))
		if act.Kind == game.ActionDeclare {
			t.Fatal("hand is one card short of a declaration")
		}
		if act.Kind != game.ActionDiscard {
			t.Fatalf("seed %d: action = %s, want discard", seed, act.Kind)
		}
		if act.Card.Points() < 10 {
			t.Fatalf("seed %d: easy discarded %s, want one of the three queens", seed, act.Card)
		}
		seen[act.Card.Rank] = true
	}
	if !seen[deck.Queen] {
		t.Error("expected queens among the discards")
	}
}

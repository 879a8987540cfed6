package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/randutil"
)

// funcAgent adapts a function to the Agent interface for scripting.
type funcAgent func(TurnView) Action

func (f funcAgent) Act(view TurnView) Action { return f(view) }

// dropAgent always drops. With two players the first drop hands the
// round to the opponent, which makes whole games fully deterministic.
var dropAgent = funcAgent(func(TurnView) Action {
	return Action{Kind: ActionDrop}
})

// cycleAgent draws from the deck and discards what it drew, never
// declaring. Rounds with only these end at the transition cap.
var cycleAgent = funcAgent(func(view TurnView) Action {
	if view.Phase == PhaseDraw {
		return Action{Kind: ActionDrawDeck}
	}
	return Action{Kind: ActionDiscard, Card: view.Hand[len(view.Hand)-1]}
})

type memStore struct {
	saves int
}

func (m *memStore) Save(string, any) { m.saves++ }

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestEnginePlayGameAlternatingDrops(t *testing.T) {
	t.Parallel()
	g, err := NewGame([]Player{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	store := &memStore{}
	e := NewEngine([]Agent{dropAgent, dropAgent}, randutil.New(1), testLogger(), store, "test")

	winner, err := e.PlayGame(g)
	if err != nil {
		t.Fatal(err)
	}

	// Play opens left of the dealer, so the non-dealer drops first
	// every round and pays 25; the dealer wins the round for free.
	// The droppers alternate with the deal until B busts 101 on its
	// fifth drop.
	if winner != 0 {
		t.Errorf("winner = %d, want 0", winner)
	}
	if len(g.History) != 9 {
		t.Errorf("game took %d rounds, want 9", len(g.History))
	}
	if g.Scores[0] != 100 || g.Scores[1] != 125 {
		t.Errorf("scores = %v, want [100 125]", g.Scores)
	}
	if !g.Eliminated[1] {
		t.Error("B should be eliminated")
	}
	if store.saves != len(g.History) {
		t.Errorf("store saw %d saves, want one per round (%d)", store.saves, len(g.History))
	}
}

func TestEngineStalemateRound(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Variant = Points
	g, err := NewGame([]Player{{ID: "a"}, {ID: "b"}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine([]Agent{cycleAgent, cycleAgent}, randutil.New(2), testLogger(), nil, "")

	res, err := e.PlayRound(g)
	if err != nil {
		t.Fatal(err)
	}
	if res.Winner != -1 {
		t.Errorf("never-declaring players should produce no winner, got %d", res.Winner)
	}
	for seat, outcome := range res.Outcomes {
		if outcome != OutcomeStillIn {
			t.Errorf("seat %d outcome = %s, want %s", seat, outcome, OutcomeStillIn)
		}
		if res.Scores[seat] < 0 || res.Scores[seat] > cfg.MaxRoundScore {
			t.Errorf("seat %d score = %d, want in [0, %d]", seat, res.Scores[seat], cfg.MaxRoundScore)
		}
	}
	if !g.Finished {
		t.Error("a points game ends after one round")
	}
}

func TestEngineFallbackOnIllegalAction(t *testing.T) {
	t.Parallel()
	r, err := NewRound(2, 0, randutil.New(3))
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine([]Agent{cycleAgent, cycleAgent}, randutil.New(3), testLogger(), nil, "")
	seat := r.Current

	// Discarding during the draw phase is illegal; the fallback must
	// keep the round moving with a forced deck draw.
	e.Apply(r, seat, Action{Kind: ActionDiscard, Card: r.Hands[seat][0]})
	if r.Phase != PhaseDiscard {
		t.Errorf("fallback should have drawn, phase = %s", r.Phase)
	}
	if len(r.Hands[seat]) != deck.HandSize+1 {
		t.Errorf("hand has %d cards, want %d", len(r.Hands[seat]), deck.HandSize+1)
	}

	// A discard of a card not in hand falls back to discarding the
	// newest card.
	e.Apply(r, seat, Action{Kind: ActionDiscard, Card: deck.Card{ID: -5}})
	if len(r.Hands[seat]) != deck.HandSize {
		t.Errorf("hand has %d cards after fallback discard, want %d", len(r.Hands[seat]), deck.HandSize)
	}
	if r.Current == seat {
		t.Error("turn should have passed")
	}
	if r.CardCount() != deck.ShoeSize {
		t.Errorf("card count = %d, want %d", r.CardCount(), deck.ShoeSize)
	}
}

func TestTurnViewEliminationLimitByVariant(t *testing.T) {
	t.Parallel()
	deals := DefaultConfig()
	deals.Variant = Deals
	points := DefaultConfig()
	points.Variant = Points

	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"pool", DefaultConfig(), 101},
		{"deals", deals, 0},
		{"points", points, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var limits []int
			recorder := funcAgent(func(view TurnView) Action {
				limits = append(limits, view.PoolLimit)
				return Action{Kind: ActionDrop}
			})

			g, err := NewGame([]Player{{ID: "a"}, {ID: "b"}}, tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			e := NewEngine([]Agent{recorder, recorder}, randutil.New(1), testLogger(), nil, "")
			if _, err := e.PlayRound(g); err != nil {
				t.Fatal(err)
			}

			if len(limits) == 0 {
				t.Fatal("no turn views recorded")
			}
			for _, got := range limits {
				if got != tt.want {
					t.Errorf("view.PoolLimit = %d, want %d", got, tt.want)
				}
			}
		})
	}
}

package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
)

// Snapshotter is the persistence collaborator: fire-and-forget saves
// of an opaque game-state snapshot. Implementations log their own
// failures; the engine never waits on them and in-memory state stays
// authoritative.
type Snapshotter interface {
	Save(key string, state any)
}

// maxTransitions bounds a round against bots that never declare or
// drop while refills keep the shoe cycling.
const maxTransitions = 5000

// Engine runs rounds to completion, one indivisible transition at a
// time. Agents only decide; the engine applies. An agent returning an
// illegal action gets a logged fallback so a round can never wedge.
type Engine struct {
	logger *log.Logger
	rng    *rand.Rand
	agents []Agent
	store  Snapshotter
	key    string
}

// NewEngine creates an engine for the given per-player agents. The
// store may be nil when persistence is not wanted.
func NewEngine(agents []Agent, rng *rand.Rand, logger *log.Logger, store Snapshotter, key string) *Engine {
	return &Engine{
		logger: logger.WithPrefix("engine"),
		rng:    rng,
		agents: agents,
		store:  store,
		key:    key,
	}
}

// PlayRound deals a round among the game's active players, drives it
// to completion and folds the result into the game state.
func (e *Engine) PlayRound(g *Game) (*RoundResult, error) {
	seats := g.ActivePlayers()
	if len(seats) < 2 {
		return nil, fmt.Errorf("need at least 2 active players, got %d", len(seats))
	}

	dealer := g.Dealer % len(seats)
	r, err := NewRound(len(seats), dealer, e.rng)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("round started",
		"players", len(seats),
		"dealer", dealer,
		"indicator", r.Indicator.String())

	transitions := 0
	for !r.Finished() {
		if transitions++; transitions > maxTransitions {
			e.logger.Warn("round exceeded transition cap, ending in stalemate")
			r.Abort()
			break
		}
		seat := r.Current
		player := seats[seat]
		view := r.ViewFor(seat, g.Scores[player], g.Config.EliminationLimit(), g.Config.DropPenalty(r.FirstTurn(seat)))
		action := e.agents[player].Act(view)
		e.Apply(r, seat, action)
	}

	res, err := ScoreRound(r, g.Config)
	if err != nil {
		return nil, err
	}
	if err := g.ApplyRound(res, seats); err != nil {
		return nil, err
	}

	e.logger.Info("round complete",
		"winner", res.Winner,
		"stalemate", r.Stalemate(),
		"scores", res.Scores)

	if e.store != nil {
		e.store.Save(e.key, g)
	}
	return &res, nil
}

// PlayGame loops rounds until the variant's end condition fires and
// returns the winning player index.
func (e *Engine) PlayGame(g *Game) (int, error) {
	for !g.Finished {
		if _, err := e.PlayRound(g); err != nil {
			return -1, err
		}
	}
	e.logger.Info("game over", "winner", g.Players[g.Winner].Name, "scores", g.Scores)
	return g.Winner, nil
}

// Apply executes one action against the round, falling back to a
// forced legal action when the agent's choice is rejected. The round
// may finish as a side effect (declare, last-standing drop, stalemate).
func (e *Engine) Apply(r *Round, seat int, action Action) {
	applyOrFallback(e.logger, r, seat, action)
}

func applyOrFallback(logger *log.Logger, r *Round, seat int, action Action) {
	ok := applyAction(logger, r, seat, action)
	if ok || r.Finished() {
		return
	}

	logger.Warn("illegal action, applying fallback",
		"seat", seat,
		"action", action.Kind.String(),
		"phase", r.Phase.String())

	switch r.Phase {
	case PhaseDraw:
		if _, ok := r.DrawFromDeck(seat); !ok && !r.Finished() {
			// Deck draw refused without a stalemate should not
			// happen; drop the seat to keep the round moving.
			r.Drop(seat)
		}
	case PhaseDiscard:
		hand := r.Hands[seat]
		if len(hand) > 0 {
			r.Discard(seat, hand[len(hand)-1].ID)
		}
	}
}

func applyAction(logger *log.Logger, r *Round, seat int, action Action) bool {
	switch action.Kind {
	case ActionDrawDeck:
		c, ok := r.DrawFromDeck(seat)
		if ok {
			logger.Debug("drew from deck", "seat", seat, "card", c.String())
		}
		return ok
	case ActionDrawDiscard:
		c, ok := r.DrawFromDiscard(seat)
		if ok {
			logger.Debug("drew from discard", "seat", seat, "card", c.String())
		}
		return ok
	case ActionDiscard:
		ok := r.Discard(seat, action.Card.ID)
		if ok {
			logger.Debug("discarded", "seat", seat, "card", action.Card.String())
		}
		return ok
	case ActionDeclare:
		res, ok := r.Declare(seat, action.Card.ID, action.Melds)
		if ok {
			logger.Info("declaration",
				"seat", seat,
				"valid", res.Valid,
				"errors", res.Errors)
		}
		return ok
	case ActionDrop:
		ok := r.Drop(seat)
		if ok {
			logger.Debug("dropped", "seat", seat)
		}
		return ok
	default:
		return false
	}
}

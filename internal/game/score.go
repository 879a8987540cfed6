package game

import (
	"fmt"

	"github.com/playrummy/rummybots/internal/arrange"
)

// RoundResult carries per-seat scores and outcomes for one round.
// Seats index the round's players, which the Game maps back to its
// own (possibly larger) player list.
type RoundResult struct {
	Scores   []int
	Outcomes []Outcome
	Winner   int // seat, -1 when the round had no winner
}

// ScoreRound converts a finished round into per-seat scores: the
// winner scores zero, an invalid declarer pays the configured penalty,
// droppers pay their drop penalties, and everyone else pays their
// best-arrangement deadwood capped at the round maximum.
func ScoreRound(r *Round, cfg Config) (RoundResult, error) {
	if !r.Finished() {
		return RoundResult{}, fmt.Errorf("round is still running")
	}

	n := len(r.Hands)
	res := RoundResult{
		Scores:   make([]int, n),
		Outcomes: make([]Outcome, n),
		Winner:   -1,
	}
	if w, ok := r.Winner(); ok {
		res.Winner = w
	}

	for seat := 0; seat < n; seat++ {
		switch {
		case seat == res.Winner:
			res.Outcomes[seat] = OutcomeWinner
			res.Scores[seat] = 0
		case seat == r.invalid:
			res.Outcomes[seat] = OutcomeInvalidDeclare
			res.Scores[seat] = cfg.InvalidDeclarePenalty
		case r.Dropped[seat] && r.DroppedFirstTurn(seat):
			res.Outcomes[seat] = OutcomeDroppedFirst
			res.Scores[seat] = cfg.FirstDropPenalty
		case r.Dropped[seat]:
			res.Outcomes[seat] = OutcomeDroppedMiddle
			res.Scores[seat] = cfg.MiddleDropPenalty
		default:
			res.Outcomes[seat] = OutcomeStillIn
			deadwood := arrange.Best(r.Hands[seat]).DeadwoodPoints()
			if deadwood > cfg.MaxRoundScore {
				deadwood = cfg.MaxRoundScore
			}
			res.Scores[seat] = deadwood
		}
	}
	return res, nil
}

// Game tracks cumulative scores, eliminations and the terminal winner
// across rounds. It is created once per game and mutated once per
// round via ApplyRound.
type Game struct {
	Players []Player `json:"players"`
	Config  Config   `json:"config"`

	Scores     []int         `json:"scores"`
	Eliminated []bool        `json:"eliminated"`
	History    []RoundRecord `json:"history"`
	Dealer     int           `json:"dealer"`

	Finished bool `json:"finished"`
	// Winner indexes Players; -1 until the game ends.
	Winner int `json:"winner"`
}

// NewGame starts a game among the given players.
func NewGame(players []Player, cfg Config) (*Game, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(players))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Game{
		Players:    players,
		Config:     cfg,
		Scores:     make([]int, len(players)),
		Eliminated: make([]bool, len(players)),
		Winner:     -1,
	}, nil
}

// ActivePlayers returns the indices of non-eliminated players in
// first-encountered order.
func (g *Game) ActivePlayers() []int {
	var active []int
	for i, out := range g.Eliminated {
		if !out {
			active = append(active, i)
		}
	}
	return active
}

// ApplyRound folds one round's result into the cumulative state.
// seats maps round seats to player indices (the active players the
// round was dealt to). Pool eliminations take effect from the next
// computation, never mid-round.
func (g *Game) ApplyRound(res RoundResult, seats []int) error {
	if g.Finished {
		return fmt.Errorf("game is already finished")
	}
	if len(res.Scores) != len(seats) {
		return fmt.Errorf("round scored %d seats, expected %d", len(res.Scores), len(seats))
	}

	record := RoundRecord{
		Scores:   make(map[string]int, len(seats)),
		Outcomes: make(map[string]Outcome, len(seats)),
	}
	for seat, player := range seats {
		g.Scores[player] += res.Scores[seat]
		record.Scores[g.Players[player].ID] = res.Scores[seat]
		record.Outcomes[g.Players[player].ID] = res.Outcomes[seat]
	}
	if res.Winner >= 0 {
		record.Winner = g.Players[seats[res.Winner]].ID
	}
	g.History = append(g.History, record)
	g.Dealer = (g.Dealer + 1) % len(g.Players)

	if g.Config.Variant == Pool {
		for _, player := range seats {
			if g.Scores[player] > g.Config.PoolLimit {
				g.Eliminated[player] = true
			}
		}
	}
	g.resolveEnd()
	return nil
}

// Rejoin lets an eliminated pool player buy back in at one point above
// the highest surviving score. It is refused outside the pool variant,
// after the game ends, or when the rejoin score would itself bust the
// limit.
func (g *Game) Rejoin(player int) bool {
	if g.Config.Variant != Pool || g.Finished {
		return false
	}
	if player < 0 || player >= len(g.Players) || !g.Eliminated[player] {
		return false
	}
	high := 0
	for _, p := range g.ActivePlayers() {
		if g.Scores[p] > high {
			high = g.Scores[p]
		}
	}
	if high+1 > g.Config.PoolLimit {
		return false
	}
	g.Scores[player] = high + 1
	g.Eliminated[player] = false
	return true
}

func (g *Game) resolveEnd() {
	switch g.Config.Variant {
	case Pool:
		active := g.ActivePlayers()
		if len(active) > 1 {
			return
		}
		g.Finished = true
		if len(active) == 1 {
			g.Winner = active[0]
			return
		}
		// Everyone busted the same round; lowest total takes it.
		g.Winner = g.lowestScore(allPlayers(len(g.Players)))
	case Deals:
		if len(g.History) >= g.Config.DealsRounds {
			g.Finished = true
			g.Winner = g.lowestScore(allPlayers(len(g.Players)))
		}
	case Points:
		if len(g.History) >= 1 {
			g.Finished = true
			g.Winner = g.lowestScore(allPlayers(len(g.Players)))
		}
	}
}

// lowestScore returns the candidate with the lowest cumulative score.
// Ties break in first-encountered order: no split victories.
func (g *Game) lowestScore(candidates []int) int {
	best := candidates[0]
	for _, p := range candidates[1:] {
		if g.Scores[p] < g.Scores[best] {
			best = p
		}
	}
	return best
}

func allPlayers(n int) []int {
	players := make([]int, n)
	for i := range players {
		players[i] = i
	}
	return players
}

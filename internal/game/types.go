package game

// Phase is the half of a turn the current player is in.
type Phase int

const (
	PhaseDraw Phase = iota
	PhaseDiscard
)

// String returns the phase's display name.
func (p Phase) String() string {
	if p == PhaseDraw {
		return "draw"
	}
	return "discard"
}

// Variant selects the scoring and end-of-game rules.
type Variant int

const (
	// Pool accumulates scores until all but one player bust the limit.
	Pool Variant = iota
	// Deals plays a fixed number of rounds; lowest total wins.
	Deals
	// Points settles after exactly one round.
	Points
)

// String returns the variant's display name.
func (v Variant) String() string {
	switch v {
	case Pool:
		return "pool"
	case Deals:
		return "deals"
	case Points:
		return "points"
	default:
		return "unknown"
	}
}

// Outcome is a player's per-round result category.
type Outcome int

const (
	// OutcomeWinner covers a valid declaration and the last player
	// standing after everyone else dropped; both score zero.
	OutcomeWinner Outcome = iota
	OutcomeInvalidDeclare
	OutcomeDroppedFirst
	OutcomeDroppedMiddle
	OutcomeStillIn
)

// String returns the outcome's display name.
func (o Outcome) String() string {
	switch o {
	case OutcomeWinner:
		return "winner"
	case OutcomeInvalidDeclare:
		return "invalid-declare"
	case OutcomeDroppedFirst:
		return "dropped-first"
	case OutcomeDroppedMiddle:
		return "dropped-middle"
	case OutcomeStillIn:
		return "still-in"
	default:
		return "unknown"
	}
}

// Player identifies a participant. Bots carry a difficulty label for
// display and configuration; the engine only sees Agents.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bot  bool   `json:"bot"`
}

// RoundRecord is one round's outcome kept in the game history.
type RoundRecord struct {
	Scores   map[string]int     `json:"scores"`
	Outcomes map[string]Outcome `json:"outcomes"`
	Winner   string             `json:"winner,omitempty"`
}

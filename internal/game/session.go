package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/sched"
)

// defaultThink paces agents that do not implement Pacer.
const defaultThink = 800 * time.Millisecond

// EventKind tags session notifications.
type EventKind int

const (
	EventRoundStarted EventKind = iota
	EventActionApplied
	EventRoundEnded
	EventGameEnded
)

// Event is a session notification for the presentation layer. Seat
// indexes the current round; Player indexes the game's player list.
type Event struct {
	Kind   EventKind
	Seat   int
	Player int
	Action Action
	Result *RoundResult
}

// Session drives a game asynchronously for a presentation layer: the
// human seat acts through direct method calls, bot turns are applied
// after a scheduled thinking delay. Exactly one player acts at a
// time; every mutation happens under the session lock as one
// indivisible transition.
//
// A reset (new round or abandoned game) increments the generation
// counter and cancels the pending bot action; a timer that already
// fired checks the generation before touching state, so a stale
// action can never apply against a replaced round.
//
// Notifications are queued under the state lock but delivered with it
// released, so a notify callback may call back into the session, or
// block on a UI event loop that itself needs Table, without deadlock.
type Session struct {
	mu sync.Mutex

	logger *log.Logger
	sch    *sched.Scheduler
	game   *Game
	agents []Agent // nil entry = human seat
	store  Snapshotter
	key    string
	notify func(Event)

	round   *Round
	seats   []int
	gen     int
	pending *sched.Pending

	queued   []Event
	flushing bool
}

// NewSession wires a game, its agents (nil for the human player), a
// scheduler and an optional snapshot store. notify may be nil.
func NewSession(g *Game, agents []Agent, sch *sched.Scheduler, logger *log.Logger, store Snapshotter, key string, notify func(Event)) (*Session, error) {
	if len(agents) != len(g.Players) {
		return nil, fmt.Errorf("%d agents for %d players", len(agents), len(g.Players))
	}
	if notify == nil {
		notify = func(Event) {}
	}
	return &Session{
		logger: logger.WithPrefix("session"),
		sch:    sch,
		game:   g,
		agents: agents,
		store:  store,
		key:    key,
		notify: notify,
	}, nil
}

// Game returns the underlying game state for rendering. Callers must
// treat it as read-only.
func (s *Session) Game() *Game { return s.game }

// Round returns the running round, or nil between rounds. Read-only
// for callers.
func (s *Session) Round() *Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// TableView is a copy of the visible table state, safe to render
// while bot timers mutate the round.
type TableView struct {
	Seats      []int // round seat -> player index
	Current    int
	Phase      Phase
	Indicator  deck.Card
	TopDiscard *deck.Card
	DrawCount  int
	HandCounts []int
	Dropped    []bool
	Hand       []deck.Card // the requested seat's hand
	FirstTurn  bool
}

// Table snapshots the table as seen from the given round seat. It
// reports false between rounds.
func (s *Session) Table(seat int) (TableView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return TableView{}, false
	}
	r := s.round
	view := TableView{
		Seats:      append([]int(nil), s.seats...),
		Current:    r.Current,
		Phase:      r.Phase,
		Indicator:  r.Indicator,
		DrawCount:  len(r.DrawPile),
		HandCounts: make([]int, len(r.Hands)),
		Dropped:    append([]bool(nil), r.Dropped...),
		FirstTurn:  seat >= 0 && seat < len(r.Hands) && r.FirstTurn(seat),
	}
	for i, h := range r.Hands {
		view.HandCounts[i] = len(h)
	}
	if seat >= 0 && seat < len(r.Hands) {
		view.Hand = append([]deck.Card(nil), r.Hands[seat]...)
	}
	if top, ok := r.TopDiscard(); ok {
		c := top
		view.TopDiscard = &c
	}
	return view, true
}

// StartRound installs a freshly dealt round whose seats map to the
// given player indices and, when the opening turn belongs to a bot,
// schedules it.
func (s *Session) StartRound(r *Round, seats []int) error {
	err := s.installRound(r, seats)
	s.flush()
	return err
}

func (s *Session) installRound(r *Round, seats []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.Finished {
		return fmt.Errorf("game is finished")
	}
	if s.round != nil && !s.round.Finished() {
		return fmt.Errorf("a round is already running")
	}
	if len(seats) != len(r.Hands) {
		return fmt.Errorf("%d seats for %d hands", len(seats), len(r.Hands))
	}
	s.cancelPendingLocked()
	s.round = r
	s.seats = seats
	s.queueLocked(Event{Kind: EventRoundStarted, Seat: r.Current, Player: seats[r.Current]})
	s.continueLocked()
	return nil
}

// Reset abandons the running round. Any pending bot action is
// discarded rather than applied against whatever replaces the round.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.round = nil
	s.seats = nil
}

// Rejoin buys an eliminated player back into a pool game between
// rounds, at the highest active cumulative score plus one.
func (s *Session) Rejoin(player int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round != nil && !s.round.Finished() {
		return false
	}
	return s.game.Rejoin(player)
}

// Human intents. Each applies only when it is the human's turn and the
// action is legal; otherwise it is a no-op returning false, matching
// the engine's illegal-action taxonomy.

// Draw draws for the human seat, from the discard pile when
// fromDiscard is set.
func (s *Session) Draw(fromDiscard bool) bool {
	kind := ActionDrawDeck
	if fromDiscard {
		kind = ActionDrawDiscard
	}
	return s.humanAct(Action{Kind: kind})
}

// DiscardCard discards the identified card from the human hand.
func (s *Session) DiscardCard(cardID int) bool {
	return s.humanAct(Action{Kind: ActionDiscard, Card: deck.Card{ID: cardID}})
}

// Drop exits the round for the human seat.
func (s *Session) Drop() bool {
	return s.humanAct(Action{Kind: ActionDrop})
}

// Declare submits the human declaration.
func (s *Session) Declare(finalDiscardID int, melds [][]deck.Card) bool {
	return s.humanAct(Action{Kind: ActionDeclare, Card: deck.Card{ID: finalDiscardID}, Melds: melds})
}

func (s *Session) humanAct(action Action) bool {
	ok := s.applyHuman(action)
	s.flush()
	return ok
}

func (s *Session) applyHuman(action Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil || s.round.Finished() {
		return false
	}
	seat := s.round.Current
	if s.agents[s.seats[seat]] != nil {
		return false // not the human's turn
	}
	if !applyAction(s.logger, s.round, seat, action) && !s.round.Finished() {
		return false
	}
	s.queueLocked(Event{Kind: EventActionApplied, Seat: seat, Player: s.seats[seat], Action: action})
	s.continueLocked()
	return true
}

// continueLocked settles a finished round or schedules the next bot
// action. Human turns just wait for the next intent call.
func (s *Session) continueLocked() {
	if s.round.Finished() {
		s.settleLocked()
		return
	}
	seat := s.round.Current
	agent := s.agents[s.seats[seat]]
	if agent == nil {
		return
	}

	think := defaultThink
	if p, ok := agent.(Pacer); ok {
		think = p.ThinkTime()
	}
	gen := s.gen
	s.pending = s.sch.After(think, func() { s.applyBot(gen) })
}

// applyBot runs one scheduled bot action. A stale generation means
// the round was reset while the timer was pending; the action is
// discarded, never applied.
func (s *Session) applyBot(gen int) {
	s.runBot(gen)
	s.flush()
}

func (s *Session) runBot(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.round == nil || s.round.Finished() {
		s.logger.Debug("discarding stale bot action", "gen", gen)
		return
	}
	seat := s.round.Current
	player := s.seats[seat]
	agent := s.agents[player]
	if agent == nil {
		return
	}
	view := s.round.ViewFor(seat,
		s.game.Scores[player],
		s.game.Config.EliminationLimit(),
		s.game.Config.DropPenalty(s.round.FirstTurn(seat)))
	action := agent.Act(view)
	applyOrFallback(s.logger, s.round, seat, action)
	s.queueLocked(Event{Kind: EventActionApplied, Seat: seat, Player: player, Action: action})
	s.continueLocked()
}

func (s *Session) settleLocked() {
	res, err := ScoreRound(s.round, s.game.Config)
	if err != nil {
		s.logger.Error("scoring failed", "error", err)
		return
	}
	if err := s.game.ApplyRound(res, s.seats); err != nil {
		s.logger.Error("applying round failed", "error", err)
		return
	}
	if s.store != nil {
		s.store.Save(s.key, s.game)
	}
	s.round = nil
	s.seats = nil
	s.queueLocked(Event{Kind: EventRoundEnded, Result: &res})
	if s.game.Finished {
		s.queueLocked(Event{Kind: EventGameEnded, Player: s.game.Winner, Result: &res})
	}
}

func (s *Session) cancelPendingLocked() {
	s.gen++
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
}

func (s *Session) queueLocked(e Event) {
	s.queued = append(s.queued, e)
}

// flush delivers queued events in order with the state lock released.
// notify may therefore block on a UI event loop whose next message
// needs Table, or call straight back into the session. One goroutine
// flushes at a time; events queued during a delivery are picked up by
// the running flusher, so ordering stays first-in first-out.
func (s *Session) flush() {
	for {
		s.mu.Lock()
		if s.flushing || len(s.queued) == 0 {
			s.mu.Unlock()
			return
		}
		s.flushing = true
		batch := s.queued
		s.queued = nil
		s.mu.Unlock()

		for _, e := range batch {
			s.notify(e)
		}

		s.mu.Lock()
		s.flushing = false
		s.mu.Unlock()
	}
}

package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playrummy/rummybots/internal/game"
	"github.com/playrummy/rummybots/internal/randutil"
	"github.com/playrummy/rummybots/internal/sched"
)

type idleAgent struct{}

func (idleAgent) Act(view game.TurnView) game.Action {
	if view.Phase == game.PhaseDraw {
		return game.Action{Kind: game.ActionDrawDeck}
	}
	return game.Action{Kind: game.ActionDiscard, Card: view.Hand[len(view.Hand)-1]}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	g, err := game.NewGame([]game.Player{
		{ID: "you", Name: "You"},
		{ID: "bot", Name: "Rival", Bot: true},
	}, game.DefaultConfig())
	require.NoError(t, err)
	// Dealer 1 puts the opening turn on the human seat.
	g.Dealer = 1

	s, err := game.NewSession(g, []game.Agent{nil, idleAgent{}},
		sched.New(quartz.NewMock(t)), logger, nil, "", nil)
	require.NoError(t, err)

	m := New(s, 0, randutil.New(5), logger)
	m.width, m.height = 80, 24
	return m
}

func startRound(t *testing.T, m *Model) {
	t.Helper()
	msg := m.startRound()
	require.Nil(t, msg, "startRound should not produce an error message")
	m.handleEvent(game.Event{Kind: game.EventRoundStarted, Seat: 0, Player: 0})
}

// runCommand executes a command line the way the event loop would:
// process the input, then run the returned command and feed any
// resulting message back into Update.
func runCommand(m *Model, input string) {
	cmd := m.processCommand(input)
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		m.Update(msg)
	}
}

func TestModelCommands(t *testing.T) {
	m := newTestModel(t)
	startRound(t, m)

	runCommand(m, "help")
	require.NotEmpty(t, m.gameLog)

	runCommand(m, "bogus")
	assert.Contains(t, m.gameLog[len(m.gameLog)-1], "unknown command")

	runCommand(m, "discard 99")
	assert.Contains(t, m.gameLog[len(m.gameLog)-1], "no such card")

	// Draw, then discard the drawn card by its display index.
	runCommand(m, "draw")
	table, ok := m.session.Table(m.humanSeat())
	require.True(t, ok)
	require.Len(t, table.Hand, 14)

	runCommand(m, "discard 14")
	table, _ = m.session.Table(m.humanSeat())
	assert.Len(t, table.Hand, 13)
}

func TestModelRejectsOutOfTurnMoves(t *testing.T) {
	m := newTestModel(t)
	startRound(t, m)

	runCommand(m, "discard 1")
	assert.Contains(t, m.gameLog[len(m.gameLog)-1], "isn't available",
		"discarding before drawing is refused")
}

func TestSessionIntentsRunAsCommands(t *testing.T) {
	m := newTestModel(t)
	startRound(t, m)

	// Session intents block until their notifications are delivered,
	// and delivery goes through the event loop. They must come back
	// from processCommand as commands, not run inside Update.
	cmd := m.processCommand("draw")
	require.NotNil(t, cmd)

	table, ok := m.session.Table(m.humanSeat())
	require.True(t, ok)
	assert.Len(t, table.Hand, 13, "the draw must not happen until the command runs")

	require.Nil(t, cmd())
	table, _ = m.session.Table(m.humanSeat())
	assert.Len(t, table.Hand, 14)
}

func TestModelRejoinCommand(t *testing.T) {
	m := newTestModel(t)
	startRound(t, m)

	runCommand(m, "rejoin")
	assert.Contains(t, m.gameLog[len(m.gameLog)-1], "rejoin isn't available",
		"an active player cannot rejoin")
}

func TestModelRejoinAfterElimination(t *testing.T) {
	m := newTestModel(t)
	g := m.session.Game()
	g.Eliminated[0] = true
	g.Scores = []int{105, 40}

	cmd := m.processCommand("rejoin")
	require.NotNil(t, cmd, "a successful rejoin deals the next round")
	assert.False(t, g.Eliminated[0])
	assert.Equal(t, 41, g.Scores[0])
	assert.Contains(t, m.gameLog[len(m.gameLog)-1], "back in")
}

func TestModelViewShowsHand(t *testing.T) {
	m := newTestModel(t)
	startRound(t, m)

	view := m.View()
	assert.Contains(t, view, "Rummy (pool)")
	assert.Contains(t, view, "You")
	assert.Contains(t, view, "Rival")
	assert.Contains(t, view, "hand:")
	assert.Contains(t, view, "deadwood")
}

func TestModelLogsActions(t *testing.T) {
	m := newTestModel(t)
	startRound(t, m)

	m.handleEvent(game.Event{Kind: game.EventActionApplied, Seat: 1, Player: 1,
		Action: game.Action{Kind: game.ActionDrawDeck}})
	assert.Contains(t, strings.Join(m.gameLog, " "), "Rival drew from the deck")

	m.handleEvent(game.Event{Kind: game.EventActionApplied, Seat: 1, Player: 1,
		Action: game.Action{Kind: game.ActionDrop}})
	assert.Contains(t, strings.Join(m.gameLog, " "), "Rival dropped out")
}

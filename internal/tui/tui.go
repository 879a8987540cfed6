package tui

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/playrummy/rummybots/internal/arrange"
	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/game"
)

// SessionEventMsg wraps a session notification for the Bubble Tea
// update loop. The session fires these from its own goroutines; the
// play command forwards them with program.Send.
type SessionEventMsg struct {
	Event game.Event
}

// Model is the Bubble Tea model for an interactive game. All game
// state lives in the session; the model keeps only display copies
// taken through Session.Table.
type Model struct {
	session *game.Session
	rng     *rand.Rand
	logger  *log.Logger

	logViewport viewport.Model
	actionInput textinput.Model

	humanPlayer int
	seats       []int // round seat -> player index, cached at round start
	gameLog     []string
	quitting    bool
	gameOver    bool

	width  int
	height int
}

// New builds the model. humanPlayer indexes the session's player
// list; rng deals the rounds.
func New(session *game.Session, humanPlayer int, rng *rand.Rand, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "draw, pick, discard <n>, declare, drop, help"
	ti.Focus()
	ti.CharLimit = 60
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		session:     session,
		rng:         rng,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		humanPlayer: humanPlayer,
	}
}

// Init deals the first round.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startRound)
}

// startRound deals the next round into the session. The session's
// round-started notification comes back as a SessionEventMsg.
func (m *Model) startRound() tea.Msg {
	g := m.session.Game()
	seats := g.ActivePlayers()
	r, err := game.NewRound(len(seats), g.Dealer%len(seats), m.rng)
	if err != nil {
		return errMsg{err}
	}
	if err := m.session.StartRound(r, seats); err != nil {
		return errMsg{err}
	}
	return nil
}

type errMsg struct{ err error }

type actionRejectedMsg struct{}

// sessionCmd runs a session intent off the Bubble Tea event loop.
// Intents deliver session notifications synchronously, and
// program.Send cannot be serviced while Update is running, so calling
// an intent from Update directly would block the loop on itself.
func sessionCmd(do func() bool) tea.Cmd {
	return func() tea.Msg {
		if !do() {
			return actionRejectedMsg{}
		}
		return nil
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case errMsg:
		m.appendLog(ErrorStyle.Render(msg.err.Error()))

	case actionRejectedMsg:
		m.appendLog(ErrorStyle.Render("that move isn't available right now"))

	case SessionEventMsg:
		if cmd := m.handleEvent(msg.Event); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 2
		logHeight := msg.Height - 10
		if logHeight < 3 {
			logHeight = 3
		}
		m.logViewport.Height = logHeight
		m.refreshLog()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.session.Reset()
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			input := strings.TrimSpace(m.actionInput.Value())
			m.actionInput.SetValue("")
			if cmd := m.processCommand(input); cmd != nil {
				cmds = append(cmds, cmd)
			}
			if m.quitting {
				return m, tea.Sequence(tea.ClearScreen, tea.Quit)
			}
		}
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(e game.Event) tea.Cmd {
	g := m.session.Game()
	switch e.Kind {
	case game.EventRoundStarted:
		if table, ok := m.session.Table(m.humanSeat()); ok {
			m.seats = table.Seats
		}
		m.appendLog(TurnStyle.Render(fmt.Sprintf("--- round %d ---", len(g.History)+1)))
		m.appendLog(fmt.Sprintf("%s opens the round", g.Players[e.Player].Name))

	case game.EventActionApplied:
		m.appendLog(m.describeAction(e))

	case game.EventRoundEnded:
		m.logRoundResult(e.Result)
		if g.Finished {
			break
		}
		if g.Eliminated[m.humanPlayer] {
			// Hold the deal so the player can buy back in.
			m.appendLog(InfoStyle.Render("you are out: type rejoin to buy back in, next to keep watching"))
			return nil
		}
		return m.startRound

	case game.EventGameEnded:
		m.gameOver = true
		m.appendLog(SuccessStyle.Render(
			fmt.Sprintf("%s wins the game! Final scores: %s", g.Players[e.Player].Name, m.scoreLine())))
		m.appendLog(InfoStyle.Render("press esc to exit"))
	}
	return nil
}

func (m *Model) describeAction(e game.Event) string {
	name := m.session.Game().Players[e.Player].Name
	switch e.Action.Kind {
	case game.ActionDrawDeck:
		return fmt.Sprintf("%s drew from the deck", name)
	case game.ActionDrawDiscard:
		return fmt.Sprintf("%s picked up the discard", name)
	case game.ActionDiscard:
		// The discarded card sits on top of the pile now.
		if table, ok := m.session.Table(-1); ok && table.TopDiscard != nil {
			return fmt.Sprintf("%s discarded %s", name, styledCard(*table.TopDiscard))
		}
		return fmt.Sprintf("%s discarded", name)
	case game.ActionDrop:
		return fmt.Sprintf("%s dropped out", name)
	case game.ActionDeclare:
		return TurnStyle.Render(fmt.Sprintf("%s declared!", name))
	default:
		return fmt.Sprintf("%s acted", name)
	}
}

func (m *Model) logRoundResult(res *game.RoundResult) {
	if res == nil {
		return
	}
	g := m.session.Game()
	for seat, outcome := range res.Outcomes {
		if seat >= len(m.seats) {
			break
		}
		name := g.Players[m.seats[seat]].Name
		switch outcome {
		case game.OutcomeWinner:
			m.appendLog(SuccessStyle.Render(fmt.Sprintf("%s wins the round", name)))
		case game.OutcomeInvalidDeclare:
			m.appendLog(ErrorStyle.Render(fmt.Sprintf("%s declared invalid: +%d", name, res.Scores[seat])))
		default:
			m.appendLog(fmt.Sprintf("%s: %s, +%d", name, outcome, res.Scores[seat]))
		}
	}
	m.appendLog(InfoStyle.Render("totals: " + m.scoreLine()))
	for i, out := range g.Eliminated {
		if out {
			m.appendLog(InfoStyle.Render(g.Players[i].Name + " is eliminated"))
		}
	}
}

func (m *Model) scoreLine() string {
	g := m.session.Game()
	parts := make([]string, len(g.Players))
	for i, p := range g.Players {
		parts[i] = fmt.Sprintf("%s %d", p.Name, g.Scores[i])
	}
	return strings.Join(parts, ", ")
}

// humanSeat returns the human's seat in the running round, or -1.
func (m *Model) humanSeat() int {
	for seat, player := range m.seats {
		if player == m.humanPlayer {
			return seat
		}
	}
	return -1
}

func (m *Model) processCommand(input string) tea.Cmd {
	if input == "" {
		return nil
	}
	fields := strings.Fields(strings.ToLower(input))
	switch fields[0] {
	case "quit", "q":
		m.quitting = true
		m.session.Reset()
		return nil
	case "help", "?":
		m.appendLog(InfoStyle.Render("draw (d)  pick (p)  discard <n> (x <n>)  declare  drop  rejoin  next  quit"))
		return nil
	case "draw", "d":
		return sessionCmd(func() bool { return m.session.Draw(false) })
	case "pick", "p":
		return sessionCmd(func() bool { return m.session.Draw(true) })
	case "drop":
		return sessionCmd(m.session.Drop)
	case "discard", "x":
		if len(fields) < 2 {
			m.appendLog(ErrorStyle.Render("usage: discard <card number>"))
			return nil
		}
		n, err := strconv.Atoi(fields[1])
		table, ok := m.session.Table(m.humanSeat())
		if err != nil || !ok || n < 1 || n > len(table.Hand) {
			m.appendLog(ErrorStyle.Render("no such card"))
			return nil
		}
		id := table.Hand[n-1].ID
		return sessionCmd(func() bool { return m.session.DiscardCard(id) })
	case "declare":
		table, ok := m.session.Table(m.humanSeat())
		if !ok {
			m.appendLog(ErrorStyle.Render("no round in progress"))
			return nil
		}
		out, arr, found := arrange.FindDeclaration(table.Hand)
		if !found {
			m.appendLog(ErrorStyle.Render("your hand has no winning arrangement yet"))
			return nil
		}
		melds := make([][]deck.Card, len(arr.Melds))
		for i, md := range arr.Melds {
			melds[i] = md.Cards
		}
		return sessionCmd(func() bool { return m.session.Declare(out.ID, melds) })
	case "rejoin":
		if !m.session.Rejoin(m.humanPlayer) {
			m.appendLog(ErrorStyle.Render("rejoin isn't available"))
			return nil
		}
		m.appendLog(SuccessStyle.Render("you're back in"))
		return m.startRound
	case "next":
		if m.session.Game().Finished {
			m.appendLog(ErrorStyle.Render("the game is over"))
			return nil
		}
		return m.startRound
	default:
		m.appendLog(ErrorStyle.Render("unknown command, try help"))
	}
	return nil
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	if len(m.gameLog) > 200 {
		m.gameLog = m.gameLog[len(m.gameLog)-200:]
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	g := m.session.Game()
	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" Rummy (%s) ", g.Config.Variant)))
	b.WriteString("\n")

	if table, ok := m.session.Table(m.humanSeat()); ok {
		b.WriteString(m.renderTable(table))
	} else if m.gameOver {
		b.WriteString(InfoStyle.Render("game over"))
		b.WriteString("\n")
	} else {
		b.WriteString(InfoStyle.Render("shuffling..."))
		b.WriteString("\n")
	}

	b.WriteString(m.logViewport.View())
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	return b.String()
}

func (m *Model) renderTable(table game.TableView) string {
	g := m.session.Game()
	var b strings.Builder

	for seat, player := range table.Seats {
		marker := "  "
		if seat == table.Current {
			marker = TurnStyle.Render("->")
		}
		status := fmt.Sprintf("%d cards", table.HandCounts[seat])
		if table.Dropped[seat] {
			status = InfoStyle.Render("dropped")
		}
		fmt.Fprintf(&b, "%s %-10s %s  score %d\n",
			marker, g.Players[player].Name, status, g.Scores[player])
	}

	top := "(empty)"
	if table.TopDiscard != nil {
		top = styledCard(*table.TopDiscard)
	}
	fmt.Fprintf(&b, "deck %d  discard %s  wild %s  phase %s\n",
		table.DrawCount, top, styledCard(table.Indicator), table.Phase)

	seat := m.humanSeat()
	if seat >= 0 && !table.Dropped[seat] {
		b.WriteString("hand: ")
		for i, c := range table.Hand {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%d:%s", i+1, styledCard(c))
		}
		arr := arrange.Best(table.Hand)
		fmt.Fprintf(&b, "\ndeadwood %d", arr.DeadwoodPoints())
		if seat == table.Current {
			b.WriteString(TurnStyle.Render("  your turn"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func styledCard(c deck.Card) string {
	switch {
	case c.Joker == deck.JokerPrinted:
		return JokerCardStyle.Render(c.String())
	case c.Joker == deck.JokerWild:
		return JokerCardStyle.Render(c.String())
	case c.Suit.IsRed():
		return RedCardStyle.Render(c.String())
	default:
		return BlackCardStyle.Render(c.String())
	}
}

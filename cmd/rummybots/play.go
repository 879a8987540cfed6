package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/playrummy/rummybots/internal/game"
	"github.com/playrummy/rummybots/internal/randutil"
	"github.com/playrummy/rummybots/internal/sched"
	"github.com/playrummy/rummybots/internal/store"
	"github.com/playrummy/rummybots/internal/tui"
)

// PlayCmd runs an interactive game against the configured bots.
type PlayCmd struct {
	Name   string `short:"n" default:"You" help:"Your display name"`
	Seed   int64  `default:"0" help:"Deal seed (0 = time-based)"`
	Resume bool   `short:"r" help:"Resume the saved game if one exists"`
}

func (cmd *PlayCmd) Run(cli *CLI) error {
	appCfg, err := LoadAppConfig(cli.Config)
	if err != nil {
		return err
	}
	cfg, err := appCfg.GameConfig()
	if err != nil {
		return err
	}
	if len(appCfg.Bots) < 1 {
		return fmt.Errorf("interactive play needs at least 1 bot opponent")
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	dataDir, err := dataDir()
	if err != nil {
		return err
	}

	// Stderr belongs to the TUI while it runs; logs go to a file the
	// way the networked client does it.
	logFile, err := os.OpenFile(filepath.Join(dataDir, "rummybots.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := log.New(logFile)
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	logger.Info("starting interactive game", "seed", seed, "variant", cfg.Variant.String())

	players := []game.Player{{ID: "human", Name: cmd.Name}}
	agents := []game.Agent{nil}
	bots, err := appCfg.BotAgents(seed)
	if err != nil {
		return err
	}
	for i, b := range bots {
		players = append(players, game.Player{ID: fmt.Sprintf("bot-%d", i), Name: appCfg.Bots[i].Name, Bot: true})
		agents = append(agents, b)
	}

	g, err := game.NewGame(players, cfg)
	if err != nil {
		return err
	}

	snaps, err := store.New(filepath.Join(dataDir, "snapshots"), logger)
	if err != nil {
		return err
	}
	defer snaps.Close()

	if cmd.Resume {
		if resumeGame(snaps, snapshotKey, g) {
			logger.Info("resumed saved game", "rounds", len(g.History), "scores", g.Scores)
		} else {
			logger.Info("no resumable game, starting fresh")
		}
	}

	// The program is created after the session, so the notify closure
	// captures it through the variable. Events only flow once the
	// model's Init deals the first round, by which point Run is live.
	var program *tea.Program
	notify := func(e game.Event) {
		if program != nil {
			program.Send(tui.SessionEventMsg{Event: e})
		}
	}
	session, err := game.NewSession(g, agents, sched.New(nil), logger, snaps, snapshotKey, notify)
	if err != nil {
		return err
	}

	lipgloss.SetColorProfile(termenv.ColorProfile())
	model := tui.New(session, 0, randutil.New(seed), logger)
	program = tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	session.Reset()
	if g.Finished {
		snaps.Remove(snapshotKey)
	}
	return nil
}

// snapshotKey names the single saved game the play command keeps.
const snapshotKey = "game"

// resumeGame replaces g with the saved snapshot when one exists, is
// unfinished, and still matches the configured table size.
func resumeGame(snaps *store.SnapshotStore, key string, g *game.Game) bool {
	var saved game.Game
	if err := snaps.Load(key, &saved); err != nil {
		return false
	}
	if saved.Finished || len(saved.Players) != len(g.Players) {
		return false
	}
	*g = saved
	return true
}

func dataDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "rummybots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	return dir, nil
}

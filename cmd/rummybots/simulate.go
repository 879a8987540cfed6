package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playrummy/rummybots/internal/game"
	"github.com/playrummy/rummybots/internal/randutil"
)

// SimulateCmd plays the configured bot lineup against itself many
// times over a worker pool and prints per-bot statistics.
type SimulateCmd struct {
	Games   int   `default:"500" help:"Number of games to play"`
	Seed    int64 `default:"1" help:"Base RNG seed; game i uses a seed derived from it"`
	Workers int   `default:"0" help:"Parallel workers (0 = GOMAXPROCS)"`
}

type simTally struct {
	mu     sync.Mutex
	wins   []int
	score  []int64
	rounds int
}

func (cmd *SimulateCmd) Run(cli *CLI) error {
	logger := newLogger(cli.Debug)

	appCfg, err := LoadAppConfig(cli.Config)
	if err != nil {
		return err
	}
	cfg, err := appCfg.GameConfig()
	if err != nil {
		return err
	}
	if len(appCfg.Bots) < 2 {
		return fmt.Errorf("simulation needs at least 2 bots, got %d", len(appCfg.Bots))
	}

	players := make([]game.Player, len(appCfg.Bots))
	for i, b := range appCfg.Bots {
		players[i] = game.Player{ID: fmt.Sprintf("bot-%d", i), Name: b.Name, Bot: true}
	}

	workers := cmd.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tally := &simTally{
		wins:  make([]int, len(players)),
		score: make([]int64, len(players)),
	}

	start := time.Now()
	eg, _ := errgroup.WithContext(context.Background())
	eg.SetLimit(workers)
	for i := 0; i < cmd.Games; i++ {
		gameSeed := randutil.Derive(cmd.Seed, i)
		eg.Go(func() error {
			agents, err := appCfg.BotAgents(gameSeed)
			if err != nil {
				return err
			}
			gameAgents := make([]game.Agent, len(agents))
			for j, a := range agents {
				gameAgents[j] = a
			}

			g, err := game.NewGame(players, cfg)
			if err != nil {
				return err
			}
			engine := game.NewEngine(gameAgents, randutil.New(gameSeed), logger, nil, "")
			winner, err := engine.PlayGame(g)
			if err != nil {
				return fmt.Errorf("game with seed %d: %w", gameSeed, err)
			}

			tally.mu.Lock()
			tally.wins[winner]++
			tally.rounds += len(g.History)
			for p, s := range g.Scores {
				tally.score[p] += int64(s)
			}
			tally.mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Simulated %d %s games in %s (%d rounds, %d workers)\n\n",
		cmd.Games, cfg.Variant, elapsed.Round(time.Millisecond), tally.rounds, workers)
	fmt.Printf("%-12s %-8s %8s %8s %12s\n", "Bot", "Tier", "Wins", "Win %", "Avg score")
	for i, p := range players {
		fmt.Printf("%-12s %-8s %8d %7.1f%% %12.1f\n",
			p.Name,
			appCfg.Bots[i].Difficulty,
			tally.wins[i],
			100*float64(tally.wins[i])/float64(cmd.Games),
			float64(tally.score[i])/float64(cmd.Games))
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/playrummy/rummybots/internal/bot"
	"github.com/playrummy/rummybots/internal/game"
)

// AppConfig is the HCL file shape: one game block plus any number of
// labeled bot blocks.
type AppConfig struct {
	Game GameSettings `hcl:"game,block"`
	Bots []BotBlock   `hcl:"bot,block"`
}

// GameSettings configures the scoring variant and penalties.
type GameSettings struct {
	Variant               string `hcl:"variant,optional"`
	PoolLimit             int    `hcl:"pool_limit,optional"`
	DealsRounds           int    `hcl:"deals_rounds,optional"`
	FirstDropPenalty      int    `hcl:"first_drop_penalty,optional"`
	MiddleDropPenalty     int    `hcl:"middle_drop_penalty,optional"`
	InvalidDeclarePenalty int    `hcl:"invalid_declare_penalty,optional"`
	MaxRoundScore         int    `hcl:"max_round_score,optional"`
}

// BotBlock names one computer opponent.
type BotBlock struct {
	Name       string `hcl:"name,label"`
	Difficulty string `hcl:"difficulty"`
}

// DefaultAppConfig is a 101-pool game against one bot of each tier.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Game: GameSettings{Variant: "pool", PoolLimit: 101},
		Bots: []BotBlock{
			{Name: "Asha", Difficulty: "easy"},
			{Name: "Binod", Difficulty: "medium"},
			{Name: "Chitra", Difficulty: "hard"},
		},
	}
}

// LoadAppConfig reads the HCL config, falling back to defaults when
// the file does not exist.
func LoadAppConfig(filename string) (*AppConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultAppConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %s", filename, diags.Error())
	}

	var config AppConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %s", filename, diags.Error())
	}
	if len(config.Bots) == 0 {
		config.Bots = DefaultAppConfig().Bots
	}
	return &config, nil
}

// GameConfig converts the file settings to engine config, applying
// defaults for everything left unset.
func (c *AppConfig) GameConfig() (game.Config, error) {
	cfg := game.DefaultConfig()
	switch c.Game.Variant {
	case "", "pool":
		cfg.Variant = game.Pool
	case "deals":
		cfg.Variant = game.Deals
	case "points":
		cfg.Variant = game.Points
	default:
		return cfg, fmt.Errorf("unknown variant %q (want pool, deals or points)", c.Game.Variant)
	}
	if c.Game.PoolLimit > 0 {
		cfg.PoolLimit = c.Game.PoolLimit
	}
	if c.Game.DealsRounds > 0 {
		cfg.DealsRounds = c.Game.DealsRounds
	}
	if c.Game.FirstDropPenalty > 0 {
		cfg.FirstDropPenalty = c.Game.FirstDropPenalty
	}
	if c.Game.MiddleDropPenalty > 0 {
		cfg.MiddleDropPenalty = c.Game.MiddleDropPenalty
	}
	if c.Game.InvalidDeclarePenalty > 0 {
		cfg.InvalidDeclarePenalty = c.Game.InvalidDeclarePenalty
	}
	if c.Game.MaxRoundScore > 0 {
		cfg.MaxRoundScore = c.Game.MaxRoundScore
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// BotAgents builds the configured bot lineup, seeded from the game seed.
func (c *AppConfig) BotAgents(seed int64) ([]*bot.Agent, error) {
	agents := make([]*bot.Agent, len(c.Bots))
	for i, b := range c.Bots {
		d, err := bot.ParseDifficulty(b.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("bot %q: %w", b.Name, err)
		}
		agents[i] = bot.New(d, seed+int64(i)+1)
	}
	return agents, nil
}

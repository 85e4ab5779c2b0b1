package main

import (
	"github.com/spf13/cobra"

	"github.com/park285/Cheese-Checkers/internal/config"
)

// boardFlags selects the starting position.
type boardFlags struct {
	layout string
	tokens []string
}

func (f *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "Starting layout: classic, empty or custom")
	cmd.Flags().StringSliceVar(&f.tokens, "tokens", nil, "Custom layout tokens such as RB1,BC8K")
}

func (f *boardFlags) apply(cmd *cobra.Command, cfg *config.AppConfig) {
	if cmd.Flags().Changed("layout") {
		cfg.Layout = f.layout
	}
	if cmd.Flags().Changed("tokens") {
		cfg.Tokens = f.tokens
		if !cmd.Flags().Changed("layout") {
			cfg.Layout = "custom"
		}
	}
}

// gameFlags are the rule and search settings shared by play and selfplay.
type gameFlags struct {
	boardFlags
	depth    int
	blockade string
	maxPlies int
	seed     int64
}

func (f *gameFlags) register(cmd *cobra.Command) {
	f.boardFlags.register(cmd)
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 0, "Override the minimax search depth")
	cmd.Flags().StringVar(&f.blockade, "blockade", "", "A side with no legal move: tie or loss")
	cmd.Flags().IntVar(&f.maxPlies, "max-plies", 0, "End the game as a tie after this many plies")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed for computer players")
}

func (f *gameFlags) apply(cmd *cobra.Command, cfg *config.AppConfig) error {
	f.boardFlags.apply(cmd, cfg)
	if cmd.Flags().Changed("depth") {
		cfg.Depth = f.depth
	}
	if cmd.Flags().Changed("blockade") {
		cfg.Blockade = f.blockade
	}
	if cmd.Flags().Changed("max-plies") {
		cfg.MaxPlies = f.maxPlies
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
	return cfg.Validate()
}

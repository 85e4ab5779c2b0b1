package main

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/park285/Cheese-Checkers/internal/selfplay"
)

const spinnerSet = 14

func SelfPlay(a *app) *cobra.Command {
	var (
		flags    gameFlags
		player   string
		opponent string
		games    int
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Play a batch of computer games and report the score",
		Long: heredoc.Doc(`
			selfplay plays --games games between two presets, alternating
			colors, and prints the first preset's score with an Elo estimate.
			Games are stored in Postgres when DATABASE_URL is set.
		`),
		Example: heredoc.Doc(`
			$ checkers selfplay --player minimax3 --opponent jumps --games 50 --workers 4
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			mode, err := a.deps.LayoutMode()
			if err != nil {
				return err
			}
			rule, err := a.deps.Blockade()
			if err != nil {
				return err
			}
			store, err := a.deps.Store(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			deps := a.deps.SelectorDeps()
			runner, err := selfplay.NewRunner(selfplay.Config{
				Player:   player,
				Opponent: opponent,
				Games:    games,
				Workers:  workers,
				MaxPlies: a.cfg.MaxPlies,
				Blockade: rule,
				Layout:   mode,
				Tokens:   a.cfg.Tokens,
				Seed:     a.cfg.Seed,
				Deps:     deps,
			}, store, a.logger)
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[spinnerSet], 100*time.Millisecond)
			s.Writer = cmd.ErrOrStderr()
			s.Suffix = fmt.Sprintf(" 0/%d games", games)
			s.Start()
			rep, err := runner.Run(cmd.Context(), func(done, total int) {
				s.Lock()
				s.Suffix = fmt.Sprintf(" %d/%d games", done, total)
				s.Unlock()
			})
			s.Stop()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.text.Match(rep))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&player, "player", "minimax3", "Preset whose score is reported")
	cmd.Flags().StringVar(&opponent, "opponent", "jumps", "Opposing preset")
	cmd.Flags().IntVarP(&games, "games", "n", 20, "Number of games")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Games played concurrently")
	return cmd
}

package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/adapter/presenter"
	"github.com/park285/Cheese-Checkers/internal/builder"
	"github.com/park285/Cheese-Checkers/internal/config"
	"github.com/park285/Cheese-Checkers/internal/obslog"
)

// app holds what PersistentPreRunE builds for the subcommands.
type app struct {
	cfg    *config.AppConfig
	deps   *builder.Deps
	logger *zap.Logger
	text   *presenter.Formatter
}

func Root() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "checkers",
		Short: "Play checkers against search and language-model opponents",
		Long: heredoc.Doc(`
			checkers plays 8x8 checkers on the console. Either side can be a
			human or a computer preset (random, jumps, minimax1-6, oracle).
			Computer moves can be forwarded to a robot arm controller.

			Settings come from a YAML file, then CHECKERS_* environment
			variables, then flags.
		`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.deps == nil {
				return nil
			}
			_ = a.logger.Sync()
			return a.deps.Close()
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().BoolP("trace", "t", false, "Log at debug level")

	root.AddCommand(Play(a))
	root.AddCommand(SelfPlay(a))
	root.AddCommand(Snapshot(a))
	root.AddCommand(Moves(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	opts := obslog.OptionsFromEnv()
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		opts.Level = "debug"
	}
	if err := obslog.Init(opts); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.logger = obslog.L()
	if cfg.Source != "" {
		a.logger.Debug("config_loaded", zap.String("path", cfg.Source))
	}

	deps, err := builder.New(cmd.Context(), cfg, a.logger)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.deps = deps
	a.text = presenter.NewFormatter(deps.Catalog)
	return nil
}

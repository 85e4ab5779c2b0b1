package main

import (
	"github.com/spf13/cobra"

	"github.com/park285/Cheese-Checkers/internal/adapter/presenter"
	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/game"
)

func Moves(a *app) *cobra.Command {
	var (
		flags boardFlags
		color string
	)
	cmd := &cobra.Command{
		Use:     "moves",
		Short:   "Print a layout and the legal moves of one side",
		Example: "  $ checkers moves --tokens RB3,BC4 --color red",
		Args:    cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a.cfg)
			c, err := checkers.ParseColor(color)
			if err != nil {
				return err
			}
			src, err := a.deps.Layout()
			if err != nil {
				return err
			}
			b, err := game.NewBoardFrom(cmd.Context(), src)
			if err != nil {
				return err
			}
			p := presenter.NewPresenter(cmd.OutOrStdout(), a.text)
			p.Board(b)
			p.Line(a.text.Moves(b, c))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&color, "color", "red", "Side whose moves are listed")
	return cmd
}

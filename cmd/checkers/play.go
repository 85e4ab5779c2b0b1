package main

import (
	"context"
	"errors"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/park285/Cheese-Checkers/internal/adapter/presenter"
	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/game"
)

func Play(a *app) *cobra.Command {
	var (
		flags gameFlags
		red   string
		black string
		first string
		robot string
		wsURL string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game on the console",
		Long: heredoc.Doc(`
			play runs one game. Enter moves as two squares, for example
			"B3 A4". After a capture that allows another, enter the next
			jump with the same piece.
		`),
		Example: heredoc.Doc(`
			$ checkers play --black expert
			$ checkers play --red jumps --black minimax4 --max-plies 200
			$ checkers play --tokens RB1,BC2,BC4 --black random
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("red") {
				a.cfg.Red = red
			}
			if cmd.Flags().Changed("black") {
				a.cfg.Black = black
			}
			if cmd.Flags().Changed("robot") {
				a.cfg.Robot.Mode = robot
			}
			if cmd.Flags().Changed("robot-url") {
				a.cfg.Robot.WSURL = wsURL
			}
			firstColor, err := checkers.ParseColor(first)
			if err != nil {
				return err
			}
			return a.play(cmd.Context(), firstColor, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&red, "red", "", "Red player: human or a preset name")
	cmd.Flags().StringVar(&black, "black", "", "Black player: human or a preset name")
	cmd.Flags().StringVar(&first, "first", "red", "Side that moves first")
	cmd.Flags().StringVar(&robot, "robot", "", "Robot output: none, dryrun or ws")
	cmd.Flags().StringVar(&wsURL, "robot-url", "", "Robot controller websocket URL")
	return cmd
}

func (a *app) play(ctx context.Context, first checkers.Color, in io.Reader, out io.Writer) error {
	red, black, err := a.deps.Players()
	if err != nil {
		return err
	}
	src, err := a.deps.Layout()
	if err != nil {
		return err
	}
	b, err := game.NewBoardFrom(ctx, src)
	if err != nil {
		return err
	}
	rule, err := a.deps.Blockade()
	if err != nil {
		return err
	}
	s := game.NewSession(b, game.Options{
		First:    first,
		Blockade: rule,
		MaxPlies: a.cfg.MaxPlies,
		Logger:   a.logger,
	})
	sink, err := a.deps.Sink(s.ID())
	if err != nil {
		return err
	}

	p := presenter.NewPresenter(out, a.text)
	r := &game.Runner{
		Session: s,
		Red:     red,
		Black:   black,
		Input:   game.NewConsoleInput(in, out, a.text.Prompt),
		Sink:    sink,
		Logger:  a.logger,
		OnPly: func(ply game.Ply) {
			name := red.Name
			if ply.Color == checkers.Black {
				name = black.Name
			}
			p.Ply(name, ply)
		},
	}
	if !red.Human() && !black.Human() {
		p.Board(b)
	}
	_, err = r.Run(ctx)
	if errors.Is(err, game.ErrInputClosed) {
		err = nil
	}
	p.Result(s)
	return err
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/game"
	"github.com/park285/Cheese-Checkers/internal/render"
)

func Snapshot(a *app) *cobra.Command {
	var (
		flags boardFlags
		out   string
		size  int
		title string
		show  string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a layout to a PNG file",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a.cfg)
			src, err := a.deps.Layout()
			if err != nil {
				return err
			}
			b, err := game.NewBoardFrom(cmd.Context(), src)
			if err != nil {
				return err
			}
			opts := render.Options{SquareSize: size, Title: title}
			if show != "" {
				c, err := checkers.ParseColor(show)
				if err != nil {
					return err
				}
				opts.Highlight = b.AllMoves(c)
			}
			png, err := render.NewPNGRenderer().RenderPNG(cmd.Context(), b, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.text.SnapshotSaved(out, len(png)))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "board.png", "Output file")
	cmd.Flags().IntVar(&size, "square", 64, "Square size in pixels")
	cmd.Flags().StringVar(&title, "title", "", "Caption drawn above the board")
	cmd.Flags().StringVar(&show, "show-moves", "", "Highlight the legal moves of red or black")
	return cmd
}

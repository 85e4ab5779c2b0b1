package game

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

// LayoutSource supplies the starting position, e.g. from a camera reading.
type LayoutSource interface {
	Layout(ctx context.Context) (checkers.LayoutMode, []string, error)
}

// MoveSink receives each computer ply as text and blocks until the move has
// been carried out, e.g. by a robot arm. Close signals the end of the game.
type MoveSink interface {
	Deliver(ctx context.Context, ply Ply) error
	Close(ctx context.Context) error
}

// HumanInput reads one sub-move from a person.
type HumanInput interface {
	ReadMove(ctx context.Context, prompt HumanPrompt) (string, error)
}

// HumanPrompt tells the person whose turn it is, whether a jump must be
// continued, and why the previous entry was rejected.
type HumanPrompt struct {
	Color      checkers.Color
	Restricted *checkers.Square
	LastError  error
	Board      *checkers.Board
}

// StaticLayout is a LayoutSource with a fixed answer.
type StaticLayout struct {
	Mode   checkers.LayoutMode
	Tokens []string
}

func (s StaticLayout) Layout(ctx context.Context) (checkers.LayoutMode, []string, error) {
	return s.Mode, append([]string(nil), s.Tokens...), nil
}

// NewBoardFrom builds a board from a LayoutSource.
func NewBoardFrom(ctx context.Context, src LayoutSource) (*checkers.Board, error) {
	mode, tokens, err := src.Layout(ctx)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return checkers.NewBoard(mode, tokens)
}

// ErrInputClosed is returned when the human input stream ends.
var ErrInputClosed = errors.New("input closed")

// ConsoleInput prompts on Out and reads lines from In.
type ConsoleInput struct {
	in     *bufio.Reader
	out    io.Writer
	render func(HumanPrompt) string
}

// NewConsoleInput uses render to produce the prompt text.
func NewConsoleInput(in io.Reader, out io.Writer, render func(HumanPrompt) string) *ConsoleInput {
	return &ConsoleInput{in: bufio.NewReader(in), out: out, render: render}
}

func (c *ConsoleInput) ReadMove(ctx context.Context, prompt HumanPrompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.render != nil {
		fmt.Fprint(c.out, c.render(prompt))
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// CrownPlacer is implemented by sinks whose device crowns a promoted piece
// as part of executing the ply.
type CrownPlacer interface {
	PlacesCrowns() bool
}

// NopSink discards plies.
type NopSink struct{}

func (NopSink) Deliver(ctx context.Context, ply Ply) error { return nil }
func (NopSink) Close(ctx context.Context) error { return nil }

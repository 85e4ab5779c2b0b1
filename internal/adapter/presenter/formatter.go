// Package presenter turns game state into console text.
package presenter

import (
	"errors"
	"strings"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/game"
	"github.com/park285/Cheese-Checkers/internal/msgcat"
	"github.com/park285/Cheese-Checkers/pkg/checkersdto"
)

// Formatter renders game events through a message catalog.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	if cat == nil {
		cat = msgcat.MustDefault()
	}
	return &Formatter{cat: cat}
}

// Prompt is the text shown before a human enters a sub-move.
func (f *Formatter) Prompt(p game.HumanPrompt) string {
	var sb strings.Builder
	if p.Board != nil {
		sb.WriteString(p.Board.String())
		sb.WriteString("\n")
	}
	if p.LastError != nil {
		sb.WriteString(f.Error(p.LastError, p.Restricted))
		sb.WriteString("\n")
	}
	if p.Restricted != nil {
		sb.WriteString(f.cat.Text("prompt.continue", map[string]any{"Color": p.Color.String(), "Square": p.Restricted.String()}))
	} else {
		sb.WriteString(f.cat.Text("prompt.turn", map[string]any{"Color": p.Color.String()}))
	}
	sb.WriteString("\n")
	sb.WriteString(f.cat.Text("prompt.enter", nil))
	return sb.String()
}

// Error renders err; restricted fills in the must-continue square.
func (f *Formatter) Error(err error, restricted *checkers.Square) string {
	de := ToDomainError(err)
	data := map[string]any{"Detail": de.Message, "Square": ""}
	if restricted != nil {
		data["Square"] = restricted.String()
	}
	if s, rerr := f.cat.Render("error."+de.Code, data); rerr == nil {
		return s
	}
	return f.cat.Text("error.generic", map[string]any{"Detail": de.Message})
}

// Ply describes a completed turn.
func (f *Formatter) Ply(player string, ply game.Ply) string {
	return f.cat.Text("ply.played", map[string]any{
		"Player":   player,
		"Color":    ply.Color.String(),
		"Move":     ply.Text(),
		"Captures": ply.Captures,
		"Promoted": ply.Promoted,
	})
}

func (f *Formatter) Result(res game.Result, reason string) string {
	return f.cat.Text("result."+res.String(), map[string]any{"Reason": strings.ReplaceAll(reason, "_", " ")})
}

// Moves lists every legal move of color on b, moves before jumps per piece.
func (f *Formatter) Moves(b *checkers.Board, color checkers.Color) string {
	moves := b.AllMoves(color)
	if len(moves) == 0 {
		return f.cat.Text("moves.none", map[string]any{"Color": color.String()})
	}
	lines := []string{f.cat.Text("moves.header", map[string]any{"Color": color.String()})}
	for _, m := range moves {
		lines = append(lines, f.cat.Text("moves.line", map[string]any{"Move": m.String(), "Jump": m.IsJump()}))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) Match(rep checkersdto.MatchReport) string {
	return f.cat.Text("selfplay.summary", rep) + "\n" + f.cat.Text("selfplay.run", rep)
}

func (f *Formatter) SnapshotSaved(path string, n int) string {
	return f.cat.Text("snapshot.saved", map[string]any{"Path": path, "Bytes": n})
}

// ToDomainError classifies err into a stable code.
func ToDomainError(err error) checkersdto.DomainError {
	if err == nil {
		return checkersdto.DomainError{}
	}
	var de checkersdto.DomainError
	if errors.As(err, &de) {
		return de
	}
	codes := []struct {
		target error
		code   string
	}{
		{checkers.ErrInvalidInput, "invalid_input"},
		{checkers.ErrNoPiece, "no_piece"},
		{checkers.ErrWrongColor, "wrong_color"},
		{checkers.ErrMustContinueJump, "must_continue"},
		{checkers.ErrIllegalMove, "illegal_move"},
		{game.ErrGameOver, "game_over"},
	}
	for _, c := range codes {
		if errors.Is(err, c.target) {
			return checkersdto.DomainError{Code: c.code, Message: err.Error(), Retryable: checkers.IsUserError(err)}
		}
	}
	if errors.Is(err, checkers.ErrInvariant) {
		return checkersdto.DomainError{Code: "invariant", Message: err.Error()}
	}
	return checkersdto.DomainError{Code: "generic", Message: err.Error()}
}

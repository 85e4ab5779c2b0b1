// Package selector implements the move-choosing strategies used by computer
// players: Random, PreferJumps, Minimax and an external Oracle.
package selector

import (
	"context"
	"errors"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/pkg/checkersdto"
)

// ErrNoMoves is returned when the side to move has no legal move.
var ErrNoMoves = errors.New("no legal moves")

// Selector picks one move for color. When restricted is non-nil a multi-jump
// is in progress and the move must be a jump by the piece on *restricted.
type Selector interface {
	Name() string
	Select(ctx context.Context, b *checkers.Board, color checkers.Color, restricted *checkers.Square) (checkers.Move, error)
}

// MoveOracle is an external advisor, typically a language model, that
// proposes a move from a board snapshot.
type MoveOracle interface {
	Suggest(ctx context.Context, snap checkersdto.Snapshot) (checkersdto.Candidate, error)
}

// restrictedPiece resolves the piece that must continue jumping.
func restrictedPiece(b *checkers.Board, color checkers.Color, at checkers.Square) (*checkers.Piece, error) {
	if !at.InBounds() {
		return nil, ErrNoMoves
	}
	p := b.PieceAt(at)
	if p == nil || p.Color() != color {
		return nil, ErrNoMoves
	}
	return p, nil
}

// movable lists the pieces of color with at least one legal move, in roster
// order.
func movable(b *checkers.Board, color checkers.Color) []*checkers.Piece {
	var out []*checkers.Piece
	for _, p := range b.PiecesOfColor(color) {
		if len(b.LegalMovesAndJumps(p, false)) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Snapshot describes b for an oracle with color to move.
func Snapshot(b *checkers.Board, color checkers.Color) checkersdto.Snapshot {
	snap := checkersdto.Snapshot{Turn: color.String(), Layout: b.LayoutTokens()}
	for _, c := range checkers.Colors {
		for i, p := range b.PiecesOfColor(c) {
			info := checkersdto.PieceInfo{
				Index: i,
				Color: c.String(),
				Row:   p.Location().Row,
				Col:   p.Location().Col,
				King:  p.King(),
			}
			for _, d := range b.LegalMovesAndJumps(p, false) {
				info.ValidMoves = append(info.ValidMoves, [2]int{d.Row, d.Col})
			}
			if c == checkers.Red {
				snap.Red = append(snap.Red, info)
			} else {
				snap.Black = append(snap.Black, info)
			}
		}
	}
	return snap
}

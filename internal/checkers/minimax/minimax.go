// Package minimax searches the checkers game tree on cloned boards.
package minimax

import (
	"context"
	"math"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

// Result is the outcome of a search. Move is nil when the root is terminal.
type Result struct {
	Score float64
	Move  *checkers.Move
	Nodes int
}

// Evaluate scores b from perspective's point of view: material difference,
// minus opposing kings, plus five per own king.
func Evaluate(b *checkers.Board, perspective checkers.Color) float64 {
	opp := perspective.Opponent()
	own, theirs := b.Count(perspective), b.Count(opp)
	return float64(own-theirs) - float64(b.KingCount(opp)) + 5*float64(b.KingCount(perspective))
}

// Search runs a depth-limited minimax with perspective moving at the root.
// Among equal scores the first move in roster enumeration order wins.
func Search(ctx context.Context, b *checkers.Board, depth int, perspective checkers.Color) (Result, error) {
	s := &searcher{ctx: ctx, perspective: perspective}
	score, mv, err := s.search(b, depth, true, nil)
	return Result{Score: score, Move: mv, Nodes: s.nodes}, err
}

// SearchFrom is Search restricted at the root to the jumps of the piece on
// from, used while a multi-jump is in progress.
func SearchFrom(ctx context.Context, b *checkers.Board, depth int, perspective checkers.Color, from checkers.Square) (Result, error) {
	s := &searcher{ctx: ctx, perspective: perspective}
	score, mv, err := s.search(b, depth, true, &from)
	return Result{Score: score, Move: mv, Nodes: s.nodes}, err
}

type searcher struct {
	ctx         context.Context
	perspective checkers.Color
	nodes       int
}

func (s *searcher) search(b *checkers.Board, depth int, maximizing bool, only *checkers.Square) (float64, *checkers.Move, error) {
	if err := s.ctx.Err(); err != nil {
		return 0, nil, err
	}
	s.nodes++

	mover := s.perspective
	if !maximizing {
		mover = s.perspective.Opponent()
	}
	moves := candidates(b, mover, only)
	if depth <= 0 || b.Count(checkers.Red) == 0 || b.Count(checkers.Black) == 0 || len(moves) == 0 {
		return Evaluate(b, s.perspective), nil, nil
	}

	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	var bestMove *checkers.Move
	for _, m := range moves {
		child := b.Clone()
		moved, err := child.ApplyMove(child.PieceAt(m.From), m.To)
		if err != nil {
			return 0, nil, err
		}
		var score float64
		if moved.PendingExtraJump() {
			at := moved.Location()
			score, _, err = s.search(child, depth-1, maximizing, &at)
		} else {
			score, _, err = s.search(child, depth-1, !maximizing, nil)
		}
		if err != nil {
			return 0, nil, err
		}
		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
			mv := m
			bestMove = &mv
		}
	}
	return best, bestMove, nil
}

// candidates lists the mover's legal moves, or only the jumps of the piece
// on *only when a continuation is forced.
func candidates(b *checkers.Board, mover checkers.Color, only *checkers.Square) []checkers.Move {
	if only == nil {
		return b.AllMoves(mover)
	}
	p := b.PieceAt(*only)
	if p == nil || p.Color() != mover {
		return nil
	}
	jumps := b.LegalJumps(p)
	out := make([]checkers.Move, 0, len(jumps))
	for _, d := range jumps {
		out = append(out, checkers.Move{From: *only, To: d})
	}
	return out
}

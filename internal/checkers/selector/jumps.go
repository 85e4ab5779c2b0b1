package selector

import (
	"context"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

// PreferJumps takes the first available jump in roster order and otherwise
// defers to a Random selector.
type PreferJumps struct {
	Fallback *Random
}

func NewPreferJumps(fallback *Random) *PreferJumps {
	if fallback == nil {
		fallback = NewRandom(0)
	}
	return &PreferJumps{Fallback: fallback}
}

func (s *PreferJumps) Name() string { return "jumps" }

func (s *PreferJumps) Select(ctx context.Context, b *checkers.Board, color checkers.Color, restricted *checkers.Square) (checkers.Move, error) {
	if err := ctx.Err(); err != nil {
		return checkers.Move{}, err
	}
	if restricted != nil {
		p, err := restrictedPiece(b, color, *restricted)
		if err != nil {
			return checkers.Move{}, err
		}
		jumps := b.LegalJumps(p)
		if len(jumps) == 0 {
			return checkers.Move{}, ErrNoMoves
		}
		return checkers.Move{From: p.Location(), To: jumps[0]}, nil
	}
	for _, p := range b.PiecesOfColor(color) {
		if jumps := b.LegalJumps(p); len(jumps) > 0 {
			return checkers.Move{From: p.Location(), To: jumps[0]}, nil
		}
	}
	return s.Fallback.Select(ctx, b, color, nil)
}

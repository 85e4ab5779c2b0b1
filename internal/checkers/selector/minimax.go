package selector

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/minimax"
)

// Minimax searches Depth plies and plays the best move for the mover.
type Minimax struct {
	Depth  int
	Cache  DecisionCache
	Logger *zap.Logger
}

func NewMinimax(depth int, cache DecisionCache, logger *zap.Logger) *Minimax {
	if depth <= 0 {
		depth = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Minimax{Depth: depth, Cache: cache, Logger: logger}
}

func (s *Minimax) Name() string { return "minimax" }

func (s *Minimax) Select(ctx context.Context, b *checkers.Board, color checkers.Color, restricted *checkers.Square) (checkers.Move, error) {
	var key string
	if s.Cache != nil {
		key = DecisionKey(b, color, s.Depth, restricted)
		mv, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			s.Logger.Warn("minimax_cache_get_failed", zap.Error(err))
		} else if ok && legal(b, color, mv, restricted) {
			s.Logger.Debug("minimax_cache_hit", zap.String("move", mv.String()))
			return mv, nil
		}
	}

	start := time.Now()
	var (
		res minimax.Result
		err error
	)
	if restricted != nil {
		res, err = minimax.SearchFrom(ctx, b, s.Depth, color, *restricted)
	} else {
		res, err = minimax.Search(ctx, b, s.Depth, color)
	}
	if err != nil {
		return checkers.Move{}, err
	}
	if res.Move == nil {
		return checkers.Move{}, ErrNoMoves
	}
	s.Logger.Debug("minimax_search",
		zap.String("color", color.String()),
		zap.Int("depth", s.Depth),
		zap.Int("nodes", res.Nodes),
		zap.Float64("score", res.Score),
		zap.String("move", res.Move.String()),
		zap.Duration("took", time.Since(start)),
	)

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, *res.Move); err != nil {
			s.Logger.Warn("minimax_cache_put_failed", zap.Error(err))
		}
	}
	return *res.Move, nil
}

// legal reports whether mv is playable by color on b.
func legal(b *checkers.Board, color checkers.Color, mv checkers.Move, restricted *checkers.Square) bool {
	if !mv.From.InBounds() || !mv.To.InBounds() {
		return false
	}
	if restricted != nil && *restricted != mv.From {
		return false
	}
	p := b.PieceAt(mv.From)
	if p == nil || p.Color() != color {
		return false
	}
	for _, d := range b.LegalMovesAndJumps(p, restricted != nil) {
		if d == mv.To {
			return true
		}
	}
	return false
}

package selector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

var errOracleAnswer = errors.New("oracle answer not playable")

// Oracle asks a MoveOracle for the move and falls back when the answer is
// missing, malformed or illegal. Jump continuations always use the fallback.
type Oracle struct {
	Oracle   MoveOracle
	Fallback Selector
	Logger   *zap.Logger
}

func NewOracle(oracle MoveOracle, fallback Selector, logger *zap.Logger) *Oracle {
	if fallback == nil {
		fallback = NewPreferJumps(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{Oracle: oracle, Fallback: fallback, Logger: logger}
}

func (s *Oracle) Name() string { return "oracle" }

func (s *Oracle) Select(ctx context.Context, b *checkers.Board, color checkers.Color, restricted *checkers.Square) (checkers.Move, error) {
	if restricted != nil || s.Oracle == nil {
		return s.Fallback.Select(ctx, b, color, restricted)
	}
	mv, err := s.ask(ctx, b, color)
	if err == nil {
		s.Logger.Info("oracle_move", zap.String("color", color.String()), zap.String("move", mv.String()))
		return mv, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return checkers.Move{}, ctxErr
	}
	s.Logger.Warn("oracle_fallback",
		zap.String("color", color.String()),
		zap.String("fallback", s.Fallback.Name()),
		zap.Error(err),
	)
	return s.Fallback.Select(ctx, b, color, nil)
}

func (s *Oracle) ask(ctx context.Context, b *checkers.Board, color checkers.Color) (checkers.Move, error) {
	cand, err := s.Oracle.Suggest(ctx, Snapshot(b, color))
	if err != nil {
		return checkers.Move{}, err
	}
	pieces := b.PiecesOfColor(color)
	if cand.PieceIndex < 0 || cand.PieceIndex >= len(pieces) {
		return checkers.Move{}, fmt.Errorf("%w: piece index %d of %d", errOracleAnswer, cand.PieceIndex, len(pieces))
	}
	mv := checkers.Move{
		From: pieces[cand.PieceIndex].Location(),
		To:   checkers.Square{Row: cand.DestRow, Col: cand.DestCol},
	}
	if !legal(b, color, mv, nil) {
		return checkers.Move{}, fmt.Errorf("%w: %s", errOracleAnswer, mv)
	}
	return mv, nil
}

// Package game runs one checkers game: turn order, mandatory jump
// continuation, terminal detection and the human/computer ply drivers.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/selector"
)

const (
	ReasonNoPieces = "no_pieces"
	ReasonBlockade = "blockade"
	ReasonMaxPlies = "max_plies"
)

var (
	ErrGameOver = errors.New("game is over")
	ErrAborted  = errors.New("game aborted")
)

// Ply is one complete turn: a single move or a whole jump chain.
type Ply struct {
	Number   int
	Color    checkers.Color
	Moves    []checkers.Move
	Captures int
	Promoted bool
}

// Text renders the ply as "C3 E5, E5 G7".
func (p Ply) Text() string { return checkers.JoinChain(p.Moves) }

// Step reports the outcome of one submitted sub-move.
type Step struct {
	Move checkers.Move
	// Continue is set while the same piece must keep jumping.
	Continue bool
	// Ply is set once the turn is complete.
	Ply *Ply
}

type Options struct {
	ID       string
	First    checkers.Color
	Blockade BlockadeRule
	// MaxPlies ends the game as a tie once reached; zero means no limit.
	MaxPlies int
	Logger   *zap.Logger
}

// Session owns one board for the duration of a game.
type Session struct {
	id       string
	board    *checkers.Board
	turn     checkers.Color
	tie      bool
	blockade BlockadeRule
	maxPlies int
	logger   *zap.Logger

	restricted *checkers.Square
	current    *Ply
	plies      []Ply
	result     Result
	reason     string
	aborted    error
}

func NewSession(b *checkers.Board, opts Options) *Session {
	if b == nil {
		b = checkers.NewClassicBoard()
	}
	id := strings.TrimSpace(opts.ID)
	if id == "" {
		id = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		id:       id,
		board:    b,
		turn:     opts.First,
		blockade: opts.Blockade,
		maxPlies: opts.MaxPlies,
		logger:   logger.With(zap.String("game_id", id)),
	}
	s.result = s.evaluate()
	return s
}

func (s *Session) ID() string              { return s.id }
func (s *Session) Board() *checkers.Board { return s.board }
func (s *Session) Turn() checkers.Color    { return s.turn }
func (s *Session) Result() Result          { return s.result }
func (s *Session) Tie() bool               { return s.tie }
func (s *Session) Plies() []Ply            { return append([]Ply(nil), s.plies...) }

// Reason names how the game ended: no_pieces, blockade or max_plies.
func (s *Session) Reason() string { return s.reason }

// Restricted returns the square of the piece that must continue jumping.
func (s *Session) Restricted() *checkers.Square {
	if s.restricted == nil {
		return nil
	}
	sq := *s.restricted
	return &sq
}

// Err returns the invariant error that aborted the game, if any.
func (s *Session) Err() error { return s.aborted }

func (s *Session) ready() error {
	if s.aborted != nil {
		return fmt.Errorf("%w: %v", ErrAborted, s.aborted)
	}
	if s.result.Over() {
		return ErrGameOver
	}
	return nil
}

// Validate checks mv against the side to move and any jump restriction.
func (s *Session) Validate(mv checkers.Move) error {
	if s.restricted != nil && mv.From != *s.restricted {
		return fmt.Errorf("%w: continue with the piece on %s", checkers.ErrMustContinueJump, s.restricted)
	}
	if !mv.From.InBounds() || !mv.To.InBounds() {
		return fmt.Errorf("%w: %s", checkers.ErrIllegalMove, mv)
	}
	p := s.board.PieceAt(mv.From)
	if p == nil {
		return fmt.Errorf("%w: %s", checkers.ErrNoPiece, mv.From)
	}
	if p.Color() != s.turn {
		return fmt.Errorf("%w: %s is %s, %s to move", checkers.ErrWrongColor, mv.From, p.Color(), s.turn)
	}
	for _, d := range s.board.LegalMovesAndJumps(p, s.restricted != nil) {
		if d == mv.To {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", checkers.ErrIllegalMove, mv)
}

// SubmitMove parses and applies one human sub-move such as "A3 B4". Input
// errors leave the session unchanged.
func (s *Session) SubmitMove(text string) (Step, error) {
	if err := s.ready(); err != nil {
		return Step{}, err
	}
	mv, err := checkers.ParseHumanMove(text)
	if err != nil {
		return Step{}, err
	}
	return s.Apply(mv)
}

// Apply validates and applies one sub-move for the side to move.
func (s *Session) Apply(mv checkers.Move) (Step, error) {
	if err := s.ready(); err != nil {
		return Step{}, err
	}
	if err := s.Validate(mv); err != nil {
		return Step{}, err
	}

	kingBefore := s.board.PieceAt(mv.From).King()
	oppBefore := s.board.Count(s.turn.Opponent())
	moved, err := s.board.ApplyMove(s.board.PieceAt(mv.From), mv.To)
	if err != nil {
		return Step{}, s.abort(err)
	}

	if s.current == nil {
		s.current = &Ply{Number: len(s.plies) + 1, Color: s.turn}
	}
	s.current.Moves = append(s.current.Moves, mv)
	s.current.Captures += oppBefore - s.board.Count(s.turn.Opponent())
	if moved.King() && !kingBefore {
		s.current.Promoted = true
	}

	if moved.PendingExtraJump() {
		at := moved.Location()
		s.restricted = &at
		s.logger.Debug("extra_jump_pending", zap.String("color", s.turn.String()), zap.String("square", at.String()))
		return Step{Move: mv, Continue: true}, nil
	}

	ply := s.finishPly()
	return Step{Move: mv, Ply: &ply}, nil
}

// PlayAI drives sel through a whole ply, including any jump chain.
func (s *Session) PlayAI(ctx context.Context, sel selector.Selector) (Ply, error) {
	if err := s.ready(); err != nil {
		return Ply{}, err
	}
	for {
		mv, err := sel.Select(ctx, s.board, s.turn, s.Restricted())
		if errors.Is(err, selector.ErrNoMoves) && s.restricted == nil {
			ply := s.blocked()
			return ply, nil
		}
		if err != nil {
			return Ply{}, fmt.Errorf("%s selector: %w", sel.Name(), err)
		}
		step, err := s.Apply(mv)
		if err != nil {
			if checkers.IsUserError(err) {
				return Ply{}, s.abort(fmt.Errorf("%s selector chose %s: %w", sel.Name(), mv, err))
			}
			return Ply{}, err
		}
		if step.Ply != nil {
			return *step.Ply, nil
		}
	}
}

// blocked ends the game when the side to move cannot move at all.
func (s *Session) blocked() Ply {
	s.applyBlockade()
	s.logGameOver()
	return Ply{Number: len(s.plies) + 1, Color: s.turn}
}

func (s *Session) applyBlockade() {
	s.reason = ReasonBlockade
	if s.blockade == BlockadeLoss {
		s.result = winFor(s.turn.Opponent())
		return
	}
	s.tie = true
	s.result = Tie
}

// MarkCrowned records that the king promoted by ply now wears its crown.
func (s *Session) MarkCrowned(ply Ply) error {
	if !ply.Promoted || len(ply.Moves) == 0 {
		return nil
	}
	at := ply.Moves[len(ply.Moves)-1].To
	p := s.board.PieceAt(at)
	if p == nil || !p.King() || p.Color() != ply.Color {
		return fmt.Errorf("no %s king on %s to crown", ply.Color, at)
	}
	p.Crown()
	s.logger.Info("piece_crowned", zap.Int("ply", ply.Number), zap.String("square", at.String()))
	return nil
}

func (s *Session) finishPly() Ply {
	ply := *s.current
	s.current = nil
	s.restricted = nil
	s.plies = append(s.plies, ply)
	s.logger.Info("ply",
		zap.Int("ply", ply.Number),
		zap.String("color", ply.Color.String()),
		zap.String("move", ply.Text()),
		zap.Int("captures", ply.Captures),
		zap.Bool("promoted", ply.Promoted),
	)

	s.turn = s.turn.Opponent()
	s.result = s.evaluate()
	if !s.result.Over() && s.maxPlies > 0 && len(s.plies) >= s.maxPlies {
		s.tie = true
		s.result = Tie
		s.reason = ReasonMaxPlies
	}
	if s.result.Over() {
		s.logGameOver()
	}
	return ply
}

// evaluate inspects the board with s.turn to move.
func (s *Session) evaluate() Result {
	switch {
	case s.board.Count(checkers.Red) == 0 && s.board.Count(checkers.Black) == 0:
		s.tie = true
		s.reason = ReasonNoPieces
		return Tie
	case s.board.Count(checkers.Red) == 0:
		s.reason = ReasonNoPieces
		return BlackWins
	case s.board.Count(checkers.Black) == 0:
		s.reason = ReasonNoPieces
		return RedWins
	case !s.board.HasAnyMove(s.turn):
		s.reason = ReasonBlockade
		if s.blockade == BlockadeLoss {
			return winFor(s.turn.Opponent())
		}
		s.tie = true
		return Tie
	}
	return Ongoing
}

func (s *Session) abort(err error) error {
	s.aborted = err
	s.logger.Error("game_aborted", zap.Error(err), zap.String("roster", s.board.Describe()))
	return err
}

func (s *Session) logGameOver() {
	s.logger.Info("game_over",
		zap.String("result", s.result.String()),
		zap.String("reason", s.reason),
		zap.Int("plies", len(s.plies)),
		zap.Int("red", s.board.Count(checkers.Red)),
		zap.Int("black", s.board.Count(checkers.Black)),
	)
}

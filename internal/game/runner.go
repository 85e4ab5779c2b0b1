package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/selector"
)

// Player is one side of a game. A nil Selector means a human at Input.
type Player struct {
	Name     string
	Selector selector.Selector
}

func (p Player) Human() bool { return p.Selector == nil }

func (p Player) label() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Selector != nil {
		return p.Selector.Name()
	}
	return "human"
}

// Runner drives a Session to completion.
type Runner struct {
	Session *Session
	Red     Player
	Black   Player
	Input   HumanInput
	// Sink receives computer plies only; nil discards them.
	Sink MoveSink
	// OnPly is called after every completed ply.
	OnPly  func(Ply)
	Logger *zap.Logger
}

func (r *Runner) player(c checkers.Color) Player {
	if c == checkers.Black {
		return r.Black
	}
	return r.Red
}

// Run plays until the game ends, ctx is done, or an invariant breaks. The
// sink is closed on every exit path.
func (r *Runner) Run(ctx context.Context) (res Result, err error) {
	if r.Session == nil {
		return Ongoing, errors.New("runner: nil session")
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sink := r.Sink
	if sink == nil {
		sink = NopSink{}
	}
	defer func() {
		if cerr := sink.Close(context.WithoutCancel(ctx)); cerr != nil {
			logger.Warn("sink_close_failed", zap.Error(cerr))
			if err == nil {
				err = fmt.Errorf("close sink: %w", cerr)
			}
		}
	}()

	logger.Info("game_start",
		zap.String("game_id", r.Session.ID()),
		zap.String("red", r.Red.label()),
		zap.String("black", r.Black.label()),
	)

	s := r.Session
	for !s.Result().Over() {
		if err := ctx.Err(); err != nil {
			return s.Result(), err
		}
		p := r.player(s.Turn())
		var (
			ply Ply
			err error
		)
		if p.Human() {
			ply, err = r.humanPly(ctx)
		} else {
			ply, err = s.PlayAI(ctx, p.Selector)
			if err == nil && len(ply.Moves) > 0 {
				if derr := sink.Deliver(ctx, ply); derr != nil {
					return s.Result(), fmt.Errorf("deliver %q: %w", ply.Text(), derr)
				}
				if cp, ok := sink.(CrownPlacer); ok && cp.PlacesCrowns() && ply.Promoted {
					if cerr := s.MarkCrowned(ply); cerr != nil {
						logger.Warn("crown_mark_failed", zap.Error(cerr))
					}
				}
			}
		}
		if err != nil {
			return s.Result(), err
		}
		if len(ply.Moves) > 0 && r.OnPly != nil {
			r.OnPly(ply)
		}
	}
	return s.Result(), nil
}

// humanPly reads sub-moves until the ply ends, re-prompting on input errors.
func (r *Runner) humanPly(ctx context.Context) (Ply, error) {
	if r.Input == nil {
		return Ply{}, errors.New("runner: human player without input")
	}
	s := r.Session
	var lastErr error
	for {
		text, err := r.Input.ReadMove(ctx, HumanPrompt{
			Color:      s.Turn(),
			Restricted: s.Restricted(),
			LastError:  lastErr,
			Board:      s.Board(),
		})
		if err != nil {
			return Ply{}, err
		}
		step, err := s.SubmitMove(text)
		if err != nil {
			if checkers.IsUserError(err) {
				lastErr = err
				continue
			}
			return Ply{}, err
		}
		lastErr = nil
		if step.Ply != nil {
			return *step.Ply, nil
		}
	}
}

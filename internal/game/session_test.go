package game

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/selector"
)

func customSession(t *testing.T, opts Options, tokens ...string) *Session {
	t.Helper()
	b, err := checkers.NewCustomBoard(tokens)
	if err != nil {
		t.Fatalf("NewCustomBoard: %v", err)
	}
	return NewSession(b, opts)
}

func square(t *testing.T, s string) checkers.Square {
	t.Helper()
	out, err := checkers.ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return out
}

func TestClassicOpeningMove(t *testing.T) {
	s := NewSession(checkers.NewClassicBoard(), Options{ID: "g1"})
	if s.ID() != "g1" {
		t.Fatalf("ID = %q", s.ID())
	}
	step, err := s.SubmitMove("B3 A4")
	if err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if step.Continue || step.Ply == nil {
		t.Fatalf("step = %+v, want a finished ply", step)
	}
	if got := step.Ply.Text(); got != "B3 A4" {
		t.Fatalf("ply text = %q", got)
	}
	p := s.Board().PieceAt(square(t, "A4"))
	if p == nil || p.Color() != checkers.Red || p.King() {
		t.Fatalf("A4 holds %v, want a red man", p)
	}
	if s.Board().PieceAt(square(t, "B3")) != nil {
		t.Fatalf("B3 should be empty")
	}
	if r, b := s.Board().Count(checkers.Red), s.Board().Count(checkers.Black); r != 12 || b != 12 {
		t.Fatalf("counts = %d/%d, want 12/12", r, b)
	}
	if s.Turn() != checkers.Black {
		t.Fatalf("turn = %s, want black", s.Turn())
	}
	if s.Result() != Ongoing {
		t.Fatalf("result = %s", s.Result())
	}
}

func TestInputErrorsLeaveSessionUnchanged(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"one token", "B3", checkers.ErrInvalidInput},
		{"three tokens", "B3 A4 C5", checkers.ErrInvalidInput},
		{"off board", "Z9 A1", checkers.ErrInvalidInput},
		{"long token", "B33 A4", checkers.ErrInvalidInput},
		{"empty source", "A1 B2", checkers.ErrNoPiece},
		{"opponent piece", "C6 D5", checkers.ErrWrongColor},
		{"straight ahead", "B3 B4", checkers.ErrIllegalMove},
		{"backward", "B3 A2", checkers.ErrIllegalMove},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession(checkers.NewClassicBoard(), Options{})
			before := s.Board().String()
			_, err := s.SubmitMove(tc.text)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !checkers.IsUserError(err) {
				t.Fatalf("IsUserError(%v) = false", err)
			}
			if diff := cmp.Diff(before, s.Board().String()); diff != "" {
				t.Fatalf("board changed (-before +after):\n%s", diff)
			}
			if s.Turn() != checkers.Red || len(s.Plies()) != 0 {
				t.Fatalf("turn/plies changed: %s %d", s.Turn(), len(s.Plies()))
			}
		})
	}
}

func TestCaptureOfLastPieceWins(t *testing.T) {
	s := customSession(t, Options{}, "RB3", "BC4")
	step, err := s.SubmitMove("B3 D5")
	if err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if step.Ply == nil || step.Ply.Captures != 1 {
		t.Fatalf("step = %+v, want one capture", step)
	}
	if s.Board().Count(checkers.Black) != 0 {
		t.Fatalf("black count = %d", s.Board().Count(checkers.Black))
	}
	if s.Result() != RedWins || s.Tie() {
		t.Fatalf("result = %s tie=%v, want red_wins", s.Result(), s.Tie())
	}
	if _, err := s.SubmitMove("D5 E6"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after game over: %v", err)
	}
}

func TestNonJumpNeverEndsGameWithPiecesLeft(t *testing.T) {
	s := customSession(t, Options{}, "RB3", "BA6")
	if _, err := s.SubmitMove("B3 C4"); err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if s.Result() != Ongoing {
		t.Fatalf("result = %s, want ongoing", s.Result())
	}
}

func TestJumpChainRestrictsPiece(t *testing.T) {
	s := customSession(t, Options{}, "RB1", "BC2", "BC4", "BG8")

	step, err := s.SubmitMove("B1 D3")
	if err != nil {
		t.Fatalf("first jump: %v", err)
	}
	if !step.Continue || step.Ply != nil {
		t.Fatalf("step = %+v, want continuation", step)
	}
	if r := s.Restricted(); r == nil || *r != square(t, "D3") {
		t.Fatalf("restricted = %v, want D3", r)
	}
	if s.Turn() != checkers.Red {
		t.Fatalf("turn passed mid-chain")
	}

	if _, err := s.SubmitMove("A1 B2"); !errors.Is(err, checkers.ErrMustContinueJump) {
		t.Fatalf("other piece: %v", err)
	}
	if _, err := s.SubmitMove("D3 E4"); !errors.Is(err, checkers.ErrIllegalMove) {
		t.Fatalf("plain move mid-chain: %v", err)
	}

	step, err = s.SubmitMove("D3 B5")
	if err != nil {
		t.Fatalf("second jump: %v", err)
	}
	if step.Ply == nil {
		t.Fatalf("chain did not end")
	}
	if got, want := step.Ply.Text(), "B1 D3, D3 B5"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if step.Ply.Captures != 2 {
		t.Fatalf("captures = %d", step.Ply.Captures)
	}
	if s.Restricted() != nil || s.Turn() != checkers.Black {
		t.Fatalf("restriction or turn not reset")
	}
	if s.Result() != Ongoing {
		t.Fatalf("result = %s", s.Result())
	}
}

func TestPromotionMarksPly(t *testing.T) {
	s := customSession(t, Options{}, "RB7", "BG2")
	step, err := s.SubmitMove("B7 C8")
	if err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if !step.Ply.Promoted {
		t.Fatalf("ply not marked promoted")
	}
	if !s.Board().PieceAt(square(t, "C8")).King() {
		t.Fatalf("C8 not a king")
	}
}

func TestBlockade(t *testing.T) {
	tests := []struct {
		name string
		rule BlockadeRule
		want Result
		tie  bool
	}{
		{"tie by default", BlockadeTie, Tie, true},
		{"loss when configured", BlockadeLoss, BlackWins, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := customSession(t, Options{First: checkers.Black, Blockade: tc.rule},
				"RB1", "BA2", "BC2", "BE4")
			if _, err := s.SubmitMove("E4 D3"); err != nil {
				t.Fatalf("SubmitMove: %v", err)
			}
			if s.Result() != tc.want || s.Tie() != tc.tie {
				t.Fatalf("result = %s tie=%v, want %s tie=%v", s.Result(), s.Tie(), tc.want, tc.tie)
			}
		})
	}
}

func TestBlockedAtStart(t *testing.T) {
	s := customSession(t, Options{}, "RB1", "BA2", "BC2", "BD3")
	if s.Result() != Tie {
		t.Fatalf("result = %s, want tie", s.Result())
	}
}

func TestPlayAIJoinsChain(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := customSession(t, Options{Logger: zap.New(core)}, "RB1", "BC2", "BC4", "BG8")
	ply, err := s.PlayAI(context.Background(), selector.NewPreferJumps(selector.NewRandom(1)))
	if err != nil {
		t.Fatalf("PlayAI: %v", err)
	}
	if got, want := ply.Text(), "B1 D3, D3 B5"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if ply.Color != checkers.Red || ply.Number != 1 {
		t.Fatalf("ply = %+v", ply)
	}
	entries := logs.FilterMessage("ply").All()
	if len(entries) != 1 {
		t.Fatalf("ply log entries = %d", len(entries))
	}
	if got := entries[0].ContextMap()["move"]; got != "B1 D3, D3 B5" {
		t.Fatalf("logged move = %v", got)
	}
}

func TestMaxPliesEndsInTie(t *testing.T) {
	s := NewSession(checkers.NewClassicBoard(), Options{MaxPlies: 2})
	sel := selector.NewRandom(7)
	for i := 0; i < 2; i++ {
		if _, err := s.PlayAI(context.Background(), sel); err != nil {
			t.Fatalf("PlayAI %d: %v", i, err)
		}
	}
	if s.Result() != Tie || len(s.Plies()) != 2 {
		t.Fatalf("result = %s after %d plies", s.Result(), len(s.Plies()))
	}
	if _, err := s.PlayAI(context.Background(), sel); !errors.Is(err, ErrGameOver) {
		t.Fatalf("PlayAI after end: %v", err)
	}
}

type badSelector struct{ mv checkers.Move }

func (badSelector) Name() string { return "bad" }

func (s badSelector) Select(context.Context, *checkers.Board, checkers.Color, *checkers.Square) (checkers.Move, error) {
	return s.mv, nil
}

func TestIllegalSelectorMoveAborts(t *testing.T) {
	s := NewSession(checkers.NewClassicBoard(), Options{})
	bad := badSelector{mv: checkers.Move{From: square(t, "B3"), To: square(t, "B5")}}
	if _, err := s.PlayAI(context.Background(), bad); !errors.Is(err, checkers.ErrIllegalMove) {
		t.Fatalf("PlayAI: %v", err)
	}
	if s.Err() == nil {
		t.Fatalf("session not aborted")
	}
	if _, err := s.SubmitMove("B3 A4"); !errors.Is(err, ErrAborted) {
		t.Fatalf("SubmitMove after abort: %v", err)
	}
}

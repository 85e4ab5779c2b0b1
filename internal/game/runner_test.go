package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/selector"
)

type scriptedInput struct {
	lines   []string
	prompts []HumanPrompt
}

func (s *scriptedInput) ReadMove(ctx context.Context, p HumanPrompt) (string, error) {
	s.prompts = append(s.prompts, p)
	if len(s.lines) == 0 {
		return "", ErrInputClosed
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type recordingSink struct {
	plies  []Ply
	closed bool
	fail   error
}

func (r *recordingSink) Deliver(ctx context.Context, ply Ply) error {
	if r.fail != nil {
		return r.fail
	}
	r.plies = append(r.plies, ply)
	return nil
}

func (r *recordingSink) Close(ctx context.Context) error {
	r.closed = true
	return nil
}

func TestRunnerHumanAgainstComputer(t *testing.T) {
	s := customSession(t, Options{MaxPlies: 2}, "RB1", "BC2", "BC4", "BG8")
	in := &scriptedInput{lines: []string{"A1 B2", "B1 D3", "H7 G8", "D3 B5"}}
	sink := &recordingSink{}
	var seen []string
	r := &Runner{
		Session: s,
		Red:     Player{Name: "you"},
		Black:   Player{Selector: selector.NewPreferJumps(selector.NewRandom(3))},
		Input:   in,
		Sink:    sink,
		OnPly:   func(p Ply) { seen = append(seen, p.Text()) },
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res != Tie {
		t.Fatalf("result = %s, want tie after max plies", res)
	}
	if len(seen) != 2 || seen[0] != "B1 D3, D3 B5" {
		t.Fatalf("plies = %q", seen)
	}
	if len(sink.plies) != 1 || sink.plies[0].Color != checkers.Black {
		t.Fatalf("sink got %+v, want the computer ply only", sink.plies)
	}
	if !strings.HasPrefix(sink.plies[0].Text(), "G8 ") {
		t.Fatalf("computer ply = %q", sink.plies[0].Text())
	}
	if !sink.closed {
		t.Fatalf("sink not closed")
	}

	if len(in.prompts) != 4 {
		t.Fatalf("prompts = %d, want 4", len(in.prompts))
	}
	if !errors.Is(in.prompts[1].LastError, checkers.ErrNoPiece) {
		t.Fatalf("second prompt error = %v", in.prompts[1].LastError)
	}
	third := in.prompts[2]
	if third.Restricted == nil || *third.Restricted != square(t, "D3") {
		t.Fatalf("third prompt restricted = %v", third.Restricted)
	}
	if !errors.Is(in.prompts[3].LastError, checkers.ErrMustContinueJump) {
		t.Fatalf("fourth prompt error = %v", in.prompts[3].LastError)
	}
}

func TestRunnerStopsWhenInputCloses(t *testing.T) {
	sink := &recordingSink{}
	r := &Runner{
		Session: NewSession(nil, Options{}),
		Input:   &scriptedInput{},
		Sink:    sink,
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("Run: %v", err)
	}
	if !sink.closed {
		t.Fatalf("sink not closed on error")
	}
}

func TestRunnerSinkFailure(t *testing.T) {
	boom := errors.New("arm jammed")
	r := &Runner{
		Session: NewSession(nil, Options{}),
		Red:     Player{Selector: selector.NewRandom(1)},
		Black:   Player{Selector: selector.NewRandom(2)},
		Sink:    &recordingSink{fail: boom},
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunnerComputerSelfPlayFinishes(t *testing.T) {
	r := &Runner{
		Session: NewSession(nil, Options{MaxPlies: 400}),
		Red:     Player{Selector: selector.NewMinimax(2, nil, nil)},
		Black:   Player{Selector: selector.NewPreferJumps(selector.NewRandom(9))},
	}
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Over() {
		t.Fatalf("result = %s", res)
	}
	if err := r.Session.Board().Check(); err != nil {
		t.Fatalf("board invariant: %v", err)
	}
}

func TestConsoleInput(t *testing.T) {
	var out strings.Builder
	in := NewConsoleInput(strings.NewReader("  b3 a4 \n"), &out, func(p HumanPrompt) string {
		return p.Color.String() + "> "
	})
	got, err := in.ReadMove(context.Background(), HumanPrompt{Color: checkers.Red})
	if err != nil {
		t.Fatalf("ReadMove: %v", err)
	}
	if got != "b3 a4" || out.String() != "red> " {
		t.Fatalf("got %q prompt %q", got, out.String())
	}
	if _, err := in.ReadMove(context.Background(), HumanPrompt{}); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("second ReadMove: %v", err)
	}
}

type crowningSink struct {
	recordingSink
}

func (*crowningSink) PlacesCrowns() bool { return true }

func TestRunnerCrownsPromotionAfterDelivery(t *testing.T) {
	for _, tc := range []struct {
		name string
		sink MoveSink
		want bool
	}{
		{"crowning sink", &crowningSink{}, true},
		{"plain sink", &recordingSink{}, false},
		{"no sink", nil, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := customSession(t, Options{MaxPlies: 1}, "RB7", "BG2")
			r := &Runner{
				Session: s,
				Red:     Player{Selector: selector.NewPreferJumps(selector.NewRandom(1))},
				Black:   Player{Selector: selector.NewRandom(1)},
				Sink:    tc.sink,
			}
			if _, err := r.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			plies := s.Plies()
			if len(plies) != 1 || !plies[0].Promoted {
				t.Fatalf("plies = %+v, want one promotion", plies)
			}
			p := s.Board().PieceAt(plies[0].Moves[0].To)
			if p == nil || !p.King() {
				t.Fatalf("no king on %s", plies[0].Moves[0].To)
			}
			if p.Crowned() != tc.want {
				t.Fatalf("Crowned() = %v, want %v", p.Crowned(), tc.want)
			}
		})
	}
}

func TestMarkCrownedRequiresKing(t *testing.T) {
	s := customSession(t, Options{}, "RB3", "BG8")
	ply := Ply{Number: 1, Color: checkers.Red, Promoted: true,
		Moves: []checkers.Move{{From: square(t, "B3"), To: square(t, "B3")}}}
	if err := s.MarkCrowned(ply); err == nil {
		t.Fatal("crowned a man")
	}
	if s.Board().PieceAt(square(t, "B3")).Crowned() {
		t.Fatal("man marked crowned")
	}
}

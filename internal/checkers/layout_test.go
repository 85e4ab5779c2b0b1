package checkers

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewCustomBoardErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   error
	}{
		{"light square", []string{"RA1"}, ErrLightSquare},
		{"bad color", []string{"XB1"}, ErrBadLayoutToken},
		{"bad row", []string{"RB9"}, ErrBadLayoutToken},
		{"bad column", []string{"RJ2"}, ErrBadLayoutToken},
		{"bad suffix", []string{"RB1Q"}, ErrBadLayoutToken},
		{"too short", []string{"R1"}, ErrBadLayoutToken},
		{"duplicate", []string{"RB1", "BB1"}, ErrDuplicateSquare},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCustomBoard(tc.tokens)
			if !errors.Is(err, tc.want) {
				t.Fatalf("NewCustomBoard(%v) err = %v, want %v", tc.tokens, err, tc.want)
			}
		})
	}
}

func TestNewCustomBoardNormalizesCase(t *testing.T) {
	b := mustCustom(t, "rb1", "bc8k")
	if diff := cmp.Diff([]string{"RB1", "BC8K"}, b.LayoutTokens()); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
	if b.KingCount(Black) != 1 || b.KingCount(Red) != 0 {
		t.Fatalf("king counts red=%d black=%d", b.KingCount(Red), b.KingCount(Black))
	}
}

func TestNewCustomBoardCrownsKings(t *testing.T) {
	b := mustCustom(t, "RB1", "BC8K")
	if b.PieceAt(Square{Row: 0, Col: 1}).Crowned() {
		t.Fatal("man RB1 is crowned")
	}
	if !b.PieceAt(Square{Row: 7, Col: 2}).Crowned() {
		t.Fatal("king BC8K is not crowned")
	}
}

func TestNewBoardModes(t *testing.T) {
	b, err := NewBoard(LayoutEmpty, nil)
	if err != nil || b.Len() != 0 {
		t.Fatalf("empty: len=%v err=%v", b, err)
	}
	b, err = NewBoard(LayoutCustom, nil)
	if err != nil {
		t.Fatalf("custom default: %v", err)
	}
	if diff := cmp.Diff(DefaultCustomLayout, b.LayoutTokens()); diff != "" {
		t.Fatalf("default custom layout (-want +got):\n%s", diff)
	}
	if _, err := ParseLayoutMode("diagonal"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseHumanMove(t *testing.T) {
	tests := []struct {
		in      string
		want    Move
		wantErr bool
	}{
		{in: "A3 B4", want: Move{From: Square{2, 0}, To: Square{3, 1}}},
		{in: "  h6 g5 ", want: Move{From: Square{5, 7}, To: Square{4, 6}}},
		{in: "A3B4", wantErr: true},
		{in: "A3 B4 C5", wantErr: true},
		{in: "A33 B4", wantErr: true},
		{in: "I3 B4", wantErr: true},
		{in: "A0 B4", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseHumanMove(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("ParseHumanMove(%q) err = %v, want ErrInvalidInput", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseHumanMove(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseHumanMove(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestJoinChainAndRobotText(t *testing.T) {
	chain := JoinChain([]Move{
		{From: Square{0, 1}, To: Square{2, 3}},
		{From: Square{2, 3}, To: Square{4, 1}},
	})
	if chain != "B1 D3, D3 B5" {
		t.Fatalf("JoinChain = %q", chain)
	}
	if got := RobotText(chain); got != "b1 d3, d3 b5" {
		t.Fatalf("RobotText = %q", got)
	}
}

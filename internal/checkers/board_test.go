package checkers

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sq(t *testing.T, s string) Square {
	t.Helper()
	out, err := ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return out
}

func mustCustom(t *testing.T, tokens ...string) *Board {
	t.Helper()
	b, err := NewCustomBoard(tokens)
	if err != nil {
		t.Fatalf("NewCustomBoard(%v): %v", tokens, err)
	}
	return b
}

func TestClassicBoardLayout(t *testing.T) {
	b := NewClassicBoard()
	if b.Len() != 24 || b.Count(Red) != 12 || b.Count(Black) != 12 {
		t.Fatalf("unexpected counts: len=%d red=%d black=%d", b.Len(), b.Count(Red), b.Count(Black))
	}
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	for i, p := range b.Pieces() {
		if !p.Location().Playable() {
			t.Fatalf("piece %d on light square %s", i, p.Location())
		}
		want := Red
		if i >= 12 {
			want = Black
		}
		if p.Color() != want {
			t.Fatalf("roster[%d] = %s, want %s", i, p, want)
		}
	}
	if got := b.Pieces()[0].Location(); got != (Square{Row: 0, Col: 1}) {
		t.Fatalf("first roster piece at %s, want B1", got)
	}
}

func TestNonKingDirectionsPointForward(t *testing.T) {
	b := NewClassicBoard()
	for _, p := range b.Pieces() {
		for _, o := range append(p.MoveOffsets(), p.JumpOffsets()...) {
			if p.Color() == Red && o.DRow <= 0 {
				t.Fatalf("%s has backward offset %+v", p, o)
			}
			if p.Color() == Black && o.DRow >= 0 {
				t.Fatalf("%s has backward offset %+v", p, o)
			}
			if !p.Location().Add(o).InBounds() {
				t.Fatalf("%s has off-board offset %+v", p, o)
			}
		}
	}
}

func TestKingOffsetsPrunedAtEdge(t *testing.T) {
	k := NewPiece(Black, Square{Row: 7, Col: 2}, true)
	wantMoves := []Offset{{-1, -1}, {-1, 1}}
	wantJumps := []Offset{{-2, -2}, {-2, 2}}
	if diff := cmp.Diff(wantMoves, k.MoveOffsets()); diff != "" {
		t.Fatalf("move offsets (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantJumps, k.JumpOffsets()); diff != "" {
		t.Fatalf("jump offsets (-want +got):\n%s", diff)
	}
}

func TestClassicOpeningMoveB3A4(t *testing.T) {
	b := NewClassicBoard()
	p := b.PieceAt(sq(t, "B3"))
	if p == nil || p.Color() != Red {
		t.Fatalf("expected red piece on B3, got %v", p)
	}
	if diff := cmp.Diff([]Square{sq(t, "A4"), sq(t, "C4")}, b.LegalMoves(p)); diff != "" {
		t.Fatalf("legal moves (-want +got):\n%s", diff)
	}
	moved, err := b.ApplyMove(p, sq(t, "A4"))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if moved.Location() != sq(t, "A4") || moved.PendingExtraJump() {
		t.Fatalf("unexpected moved piece state: %s pending=%v", moved, moved.PendingExtraJump())
	}
	if b.PieceAt(sq(t, "B3")) != nil {
		t.Fatalf("B3 still occupied")
	}
	if b.Count(Red) != 12 || b.Count(Black) != 12 {
		t.Fatalf("counts changed: red=%d black=%d", b.Count(Red), b.Count(Black))
	}
}

func TestNoJumpWhenLandingOffBoard(t *testing.T) {
	b := mustCustom(t, "RB3", "BA4")
	red := b.PieceAt(sq(t, "B3"))
	if jumps := b.LegalJumps(red); len(jumps) != 0 {
		t.Fatalf("expected no jumps, got %v", jumps)
	}
}

func TestSingleCaptureEmptiesBlack(t *testing.T) {
	b := mustCustom(t, "RB3", "BC4")
	red := b.PieceAt(sq(t, "B3"))
	if diff := cmp.Diff([]Square{sq(t, "D5")}, b.LegalJumps(red)); diff != "" {
		t.Fatalf("jumps (-want +got):\n%s", diff)
	}
	moved, err := b.ApplyMove(red, sq(t, "D5"))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if b.Count(Black) != 0 || b.Len() != 1 {
		t.Fatalf("capture not applied: black=%d len=%d", b.Count(Black), b.Len())
	}
	if moved.PendingExtraJump() {
		t.Fatalf("no continuation expected")
	}
}

func TestMultiJumpSetsPending(t *testing.T) {
	b := mustCustom(t, "RB1", "BC2", "BC4")
	red := b.PieceAt(sq(t, "B1"))
	moved, err := b.ApplyMove(red, sq(t, "D3"))
	if err != nil {
		t.Fatalf("first jump: %v", err)
	}
	if !moved.PendingExtraJump() {
		t.Fatalf("expected pending extra jump after first capture")
	}
	if diff := cmp.Diff([]Square{sq(t, "B5")}, b.LegalMovesAndJumps(moved, true)); diff != "" {
		t.Fatalf("continuation (-want +got):\n%s", diff)
	}
	moved, err = b.ApplyMove(moved, sq(t, "B5"))
	if err != nil {
		t.Fatalf("second jump: %v", err)
	}
	if moved.PendingExtraJump() || b.Count(Black) != 0 {
		t.Fatalf("chain did not finish: pending=%v black=%d", moved.PendingExtraJump(), b.Count(Black))
	}
}

func TestPromotionAndUndoDemotion(t *testing.T) {
	b := mustCustom(t, "RB7")
	p := b.PieceAt(sq(t, "B7"))
	moved, err := b.ApplyMove(p, sq(t, "A8"))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if !moved.King() || b.KingCount(Red) != 1 {
		t.Fatalf("expected promotion, king=%v kings=%d", moved.King(), b.KingCount(Red))
	}
	if err := b.UndoMove(moved, sq(t, "B7")); err != nil {
		t.Fatalf("UndoMove: %v", err)
	}
	back := b.PieceAt(sq(t, "B7"))
	if back == nil || back.King() || b.KingCount(Red) != 0 {
		t.Fatalf("undo did not demote: %v kings=%d", back, b.KingCount(Red))
	}
}

func TestAlreadyKingIsNotPromotedTwice(t *testing.T) {
	b := mustCustom(t, "RB7K")
	moved, err := b.ApplyMove(b.PieceAt(sq(t, "B7")), sq(t, "C8"))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if b.KingCount(Red) != 1 {
		t.Fatalf("king count = %d, want 1", b.KingCount(Red))
	}
	if err := b.UndoMove(moved, sq(t, "B7")); err != nil {
		t.Fatalf("UndoMove: %v", err)
	}
	if !b.PieceAt(sq(t, "B7")).King() {
		t.Fatalf("undo demoted a piece that was already a king")
	}
}

func TestUndoRestoresCapturedKingAtRosterPosition(t *testing.T) {
	tokens := []string{"RB3", "BC4K", "BE8"}
	b := mustCustom(t, tokens...)
	red := b.PieceAt(sq(t, "B3"))
	moved, err := b.ApplyMove(red, sq(t, "D5"))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if b.KingCount(Black) != 0 || b.Count(Black) != 1 {
		t.Fatalf("capture counts wrong: black=%d kings=%d", b.Count(Black), b.KingCount(Black))
	}
	if err := b.UndoMove(moved, sq(t, "B3")); err != nil {
		t.Fatalf("UndoMove: %v", err)
	}
	if diff := cmp.Diff(tokens, b.LayoutTokens()); diff != "" {
		t.Fatalf("roster after undo (-want +got):\n%s", diff)
	}
	if b.KingCount(Black) != 1 || b.Count(Black) != 2 {
		t.Fatalf("counts after undo: black=%d kings=%d", b.Count(Black), b.KingCount(Black))
	}
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestApplyUndoRoundTripClassic(t *testing.T) {
	b := NewClassicBoard()
	before := b.String()
	beforeTokens := b.LayoutTokens()
	for _, m := range b.AllMoves(Red) {
		p := b.PieceAt(m.From)
		moved, err := b.ApplyMove(p, m.To)
		if err != nil {
			t.Fatalf("ApplyMove %s: %v", m, err)
		}
		if err := b.UndoMove(moved, m.From); err != nil {
			t.Fatalf("UndoMove %s: %v", m, err)
		}
		if b.String() != before {
			t.Fatalf("board differs after undo of %s:\n%s", m, b)
		}
	}
	if diff := cmp.Diff(beforeTokens, b.LayoutTokens()); diff != "" {
		t.Fatalf("roster differs (-want +got):\n%s", diff)
	}
	if len(b.History()) != 0 {
		t.Fatalf("history not drained: %d", len(b.History()))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewClassicBoard()
	c := b.Clone()
	if _, err := c.ApplyMove(c.PieceAt(sq(t, "B3")), sq(t, "A4")); err != nil {
		t.Fatalf("ApplyMove on clone: %v", err)
	}
	if b.PieceAt(sq(t, "B3")) == nil || b.PieceAt(sq(t, "A4")) != nil {
		t.Fatalf("original board mutated by clone")
	}
	if c.Resolve(b.PieceAt(sq(t, "D3"))) == b.PieceAt(sq(t, "D3")) {
		t.Fatalf("clone shares piece pointers with original")
	}
}

func TestJumpLegalityRandomPlacements(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var dark []Square
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if s := (Square{Row: row, Col: col}); s.Playable() {
				dark = append(dark, s)
			}
		}
	}
	for iter := 0; iter < 500; iter++ {
		perm := r.Perm(len(dark))
		b := NewEmptyBoard()
		for i := 0; i < 3; i++ {
			c := Colors[r.Intn(2)]
			if err := b.AddPiece(NewPiece(c, dark[perm[i]], r.Intn(2) == 0)); err != nil {
				t.Fatalf("AddPiece: %v", err)
			}
		}
		for _, p := range b.Pieces() {
			legal := map[Square]bool{}
			for _, d := range b.LegalJumps(p) {
				legal[d] = true
			}
			for _, o := range p.JumpOffsets() {
				dest := p.Location().Add(o)
				mid := p.Location().Midpoint(dest)
				over := b.PieceAt(mid)
				want := b.PieceAt(dest) == nil && over != nil && over.Color() != p.Color()
				if legal[dest] != want {
					t.Fatalf("iter %d: %s jump to %s legal=%v want=%v\n%s", iter, p, dest, legal[dest], want, b)
				}
			}
		}
	}
}

func TestApplyMoveUnknownPieceIsInvariantError(t *testing.T) {
	b := NewClassicBoard()
	ghost := NewPiece(Red, sq(t, "B5"), false)
	_, err := b.ApplyMove(ghost, sq(t, "C6"))
	var ie *InvariantError
	if !errors.As(err, &ie) || !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	if ie.Op != "apply" {
		t.Fatalf("op = %q", ie.Op)
	}
}

func TestAddPieceOccupiedIsInvariantError(t *testing.T) {
	b := NewClassicBoard()
	if err := b.AddPiece(NewPiece(Black, sq(t, "B1"), false)); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
}

func TestRemovePieceFromRoster(t *testing.T) {
	b := NewClassicBoard()
	if err := b.RemovePiece(b.PieceAt(sq(t, "B1")), true); err != nil {
		t.Fatalf("RemovePiece: %v", err)
	}
	if b.Count(Red) != 11 || b.Occupied(sq(t, "B1")) {
		t.Fatalf("remove failed: red=%d occupied=%v", b.Count(Red), b.Occupied(sq(t, "B1")))
	}
	b.RemoveAll()
	if b.Len() != 0 || b.Count(Black) != 0 {
		t.Fatalf("RemoveAll left %d pieces", b.Len())
	}
}

func TestLiftAndReplacePiece(t *testing.T) {
	b := NewClassicBoard()
	before := b.LayoutTokens()
	p := b.PieceAt(sq(t, "B1"))
	if err := b.RemovePiece(p, false); err != nil {
		t.Fatalf("RemovePiece: %v", err)
	}
	if b.PieceAt(sq(t, "B1")) != nil || b.Occupied(sq(t, "B1")) {
		t.Fatal("lifted piece still visible on B1")
	}
	if b.Len() != 24 || b.Count(Red) != 12 || b.Lifted() != 1 {
		t.Fatalf("len=%d red=%d lifted=%d", b.Len(), b.Count(Red), b.Lifted())
	}
	if err := b.Check(); err != nil {
		t.Fatalf("Check while lifted: %v", err)
	}
	if err := b.AddPiece(NewPiece(Black, sq(t, "B1"), false)); !errors.Is(err, ErrInvariant) {
		t.Fatalf("AddPiece on a lifted square: %v", err)
	}
	if err := b.AddPiece(p); !errors.Is(err, ErrInvariant) {
		t.Fatalf("AddPiece of a roster piece: %v", err)
	}
	if b.Len() != 24 || b.Count(Red) != 12 || b.Count(Black) != 12 {
		t.Fatalf("rejected add changed the board: len=%d", b.Len())
	}

	c := b.Clone()
	if c.Lifted() != 1 || c.Check() != nil {
		t.Fatalf("clone lost the lifted piece: lifted=%d err=%v", c.Lifted(), c.Check())
	}

	if err := b.ReplacePiece(NewPiece(Red, sq(t, "B1"), false)); err != nil {
		t.Fatalf("ReplacePiece: %v", err)
	}
	if b.PieceAt(sq(t, "B1")) != p || !b.Occupied(sq(t, "B1")) || b.Lifted() != 0 {
		t.Fatal("piece not back on B1")
	}
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if diff := cmp.Diff(before, b.LayoutTokens()); diff != "" {
		t.Fatalf("layout changed (-want +got):\n%s", diff)
	}
	if err := b.ReplacePiece(p); !errors.Is(err, ErrInvariant) {
		t.Fatalf("second ReplacePiece: %v", err)
	}
}

func TestUndoMoveBlockedCaptureLeavesBoardUnchanged(t *testing.T) {
	b := mustCustom(t, "RB3", "BC4")
	moved, err := b.ApplyMove(b.PieceAt(sq(t, "B3")), sq(t, "D5"))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if err := b.AddPiece(NewPiece(Red, sq(t, "C4"), false)); err != nil {
		t.Fatalf("AddPiece: %v", err)
	}
	if err := b.UndoMove(moved, sq(t, "B3")); !errors.Is(err, ErrInvariant) {
		t.Fatalf("UndoMove: %v", err)
	}
	if b.PieceAt(sq(t, "D5")) != moved || b.PieceAt(sq(t, "B3")) != nil {
		t.Fatal("failed undo moved the piece")
	}
	if len(b.History()) != 1 {
		t.Fatalf("history = %d entries", len(b.History()))
	}
	if err := b.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestPieceAtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewEmptyBoard().PieceAt(Square{Row: 8, Col: 0})
}

func TestBoardString(t *testing.T) {
	b := mustCustom(t, "RB1", "BC8K")
	want := "   A B C D E F G H\n" +
		"1    r   .   .   .\n" +
		"2  .   .   .   .  \n" +
		"3    .   .   .   .\n" +
		"4  .   .   .   .  \n" +
		"5    .   .   .   .\n" +
		"6  .   .   .   .  \n" +
		"7    .   .   .   .\n" +
		"8  .   B   .   .  \n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Fatalf("String (-want +got):\n%s", diff)
	}
}

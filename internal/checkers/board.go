package checkers

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Move is a single step or jump of one piece.
type Move struct {
	From Square
	To   Square
}

func (m Move) IsJump() bool {
	return abs(m.To.Row-m.From.Row) == 2 && abs(m.To.Col-m.From.Col) == 2
}

// String renders the move as "B3 A4".
func (m Move) String() string { return m.From.String() + " " + m.To.String() }

var noSquare = Square{Row: -1, Col: -1}

// MoveRecord is one undo-log entry written by ApplyMove.
type MoveRecord struct {
	Color       Color
	From        Square
	To          Square
	Promoted    bool
	PrevPending bool

	Captured      *Piece
	CapturedIndex int
}

// Board owns the grid and the roster. Grid cells hold the same *Piece values
// as the roster; all mutation goes through Board methods.
type Board struct {
	grid   [Size][Size]*Piece
	roster []*Piece

	counts [2]int
	kings  [2]int

	occupied uint64
	log      []MoveRecord

	// lifted pieces keep their roster slot but are off the grid.
	lifted []*Piece
}

// NewEmptyBoard returns a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// NewClassicBoard returns the standard 12-vs-12 opening position. Red pieces
// precede black pieces in the roster, each in row-major order.
func NewClassicBoard() *Board {
	b := &Board{}
	for _, c := range Colors {
		rows := [2]int{0, 3}
		if c == Black {
			rows = [2]int{Size - 3, Size}
		}
		for r := rows[0]; r < rows[1]; r++ {
			for col := 0; col < Size; col++ {
				sq := Square{Row: r, Col: col}
				if sq.Playable() {
					b.place(NewPiece(c, sq, false))
				}
			}
		}
	}
	b.occupied = b.computeOccupancy()
	return b
}

func (b *Board) place(p *Piece) {
	b.grid[p.loc.Row][p.loc.Col] = p
	b.roster = append(b.roster, p)
	b.counts[p.color]++
	if p.king {
		b.kings[p.color]++
	}
}

// Count returns the number of pieces of color c on the board.
func (b *Board) Count(c Color) int { return b.counts[c] }

// KingCount returns the number of kings of color c on the board.
func (b *Board) KingCount(c Color) int { return b.kings[c] }

// Len is the roster length.
func (b *Board) Len() int { return len(b.roster) }

// Pieces returns the roster in order. The pieces are live; do not mutate.
func (b *Board) Pieces() []*Piece { return slices.Clone(b.roster) }

// PiecesOfColor returns the pieces of c in roster order.
func (b *Board) PiecesOfColor(c Color) []*Piece {
	out := make([]*Piece, 0, b.counts[c])
	for _, p := range b.roster {
		if p.color == c {
			out = append(out, p)
		}
	}
	return out
}

// PieceAt returns the piece on sq or nil. It panics when sq is off the board.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.InBounds() {
		panic(fmt.Sprintf("checkers: square (%d,%d) out of range", sq.Row, sq.Col))
	}
	return b.grid[sq.Row][sq.Col]
}

// Occupied reports whether sq holds a piece according to the occupancy index.
func (b *Board) Occupied(sq Square) bool {
	return sq.InBounds() && b.occupied&(1<<sq.index()) != 0
}

// Resolve finds the roster piece equal to p by value.
func (b *Board) Resolve(p *Piece) *Piece {
	if p == nil || !p.loc.InBounds() {
		return nil
	}
	if q := b.grid[p.loc.Row][p.loc.Col]; q != nil && q.Equal(p) {
		return q
	}
	return nil
}

func (b *Board) rosterIndex(p *Piece) int {
	return slices.IndexFunc(b.roster, func(q *Piece) bool { return q == p })
}

func (b *Board) empty(sq Square) bool {
	return sq.InBounds() && b.grid[sq.Row][sq.Col] == nil
}

// LegalMoves returns the non-capturing destinations of p.
func (b *Board) LegalMoves(p *Piece) []Square {
	var out []Square
	for _, o := range p.moves {
		dest := p.loc.Add(o)
		if b.empty(dest) {
			out = append(out, dest)
		}
	}
	return out
}

// LegalJumps returns the capturing destinations of p: the landing square is
// empty and the jumped square holds an opposing piece.
func (b *Board) LegalJumps(p *Piece) []Square {
	var out []Square
	for _, o := range p.jumps {
		dest := p.loc.Add(o)
		if !b.empty(dest) {
			continue
		}
		mid := p.loc.Midpoint(dest)
		if over := b.grid[mid.Row][mid.Col]; over != nil && over.color != p.color {
			out = append(out, dest)
		}
	}
	return out
}

// LegalMovesAndJumps returns moves followed by jumps, or only jumps when
// jumpsOnly is set.
func (b *Board) LegalMovesAndJumps(p *Piece, jumpsOnly bool) []Square {
	if jumpsOnly {
		return b.LegalJumps(p)
	}
	return append(b.LegalMoves(p), b.LegalJumps(p)...)
}

// AllMoves enumerates every legal move of c in roster order.
func (b *Board) AllMoves(c Color) []Move {
	var out []Move
	for _, p := range b.roster {
		if p.color != c || b.isLifted(p) {
			continue
		}
		for _, dest := range b.LegalMovesAndJumps(p, false) {
			out = append(out, Move{From: p.loc, To: dest})
		}
	}
	return out
}

func (b *Board) HasAnyMove(c Color) bool {
	for _, p := range b.roster {
		if p.color == c && !b.isLifted(p) && (len(b.LegalMoves(p)) > 0 || len(b.LegalJumps(p)) > 0) {
			return true
		}
	}
	return false
}

func (b *Board) isJumpOffset(p *Piece, dest Square) bool {
	for _, o := range p.jumps {
		if p.loc.Add(o) == dest {
			return true
		}
	}
	return false
}

// ApplyMove moves the roster piece equal to p to dest, capturing and
// promoting as needed, and returns the piece actually moved. The move is
// assumed validated; inconsistencies are reported as *InvariantError.
func (b *Board) ApplyMove(p *Piece, dest Square) (*Piece, error) {
	target := b.Resolve(p)
	if target == nil {
		return nil, invariantf("apply", p.loc, p, "piece not on board")
	}
	if !b.empty(dest) {
		return nil, invariantf("apply", dest, target, "destination unavailable")
	}

	from := target.loc
	rec := MoveRecord{Color: target.color, From: from, To: dest, PrevPending: target.pendingExtraJump, CapturedIndex: -1}

	jumped := b.isJumpOffset(target, dest)
	if jumped {
		mid := from.Midpoint(dest)
		over := b.grid[mid.Row][mid.Col]
		if over == nil || over.color == target.color {
			return nil, invariantf("apply", mid, target, "jump without opposing piece")
		}
		rec.Captured = over
		rec.CapturedIndex = b.rosterIndex(over)
		b.detach(over)
	}

	b.grid[from.Row][from.Col] = nil
	target.moveTo(dest)
	b.grid[dest.Row][dest.Col] = target

	if !target.king && dest.Row == target.color.PromotionRow() {
		target.promote()
		b.kings[target.color]++
		rec.Promoted = true
	}

	if err := b.reindex("apply"); err != nil {
		return nil, err
	}

	target.pendingExtraJump = jumped && len(b.LegalJumps(target)) > 0
	b.log = append(b.log, rec)
	return target, nil
}

// UndoMove reverses the most recent recorded move that took p from `from`
// to its current square: demotes if that move promoted, restores any captured
// piece at its former roster position and moves p back.
func (b *Board) UndoMove(p *Piece, from Square) error {
	target := b.Resolve(p)
	if target == nil {
		return invariantf("undo", p.loc, p, "piece not on board")
	}
	at := -1
	for i := len(b.log) - 1; i >= 0; i-- {
		r := b.log[i]
		if r.Color == target.color && r.To == target.loc && r.From == from {
			at = i
			break
		}
	}
	if at < 0 {
		return invariantf("undo", from, target, "no recorded move from this square")
	}
	if !b.empty(from) {
		return invariantf("undo", from, target, "origin square occupied")
	}
	rec := b.log[at]
	if c := rec.Captured; c != nil && !b.empty(c.loc) {
		return invariantf("undo", c.loc, c, "capture square occupied")
	}

	if rec.Promoted {
		target.demote()
		b.kings[target.color]--
	}
	b.grid[target.loc.Row][target.loc.Col] = nil
	target.moveTo(from)
	b.grid[from.Row][from.Col] = target
	target.pendingExtraJump = rec.PrevPending

	if c := rec.Captured; c != nil {
		idx := rec.CapturedIndex
		if idx < 0 || idx > len(b.roster) {
			idx = len(b.roster)
		}
		b.roster = slices.Insert(b.roster, idx, c)
		b.grid[c.loc.Row][c.loc.Col] = c
		b.counts[c.color]++
		if c.king {
			b.kings[c.color]++
		}
	}

	b.log = slices.Delete(b.log, at, at+1)
	return b.reindex("undo")
}

// History returns the undo log, oldest first.
func (b *Board) History() []MoveRecord { return slices.Clone(b.log) }

// detach removes p from grid and roster and updates counts.
func (b *Board) detach(p *Piece) {
	b.grid[p.loc.Row][p.loc.Col] = nil
	if i := b.rosterIndex(p); i >= 0 {
		b.roster = slices.Delete(b.roster, i, i+1)
		b.counts[p.color]--
		if p.king {
			b.kings[p.color]--
		}
	}
}

// RemovePiece clears p's square. With fromRoster it also drops p from the
// roster and counts. Without it the piece is lifted: it keeps its roster slot
// and counts but leaves the grid and occupancy index until ReplacePiece puts
// it back.
func (b *Board) RemovePiece(p *Piece, fromRoster bool) error {
	target := b.Resolve(p)
	if target == nil {
		return invariantf("remove", p.loc, p, "piece not on board")
	}
	b.grid[target.loc.Row][target.loc.Col] = nil
	if fromRoster {
		if i := b.rosterIndex(target); i >= 0 {
			b.roster = slices.Delete(b.roster, i, i+1)
			b.counts[target.color]--
			if target.king {
				b.kings[target.color]--
			}
		}
	} else {
		b.lifted = append(b.lifted, target)
	}
	return b.reindex("remove")
}

// ReplacePiece puts a lifted piece equal to p back on its square.
func (b *Board) ReplacePiece(p *Piece) error {
	i := slices.IndexFunc(b.lifted, func(q *Piece) bool { return q.Equal(p) })
	if i < 0 {
		return invariantf("replace", p.loc, p, "piece not lifted")
	}
	q := b.lifted[i]
	if b.grid[q.loc.Row][q.loc.Col] != nil {
		return invariantf("replace", q.loc, q, "square already occupied")
	}
	b.lifted = slices.Delete(b.lifted, i, i+1)
	b.grid[q.loc.Row][q.loc.Col] = q
	return b.reindex("replace")
}

// Lifted reports how many pieces are off the grid awaiting ReplacePiece.
func (b *Board) Lifted() int { return len(b.lifted) }

// AddPiece places a new piece on its square and appends it to the roster.
// The board is unchanged when an error is returned.
func (b *Board) AddPiece(p *Piece) error {
	if p == nil || !p.loc.InBounds() {
		return invariantf("add", noSquare, p, "square out of range")
	}
	if b.rosterIndex(p) >= 0 {
		return invariantf("add", p.loc, p, "piece already in roster")
	}
	if b.grid[p.loc.Row][p.loc.Col] != nil {
		return invariantf("add", p.loc, p, "square already occupied")
	}
	if slices.ContainsFunc(b.lifted, func(q *Piece) bool { return q.loc == p.loc }) {
		return invariantf("add", p.loc, p, "square reserved by a lifted piece")
	}
	b.place(p)
	return b.reindex("add")
}

// RemoveAll empties the board and forgets the undo log.
func (b *Board) RemoveAll() {
	*b = Board{}
}

// Clone returns a deep copy that shares no mutable state with b.
func (b *Board) Clone() *Board {
	c := &Board{counts: b.counts, kings: b.kings, occupied: b.occupied}
	c.roster = make([]*Piece, len(b.roster))
	for i, p := range b.roster {
		q := p.clone()
		c.roster[i] = q
		if b.grid[p.loc.Row][p.loc.Col] == p {
			c.grid[q.loc.Row][q.loc.Col] = q
		} else {
			c.lifted = append(c.lifted, q)
		}
	}
	if len(b.log) > 0 {
		c.log = make([]MoveRecord, len(b.log))
		for i, r := range b.log {
			if r.Captured != nil {
				r.Captured = r.Captured.clone()
			}
			c.log[i] = r
		}
	}
	return c
}

func (b *Board) isLifted(p *Piece) bool {
	return slices.Contains(b.lifted, p)
}

func (b *Board) computeOccupancy() uint64 {
	var occ uint64
	for _, p := range b.roster {
		if !b.isLifted(p) {
			occ |= 1 << p.loc.index()
		}
	}
	return occ
}

// reindex rebuilds the occupancy index and cross-checks it against the grid,
// the roster and the counters.
func (b *Board) reindex(op string) error {
	occ := b.computeOccupancy()
	if n := bits.OnesCount64(occ); n != len(b.roster)-len(b.lifted) {
		return invariantf(op, noSquare, nil, "roster has %d pieces (%d lifted) on %d squares", len(b.roster), len(b.lifted), n)
	}
	var counts, kings [2]int
	for _, p := range b.roster {
		switch {
		case !p.loc.InBounds():
			return invariantf(op, noSquare, p, "roster piece off the board")
		case b.isLifted(p):
			if b.grid[p.loc.Row][p.loc.Col] == p {
				return invariantf(op, p.loc, p, "lifted piece still on grid")
			}
		case b.grid[p.loc.Row][p.loc.Col] != p:
			return invariantf(op, p.loc, p, "roster piece missing from grid")
		}
		counts[p.color]++
		if p.king {
			kings[p.color]++
		}
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			sq := Square{Row: r, Col: c}
			if (b.grid[r][c] != nil) != (occ&(1<<sq.index()) != 0) {
				return invariantf(op, sq, b.grid[r][c], "grid cell not in roster")
			}
		}
	}
	if counts != b.counts {
		return invariantf(op, noSquare, nil, "counts %v, roster holds %v", b.counts, counts)
	}
	if kings != b.kings {
		return invariantf(op, noSquare, nil, "king counts %v, roster holds %v", b.kings, kings)
	}
	b.occupied = occ
	return nil
}

// Check verifies every board invariant.
func (b *Board) Check() error {
	return b.reindex("check")
}

// Describe lists the roster, one piece per line.
func (b *Board) Describe() string {
	var sb strings.Builder
	for i, p := range b.roster {
		fmt.Fprintf(&sb, "%2d %s\n", i, p)
	}
	return sb.String()
}

// String draws the board with rank 1 on top. Men are lowercase letters,
// kings uppercase, dark empty squares '.', light squares ' '.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   A B C D E F G H\n")
	for r := 0; r < Size; r++ {
		fmt.Fprintf(&sb, "%d ", r+1)
		for c := 0; c < Size; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(b.glyph(Square{Row: r, Col: c}))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) glyph(sq Square) byte {
	p := b.grid[sq.Row][sq.Col]
	switch {
	case p == nil && sq.Playable():
		return '.'
	case p == nil:
		return ' '
	case p.king:
		return p.color.Letter()
	default:
		return p.color.Letter() + ('a' - 'A')
	}
}

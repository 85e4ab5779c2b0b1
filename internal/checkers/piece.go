package checkers

import "fmt"

var (
	kingSteps  = []Offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	blackSteps = []Offset{{-1, -1}, {-1, 1}}
	redSteps   = []Offset{{1, -1}, {1, 1}}
)

// Piece is a single checker. Two pieces are equal when they share color and
// location; king status is not part of identity.
type Piece struct {
	color   Color
	loc     Square
	king    bool
	crowned bool

	pendingExtraJump bool

	moves []Offset
	jumps []Offset
}

func NewPiece(color Color, loc Square, king bool) *Piece {
	p := &Piece{color: color, loc: loc, king: king}
	p.refreshDirections()
	return p
}

func (p *Piece) Color() Color { return p.color }
func (p *Piece) Location() Square { return p.loc }
func (p *Piece) King() bool { return p.king }
func (p *Piece) Crowned() bool { return p.crowned }
func (p *Piece) PendingExtraJump() bool { return p.pendingExtraJump }

// MoveOffsets returns the single-step offsets that stay on the board.
func (p *Piece) MoveOffsets() []Offset { return append([]Offset(nil), p.moves...) }

// JumpOffsets returns the two-step offsets that stay on the board.
func (p *Piece) JumpOffsets() []Offset { return append([]Offset(nil), p.jumps...) }

// Crown records that the physical crown has been placed on a king.
func (p *Piece) Crown() {
	if p.king {
		p.crowned = true
	}
}

func (p *Piece) Equal(o *Piece) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.color == o.color && p.loc == o.loc
}

func (p *Piece) String() string {
	kind := "man"
	if p.king {
		kind = "king"
	}
	return fmt.Sprintf("%s %s at %s", p.color, kind, p.loc)
}

func (p *Piece) steps() []Offset {
	switch {
	case p.king:
		return kingSteps
	case p.color == Black:
		return blackSteps
	default:
		return redSteps
	}
}

func (p *Piece) refreshDirections() {
	p.moves = p.moves[:0]
	p.jumps = p.jumps[:0]
	for _, s := range p.steps() {
		if p.loc.Add(s).InBounds() {
			p.moves = append(p.moves, s)
		}
	}
	for _, s := range p.steps() {
		j := Offset{DRow: 2 * s.DRow, DCol: 2 * s.DCol}
		if p.loc.Add(j).InBounds() {
			p.jumps = append(p.jumps, j)
		}
	}
}

func (p *Piece) moveTo(dest Square) {
	p.loc = dest
	p.refreshDirections()
}

func (p *Piece) promote() {
	p.king = true
	p.refreshDirections()
}

func (p *Piece) demote() {
	p.king = false
	p.crowned = false
	p.refreshDirections()
}

func (p *Piece) clone() *Piece {
	c := *p
	c.moves = append([]Offset(nil), p.moves...)
	c.jumps = append([]Offset(nil), p.jumps...)
	return &c
}

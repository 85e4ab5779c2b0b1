package checkers

import (
	"fmt"
	"strings"
)

// Size is the board edge length.
const Size = 8

// Square addresses a board cell. Row 0 is text rank 1, col 0 is file A.
type Square struct {
	Row int
	Col int
}

// Offset is a (row, col) displacement.
type Offset struct {
	DRow int
	DCol int
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// Playable reports whether the square is a dark square.
func (s Square) Playable() bool {
	return s.InBounds() && (s.Row+s.Col)%2 == 1
}

func (s Square) Add(o Offset) Square {
	return Square{Row: s.Row + o.DRow, Col: s.Col + o.DCol}
}

// Midpoint returns the square between s and t; meaningful for jumps only.
func (s Square) Midpoint(t Square) Square {
	return Square{Row: (s.Row + t.Row) / 2, Col: (s.Col + t.Col) / 2}
}

func (s Square) index() uint {
	return uint(s.Row*Size + s.Col)
}

// String renders the square as "<Col><Row>", e.g. "B3".
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{byte('A' + s.Col), byte('1' + s.Row)})
}

// ParseSquare reads a two-character "<Col><Row>" token, case-insensitive.
func ParseSquare(tok string) (Square, error) {
	tok = strings.ToUpper(strings.TrimSpace(tok))
	if len(tok) != 2 {
		return Square{}, fmt.Errorf("%w: square %q must be two characters", ErrInvalidInput, tok)
	}
	col, row := tok[0], tok[1]
	if col < 'A' || col > 'H' {
		return Square{}, fmt.Errorf("%w: column %q out of range A-H", ErrInvalidInput, col)
	}
	if row < '1' || row > '8' {
		return Square{}, fmt.Errorf("%w: row %q out of range 1-8", ErrInvalidInput, row)
	}
	return Square{Row: int(row - '1'), Col: int(col - 'A')}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

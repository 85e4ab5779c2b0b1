package checkers

import (
	"fmt"
	"strings"
)

// LayoutMode selects how a board is populated.
type LayoutMode string

const (
	LayoutClassic LayoutMode = "classic"
	LayoutEmpty   LayoutMode = "empty"
	LayoutCustom  LayoutMode = "custom"
)

// DefaultCustomLayout is used when custom mode is requested without tokens.
var DefaultCustomLayout = []string{"RB1", "RD1", "BA8", "BC8K"}

// ParseLayoutMode accepts classic, empty and custom, any case.
func ParseLayoutMode(s string) (LayoutMode, error) {
	switch m := LayoutMode(strings.ToLower(strings.TrimSpace(s))); m {
	case LayoutClassic, LayoutEmpty, LayoutCustom:
		return m, nil
	case "":
		return LayoutClassic, nil
	default:
		return "", fmt.Errorf("%w: unknown layout mode %q", ErrInvalidInput, s)
	}
}

// NewBoard builds a board for mode. tokens are only read in custom mode.
func NewBoard(mode LayoutMode, tokens []string) (*Board, error) {
	switch mode {
	case LayoutClassic, "":
		return NewClassicBoard(), nil
	case LayoutEmpty:
		return NewEmptyBoard(), nil
	case LayoutCustom:
		if len(tokens) == 0 {
			tokens = DefaultCustomLayout
		}
		return NewCustomBoard(tokens)
	default:
		return nil, fmt.Errorf("%w: unknown layout mode %q", ErrInvalidInput, mode)
	}
}

// LayoutToken is one parsed "<Color><Col><Row>[K]" entry.
type LayoutToken struct {
	Color  Color
	Square Square
	King   bool
}

func (t LayoutToken) String() string {
	s := string(t.Color.Letter()) + t.Square.String()
	if t.King {
		s += "K"
	}
	return s
}

// ParseLayoutToken parses a token such as "RB1" or "bc8k". Case is ignored.
func ParseLayoutToken(raw string) (LayoutToken, error) {
	tok := strings.ToUpper(strings.TrimSpace(raw))
	if len(tok) != 3 && len(tok) != 4 {
		return LayoutToken{}, fmt.Errorf("%w: %q", ErrBadLayoutToken, raw)
	}
	var t LayoutToken
	switch tok[0] {
	case 'R':
		t.Color = Red
	case 'B':
		t.Color = Black
	default:
		return LayoutToken{}, fmt.Errorf("%w: %q has color %q, want R or B", ErrBadLayoutToken, raw, tok[0])
	}
	sq, err := ParseSquare(tok[1:3])
	if err != nil {
		return LayoutToken{}, fmt.Errorf("%w: %q: %v", ErrBadLayoutToken, raw, err)
	}
	t.Square = sq
	if len(tok) == 4 {
		if tok[3] != 'K' {
			return LayoutToken{}, fmt.Errorf("%w: %q has suffix %q, want K", ErrBadLayoutToken, raw, tok[3])
		}
		t.King = true
	}
	return t, nil
}

// NewCustomBoard places one piece per token in the order given.
func NewCustomBoard(tokens []string) (*Board, error) {
	b := NewEmptyBoard()
	for _, raw := range tokens {
		t, err := ParseLayoutToken(raw)
		if err != nil {
			return nil, err
		}
		if !t.Square.Playable() {
			return nil, fmt.Errorf("%w: %s", ErrLightSquare, t)
		}
		if b.grid[t.Square.Row][t.Square.Col] != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSquare, t)
		}
		piece := NewPiece(t.Color, t.Square, t.King)
		// a king placed from a layout already carries its crown
		piece.Crown()
		if err := b.AddPiece(piece); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LayoutTokens renders the roster back into layout tokens.
func (b *Board) LayoutTokens() []string {
	out := make([]string, 0, len(b.roster))
	for _, p := range b.roster {
		out = append(out, LayoutToken{Color: p.color, Square: p.loc, King: p.king}.String())
	}
	return out
}

package checkers

import (
	"fmt"
	"strings"
)

// Color identifies a side. Red starts on rows 0-2 and moves toward row 7.
type Color uint8

const (
	Red Color = iota
	Black
)

// Colors lists both sides in roster order.
var Colors = [2]Color{Red, Black}

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "red"
}

// Letter is the layout-token prefix for the color.
func (c Color) Letter() byte {
	if c == Black {
		return 'B'
	}
	return 'R'
}

func (c Color) Opponent() Color {
	if c == Black {
		return Red
	}
	return Black
}

// PromotionRow is the far back rank on which a man of this color is crowned.
func (c Color) PromotionRow() int {
	if c == Black {
		return 0
	}
	return Size - 1
}

// ParseColor accepts "red", "black" and their first letters, any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "black", "b":
		return Black, nil
	default:
		return Red, fmt.Errorf("%w: unknown color %q", ErrInvalidInput, s)
	}
}

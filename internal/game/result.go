package game

import (
	"fmt"
	"strings"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

// Result is the state of a game.
type Result int

const (
	Ongoing Result = iota
	RedWins
	BlackWins
	Tie
)

func (r Result) String() string {
	switch r {
	case RedWins:
		return "red_wins"
	case BlackWins:
		return "black_wins"
	case Tie:
		return "tie"
	default:
		return "ongoing"
	}
}

// Over reports whether the game has ended.
func (r Result) Over() bool { return r != Ongoing }

// Winner returns the winning color; ok is false for ties and ongoing games.
func (r Result) Winner() (c checkers.Color, ok bool) {
	switch r {
	case RedWins:
		return checkers.Red, true
	case BlackWins:
		return checkers.Black, true
	default:
		return checkers.Red, false
	}
}

func winFor(c checkers.Color) Result {
	if c == checkers.Black {
		return BlackWins
	}
	return RedWins
}

// BlockadeRule decides a game in which the side to move has pieces but no
// legal move.
type BlockadeRule int

const (
	BlockadeTie BlockadeRule = iota
	BlockadeLoss
)

func (r BlockadeRule) String() string {
	if r == BlockadeLoss {
		return "loss"
	}
	return "tie"
}

func ParseBlockadeRule(s string) (BlockadeRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tie", "draw":
		return BlockadeTie, nil
	case "loss", "lose":
		return BlockadeLoss, nil
	default:
		return BlockadeTie, fmt.Errorf("unknown blockade rule: %s", s)
	}
}

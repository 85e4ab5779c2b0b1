package checkers

import (
	"fmt"
	"strings"
)

// ChainSeparator joins the sub-moves of one multi-jump ply.
const ChainSeparator = ", "

// ParseHumanMove reads "A3 B4": exactly two whitespace-separated tokens of
// exactly two characters each.
func ParseHumanMove(text string) (Move, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Move{}, fmt.Errorf("%w: want two squares like \"A3 B4\", got %q", ErrInvalidInput, text)
	}
	from, err := ParseSquare(fields[0])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(fields[1])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

// JoinChain renders the sub-moves of one ply as "C3 E5, E5 G7".
func JoinChain(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, ChainSeparator)
}

// RobotText is the lowercase form sent to the robot arm.
func RobotText(chain string) string {
	return strings.ToLower(chain)
}

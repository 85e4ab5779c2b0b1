package oracle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/park285/Cheese-Checkers/pkg/checkersdto"
)

const systemPrompt = "You are an AI playing checkers. You must carefully and accurately choose your next move. Remember to use the format: 5, 7, 0."

// ErrUnparseableAnswer means the reply did not contain three integers.
var ErrUnparseableAnswer = errors.New("oracle answer must be \"piece, row, col\"")

var intPattern = regexp.MustCompile(`-?\d+`)

// BuildPrompt lists every piece with its index, location, king flag and
// legal destinations. Indexes restart per color; the answer indexes the
// pieces of the side to move.
func BuildPrompt(snap checkersdto.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Choose the next move as %s. It must be in the form of: piece number, destination row, destination column\n", snap.Turn)
	sb.WriteString("For example: 3,0,7\n\n")
	sb.WriteString("Use the following board information to make your decision:\n")
	for _, group := range [][]checkersdto.PieceInfo{snap.Red, snap.Black} {
		for _, p := range group {
			fmt.Fprintf(&sb, "Piece %d:\n", p.Index)
			fmt.Fprintf(&sb, "  Color: %s\n", p.Color)
			fmt.Fprintf(&sb, "  Location: (%d, %d)\n", p.Row, p.Col)
			fmt.Fprintf(&sb, "  King: %t\n", p.King)
			sb.WriteString("  Valid Moves: [")
			for i, d := range p.ValidMoves {
				if i > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "(%d, %d)", d[0], d[1])
			}
			sb.WriteString("]\n\n")
		}
	}
	sb.WriteString("Remember to use the format of 5, 7, 0. Your move: ")
	return sb.String()
}

// ParseAnswer reads the first three integers of a reply such as "5, 7, 0".
func ParseAnswer(text string) (checkersdto.Candidate, error) {
	nums := intPattern.FindAllString(text, 3)
	if len(nums) < 3 {
		return checkersdto.Candidate{}, fmt.Errorf("%w: %q", ErrUnparseableAnswer, truncate(text, 80))
	}
	vals := make([]int, 3)
	for i, n := range nums {
		v, err := strconv.Atoi(n)
		if err != nil {
			return checkersdto.Candidate{}, fmt.Errorf("%w: %v", ErrUnparseableAnswer, err)
		}
		vals[i] = v
	}
	return checkersdto.Candidate{PieceIndex: vals[0], DestRow: vals[1], DestCol: vals[2]}, nil
}

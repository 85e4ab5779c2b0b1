package checkers

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing input errors. Callers re-prompt on these.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoPiece          = errors.New("no piece at source square")
	ErrWrongColor       = errors.New("piece belongs to the other player")
	ErrMustContinueJump = errors.New("must continue jumping with the same piece")
	ErrIllegalMove      = errors.New("illegal move")
)

// Configuration errors raised while building a board from a layout.
var (
	ErrBadLayoutToken  = errors.New("malformed layout token")
	ErrLightSquare     = errors.New("layout places a piece on a light square")
	ErrDuplicateSquare = errors.New("layout places two pieces on one square")
)

// ErrInvariant marks a broken board invariant. The board must not be used
// after one is reported.
var ErrInvariant = errors.New("board invariant violated")

// InvariantError carries the context of a broken board invariant.
type InvariantError struct {
	Op     string // apply, undo, add, remove, reindex
	Reason string
	Square Square
	Piece  string
}

func (e *InvariantError) Error() string {
	parts := []string{e.Op, e.Reason}
	if e.Square.InBounds() {
		parts = append(parts, "square "+e.Square.String())
	}
	if e.Piece != "" {
		parts = append(parts, "piece "+e.Piece)
	}
	return fmt.Sprintf("%s: %s", ErrInvariant, strings.Join(parts, ", "))
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

func invariantf(op string, sq Square, p *Piece, format string, args ...any) *InvariantError {
	e := &InvariantError{Op: op, Reason: fmt.Sprintf(format, args...), Square: sq}
	if p != nil {
		e.Piece = p.String()
	}
	return e
}

// IsUserError reports whether err is a recoverable input error.
func IsUserError(err error) bool {
	for _, target := range []error{ErrInvalidInput, ErrNoPiece, ErrWrongColor, ErrMustContinueJump, ErrIllegalMove} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

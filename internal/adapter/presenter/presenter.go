package presenter

import (
	"fmt"
	"io"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/game"
)

// Presenter writes formatted game events to out.
type Presenter struct {
	out io.Writer
	f   *Formatter
}

func NewPresenter(out io.Writer, f *Formatter) *Presenter {
	if f == nil {
		f = NewFormatter(nil)
	}
	return &Presenter{out: out, f: f}
}

func (p *Presenter) Formatter() *Formatter { return p.f }

func (p *Presenter) Board(b *checkers.Board) {
	fmt.Fprintln(p.out, b.String())
}

func (p *Presenter) Ply(player string, ply game.Ply) {
	fmt.Fprintln(p.out, p.f.Ply(player, ply))
}

// Result prints the board and the final result.
func (p *Presenter) Result(s *game.Session) {
	p.Board(s.Board())
	fmt.Fprintln(p.out, p.f.Result(s.Result(), s.Reason()))
}

func (p *Presenter) Line(s string) {
	fmt.Fprintln(p.out, s)
}

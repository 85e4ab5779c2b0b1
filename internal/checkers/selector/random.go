package selector

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

// Random chooses uniformly among pieces that can move, then uniformly among
// that piece's destinations.
type Random struct {
	randMu sync.Mutex
	rand   *rand.Rand
}

// NewRandom seeds from the clock when seed is zero.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rand: rand.New(rand.NewSource(seed))}
}

func (r *Random) SetRandomSeed(seed int64) {
	r.randMu.Lock()
	r.rand = rand.New(rand.NewSource(seed))
	r.randMu.Unlock()
}

func (r *Random) intn(n int) int {
	r.randMu.Lock()
	defer r.randMu.Unlock()
	return r.rand.Intn(n)
}

func (r *Random) Name() string { return "random" }

func (r *Random) Select(ctx context.Context, b *checkers.Board, color checkers.Color, restricted *checkers.Square) (checkers.Move, error) {
	if err := ctx.Err(); err != nil {
		return checkers.Move{}, err
	}
	if restricted != nil {
		p, err := restrictedPiece(b, color, *restricted)
		if err != nil {
			return checkers.Move{}, err
		}
		jumps := b.LegalJumps(p)
		if len(jumps) == 0 {
			return checkers.Move{}, ErrNoMoves
		}
		return checkers.Move{From: p.Location(), To: jumps[r.intn(len(jumps))]}, nil
	}

	pieces := movable(b, color)
	if len(pieces) == 0 {
		return checkers.Move{}, ErrNoMoves
	}
	p := pieces[r.intn(len(pieces))]
	dests := b.LegalMovesAndJumps(p, false)
	return checkers.Move{From: p.Location(), To: dests[r.intn(len(dests))]}, nil
}

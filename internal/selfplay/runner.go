// Package selfplay plays batches of computer-vs-computer games between two
// selector presets and summarizes the outcome.
package selfplay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/selector"
	"github.com/park285/Cheese-Checkers/internal/domain"
	"github.com/park285/Cheese-Checkers/internal/game"
	"github.com/park285/Cheese-Checkers/pkg/checkersdto"
)

type Config struct {
	Player   string
	Opponent string
	Games    int
	Workers  int
	// MaxPlies caps each game; zero means 200.
	MaxPlies int
	Blockade game.BlockadeRule
	Layout   checkers.LayoutMode
	Tokens   []string
	// Seed derives a distinct seed per game and side; zero uses the clock.
	Seed int64
	Deps selector.Deps
}

// Progress is called after each finished game.
type Progress func(done, total int)

type Runner struct {
	cfg    Config
	store  Store
	logger *zap.Logger
}

func NewRunner(cfg Config, store Store, logger *zap.Logger) (*Runner, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	// aliases such as "hard" are reported under the preset name
	for _, name := range []*string{&cfg.Player, &cfg.Opponent} {
		p, err := selector.GetPreset(*name)
		if err != nil {
			return nil, err
		}
		*name = p.Name
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Workers > cfg.Games {
		cfg.Workers = cfg.Games
	}
	if cfg.MaxPlies <= 0 {
		cfg.MaxPlies = 200
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, store: store, logger: logger}, nil
}

// Run plays every game and reports from Player's side. Player takes red in
// even-numbered games and black in odd ones.
func (r *Runner) Run(ctx context.Context, progress Progress) (checkersdto.MatchReport, error) {
	runID := uuid.NewString()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.logger.Info("selfplay_start",
		zap.String("run_id", runID),
		zap.String("player", r.cfg.Player),
		zap.String("opponent", r.cfg.Opponent),
		zap.Int("games", r.cfg.Games),
		zap.Int("workers", r.cfg.Workers),
	)

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		done     int
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, err := r.playOne(ctx, runID, i)
				if err != nil {
					fail(fmt.Errorf("game %d: %w", i, err))
					return
				}
				if _, err := r.store.InsertGame(ctx, rec); err != nil {
					fail(fmt.Errorf("store game %d: %w", i, err))
					return
				}
				mu.Lock()
				done++
				n := done
				mu.Unlock()
				if progress != nil {
					progress(n, r.cfg.Games)
				}
			}
		}()
	}

feed:
	for i := 0; i < r.cfg.Games; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return checkersdto.MatchReport{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return checkersdto.MatchReport{}, err
	}

	records, err := r.store.ListRun(context.WithoutCancel(ctx), runID)
	if err != nil {
		return checkersdto.MatchReport{}, err
	}
	rep := Summarize(runID, r.cfg.Player, r.cfg.Opponent, records)
	r.logger.Info("selfplay_done",
		zap.String("run_id", runID),
		zap.Int("wins", rep.Wins),
		zap.Int("draws", rep.Draws),
		zap.Int("losses", rep.Losses),
		zap.Float64("elo", rep.Elo),
	)
	return rep, nil
}

func (r *Runner) playOne(ctx context.Context, runID string, i int) (*domain.GameRecord, error) {
	redName, blackName := r.cfg.Player, r.cfg.Opponent
	playerColor := checkers.Red
	if i%2 == 1 {
		redName, blackName = blackName, redName
		playerColor = checkers.Black
	}
	red, err := r.selectorFor(redName, i, 0)
	if err != nil {
		return nil, err
	}
	black, err := r.selectorFor(blackName, i, 1)
	if err != nil {
		return nil, err
	}

	board, err := checkers.NewBoard(r.cfg.Layout, r.cfg.Tokens)
	if err != nil {
		return nil, err
	}
	layout := board.LayoutTokens()
	sess := game.NewSession(board, game.Options{
		Blockade: r.cfg.Blockade,
		MaxPlies: r.cfg.MaxPlies,
		Logger:   r.logger.With(zap.String("run_id", runID)),
	})
	start := time.Now()
	res, err := (&game.Runner{
		Session: sess,
		Red:     game.Player{Name: redName, Selector: red},
		Black:   game.Player{Name: blackName, Selector: black},
		Logger:  r.logger,
	}).Run(ctx)
	if err != nil {
		return nil, err
	}
	end := time.Now()

	plies := sess.Plies()
	moves := make([]string, len(plies))
	for k, p := range plies {
		moves[k] = p.Text()
	}
	return &domain.GameRecord{
		RunID:        runID,
		GameID:       sess.ID(),
		Red:          redName,
		Black:        blackName,
		PlayerColor:  playerColor.String(),
		Result:       res.String(),
		ResultMethod: sess.Reason(),
		Plies:        len(plies),
		Moves:        moves,
		Layout:       layout,
		StartedAt:    start,
		EndedAt:      end,
		Duration:     end.Sub(start),
	}, nil
}

func (r *Runner) selectorFor(name string, idx, side int) (selector.Selector, error) {
	deps := r.cfg.Deps
	if r.cfg.Seed != 0 {
		deps.Seed = r.cfg.Seed + int64(idx)*2 + int64(side)
	}
	if deps.Logger == nil {
		deps.Logger = r.logger
	}
	return selector.New(name, deps)
}

// Package builder wires configuration into selectors, caches, sinks and
// stores.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/oracle"
	"github.com/park285/Cheese-Checkers/internal/checkers/selector"
	"github.com/park285/Cheese-Checkers/internal/config"
	"github.com/park285/Cheese-Checkers/internal/game"
	"github.com/park285/Cheese-Checkers/internal/msgcat"
	"github.com/park285/Cheese-Checkers/internal/robot"
	"github.com/park285/Cheese-Checkers/internal/selfplay"
)

type Deps struct {
	Config  *config.AppConfig
	Catalog *msgcat.Catalog
	Cache   selector.DecisionCache
	Oracle  selector.MoveOracle
	Logger  *zap.Logger

	closers []func() error
}

// New connects the optional backing services named in cfg. A Redis URL
// gives a shared decision cache; otherwise decisions are cached in memory.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	d := &Deps{Config: cfg, Catalog: cat, Logger: logger}

	if strings.TrimSpace(cfg.RedisURL) != "" {
		ttl := time.Duration(cfg.CacheTTLSec) * time.Second
		rc, err := selector.NewRedisCacheFromURL(ctx, cfg.RedisURL, ttl)
		if err != nil {
			return nil, fmt.Errorf("init decision cache: %w", err)
		}
		d.Cache = rc
		d.closers = append(d.closers, rc.Close)
		logger.Info("decision_cache", zap.String("backend", "redis"))
	} else {
		d.Cache = selector.NewMemoryCache()
	}

	if base := strings.TrimSpace(cfg.Oracle.BaseURL); base != "" {
		d.Oracle = oracle.NewClient(base,
			oracle.WithAPIKey(cfg.Oracle.APIKey),
			oracle.WithModel(cfg.Oracle.Model),
			oracle.WithTimeout(time.Duration(cfg.Oracle.TimeoutSec)*time.Second),
		)
	}
	return d, nil
}

// SelectorDeps returns the collaborators handed to selector presets.
func (d *Deps) SelectorDeps() selector.Deps {
	return selector.Deps{Seed: d.Config.Seed, Cache: d.Cache, Oracle: d.Oracle, Logger: d.Logger}
}

// Player resolves a configured side. "human" yields a console player; a
// positive Depth overrides the search depth of minimax presets.
func (d *Deps) Player(name string) (game.Player, error) {
	if config.IsHuman(name) {
		return game.Player{Name: config.HumanPlayer}, nil
	}
	p, err := selector.GetPreset(name)
	if err != nil {
		return game.Player{}, err
	}
	if p.Kind == selector.KindMinimax && d.Config.Depth > 0 {
		p.Depth = d.Config.Depth
		p.Name = fmt.Sprintf("minimax%d", p.Depth)
	}
	sel, err := selector.FromPreset(p, d.SelectorDeps())
	if err != nil {
		return game.Player{}, err
	}
	return game.Player{Name: p.Name, Selector: sel}, nil
}

func (d *Deps) Players() (red, black game.Player, err error) {
	if red, err = d.Player(d.Config.Red); err != nil {
		return red, black, fmt.Errorf("red: %w", err)
	}
	if black, err = d.Player(d.Config.Black); err != nil {
		return red, black, fmt.Errorf("black: %w", err)
	}
	return red, black, nil
}

func (d *Deps) LayoutMode() (checkers.LayoutMode, error) {
	return checkers.ParseLayoutMode(d.Config.Layout)
}

// Layout is the configured starting position as a game.LayoutSource.
func (d *Deps) Layout() (game.LayoutSource, error) {
	mode, err := d.LayoutMode()
	if err != nil {
		return nil, err
	}
	return game.StaticLayout{Mode: mode, Tokens: d.Config.Tokens}, nil
}

func (d *Deps) Blockade() (game.BlockadeRule, error) {
	return game.ParseBlockadeRule(d.Config.Blockade)
}

// Sink builds the robot sink for one game.
func (d *Deps) Sink(gameID string) (game.MoveSink, error) {
	mode, err := robot.ParseMode(d.Config.Robot.Mode)
	if err != nil {
		return nil, err
	}
	return robot.NewSink(mode, d.Config.Robot.WSURL, gameID, robot.Options{
		AckTimeout: time.Duration(d.Config.Robot.AckTimeoutSec) * time.Second,
		Logger:     d.Logger.Named("robot"),
	})
}

// Store opens the self-play store: Postgres when DatabaseURL is set,
// memory otherwise.
func (d *Deps) Store(ctx context.Context) (selfplay.Store, error) {
	if strings.TrimSpace(d.Config.DatabaseURL) == "" {
		return selfplay.NewMemoryStore(), nil
	}
	return selfplay.NewPostgresStore(ctx, d.Config.DatabaseURL)
}

func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

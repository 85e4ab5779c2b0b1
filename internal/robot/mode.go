package robot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/game"
)

type Mode string

const (
	ModeNone   Mode = "none"
	ModeDryRun Mode = "dryrun"
	ModeWS     Mode = "ws"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeNone:
		return ModeNone, nil
	case ModeDryRun, ModeWS:
		return m, nil
	default:
		return ModeNone, fmt.Errorf("unknown robot mode: %s", s)
	}
}

// NewSink picks the MoveSink for mode. ModeWS requires url.
func NewSink(mode Mode, url, gameID string, opts Options) (game.MoveSink, error) {
	switch mode {
	case ModeWS:
		if strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("robot mode ws needs a url")
		}
		return NewWebSocketSink(url, gameID, opts), nil
	case ModeDryRun:
		return NewDryRunSink(opts.Logger), nil
	default:
		return game.NopSink{}, nil
	}
}

// DryRunSink logs what would be sent to the arm.
type DryRunSink struct {
	logger *zap.Logger
	sent   []string
}

func NewDryRunSink(logger *zap.Logger) *DryRunSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunSink{logger: logger}
}

func (d *DryRunSink) Deliver(ctx context.Context, ply game.Ply) error {
	text := checkers.RobotText(ply.Text())
	d.sent = append(d.sent, text)
	d.logger.Info("robot_dryrun", zap.Int("ply", ply.Number), zap.String("move", text))
	return nil
}

func (d *DryRunSink) Close(ctx context.Context) error {
	d.sent = append(d.sent, ExitCommand)
	d.logger.Info("robot_dryrun", zap.String("move", ExitCommand))
	return nil
}

// Sent lists everything delivered so far, exit included.
func (d *DryRunSink) Sent() []string { return append([]string(nil), d.sent...) }

// Package robot delivers computer moves to the robot arm controller over a
// websocket and waits for each move to be carried out.
package robot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/game"
	"github.com/park285/Cheese-Checkers/pkg/checkersdto"
)

// ExitCommand tells the controller the game is over.
const ExitCommand = "exit"

var (
	ErrNotConnected = errors.New("robot: not connected")
	ErrRejected     = errors.New("robot: move rejected")
)

// HeaderProvider supplies extra handshake headers.
type HeaderProvider func() map[string]string

type Options struct {
	// AckTimeout bounds the wait for the arm; zero means wait for ctx only.
	AckTimeout    time.Duration
	DialTimeout   time.Duration
	MaxReconnects int
	Headers       HeaderProvider
	Logger        *zap.Logger
}

// WebSocketSink is a game.MoveSink speaking JSON frames to the controller.
// Calls are serialized; the game loop delivers one ply at a time.
type WebSocketSink struct {
	url    string
	gameID string
	opts   Options
	logger *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebSocketSink(url, gameID string, opts Options) *WebSocketSink {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketSink{url: url, gameID: gameID, opts: opts, logger: logger}
}

// Connect dials the controller. Deliver dials lazily when not connected.
func (s *WebSocketSink) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *WebSocketSink) connectLocked(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, s.opts.DialTimeout)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, s.url, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      s.buildHeaders(),
	})
	if err != nil {
		return fmt.Errorf("dial robot %s: %w", s.url, err)
	}
	s.conn = conn
	s.logger.Info("robot_connected", zap.String("url", s.url))
	return nil
}

// Deliver sends the ply in lowercase and blocks until the controller acks it.
func (s *WebSocketSink) Deliver(ctx context.Context, ply game.Ply) error {
	cmd := checkersdto.RobotCommand{
		GameID: s.gameID,
		Ply:    ply.Number,
		Color:  ply.Color.String(),
		Move:   checkers.RobotText(ply.Text()),
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= s.opts.MaxReconnects; attempt++ {
		if attempt > 0 {
			s.logger.Warn("robot_reconnect", zap.Int("attempt", attempt), zap.Error(lastErr))
			if err := sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
				return lastErr
			}
		}
		if err := s.connectLocked(ctx); err != nil {
			lastErr = err
			continue
		}
		if err := wsjson.Write(ctx, s.conn, cmd); err != nil {
			lastErr = fmt.Errorf("send move: %w", err)
			s.dropLocked(websocket.StatusGoingAway, "write failure")
			continue
		}
		ack, err := s.awaitAck(ctx, cmd.Ply)
		if err != nil {
			// the move may already be executing; do not resend it
			s.dropLocked(websocket.StatusGoingAway, "ack failure")
			return err
		}
		if !ackOK(ack) {
			return fmt.Errorf("%w: ply %d %q: %s", ErrRejected, cmd.Ply, cmd.Move, ack.Error)
		}
		s.logger.Info("robot_move_done", zap.Int("ply", cmd.Ply), zap.String("move", cmd.Move))
		return nil
	}
	return lastErr
}

// PlacesCrowns reports that the arm crowns pieces it promotes.
func (s *WebSocketSink) PlacesCrowns() bool { return true }

func (s *WebSocketSink) awaitAck(ctx context.Context, ply int) (checkersdto.RobotAck, error) {
	if s.opts.AckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.AckTimeout)
		defer cancel()
	}
	for {
		var ack checkersdto.RobotAck
		if err := wsjson.Read(ctx, s.conn, &ack); err != nil {
			return ack, fmt.Errorf("await robot ack for ply %d: %w", ply, err)
		}
		if ack.Ply == ply {
			return ack, nil
		}
		s.logger.Debug("robot_stale_ack", zap.Int("want", ply), zap.Int("got", ack.Ply))
	}
}

func ackOK(ack checkersdto.RobotAck) bool {
	switch strings.ToLower(strings.TrimSpace(ack.Status)) {
	case "ok", "done":
		return true
	}
	return false
}

// Close sends the exit command and closes the connection. It is a no-op
// when the sink never connected.
func (s *WebSocketSink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	wctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	err := wsjson.Write(wctx, s.conn, checkersdto.RobotCommand{GameID: s.gameID, Move: ExitCommand})
	s.dropLocked(websocket.StatusNormalClosure, "game over")
	if err != nil {
		return fmt.Errorf("send exit: %w", err)
	}
	return nil
}

func (s *WebSocketSink) dropLocked(code websocket.StatusCode, reason string) {
	if s.conn == nil {
		return
	}
	_ = s.conn.Close(code, reason)
	s.conn = nil
}

func (s *WebSocketSink) buildHeaders() http.Header {
	hdr := http.Header{}
	if s.opts.Headers == nil {
		return hdr
	}
	for k, v := range s.opts.Headers() {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		hdr.Set(k, v)
	}
	return hdr
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(1<<uint(attempt-1)) * 250 * time.Millisecond
	if d > 4*time.Second {
		d = 4 * time.Second
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

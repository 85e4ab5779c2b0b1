package selfplay

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/park285/Cheese-Checkers/internal/domain"
)

var ErrDuplicateGame = errors.New("self-play game already recorded")

// Store persists finished self-play games.
type Store interface {
	InsertGame(ctx context.Context, rec *domain.GameRecord) (int64, error)
	ListRun(ctx context.Context, runID string) ([]*domain.GameRecord, error)
	Close() error
}

// memStore keeps records in process; used when no database is configured.
type memStore struct {
	mu     sync.RWMutex
	nextID int64
	byGame map[string]*domain.GameRecord
	byRun  map[string][]*domain.GameRecord
}

func NewMemoryStore() Store {
	return &memStore{
		byGame: make(map[string]*domain.GameRecord),
		byRun:  make(map[string][]*domain.GameRecord),
	}
}

func (m *memStore) InsertGame(ctx context.Context, rec *domain.GameRecord) (int64, error) {
	if rec == nil {
		return 0, errors.New("nil game record")
	}
	key := strings.TrimSpace(rec.GameID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byGame[key]; exists {
		return 0, ErrDuplicateGame
	}
	m.nextID++
	cp := *rec
	cp.ID = m.nextID
	cp.Moves = append([]string(nil), rec.Moves...)
	cp.Layout = append([]string(nil), rec.Layout...)
	m.byGame[key] = &cp
	m.byRun[rec.RunID] = append(m.byRun[rec.RunID], &cp)
	return cp.ID, nil
}

// ListRun returns the run's games ordered by ID.
func (m *memStore) ListRun(ctx context.Context, runID string) ([]*domain.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.byRun[runID]
	out := make([]*domain.GameRecord, 0, len(list))
	for _, rec := range list {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) Close() error { return nil }

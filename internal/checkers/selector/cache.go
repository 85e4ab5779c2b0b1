package selector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/Cheese-Checkers/internal/checkers"
)

const defaultDecisionTTL = 24 * time.Hour

// DecisionCache remembers the move chosen for a searched position.
type DecisionCache interface {
	Get(ctx context.Context, key string) (checkers.Move, bool, error)
	Put(ctx context.Context, key string, mv checkers.Move) error
}

// DecisionKey identifies a search: roster-ordered layout (tie-breaks depend
// on roster order), side to move, depth and any forced continuation square.
func DecisionKey(b *checkers.Board, color checkers.Color, depth int, restricted *checkers.Square) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(b.LayoutTokens(), ","))
	sb.WriteByte('|')
	sb.WriteByte(color.Letter())
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(depth))
	if restricted != nil {
		sb.WriteByte('|')
		sb.WriteString(restricted.String())
	}
	return sb.String()
}

// MemoryCache is an in-process DecisionCache. Entries are never evicted, so
// the map grows with every distinct key for the life of the process. Keys
// follow roster order: one position reached through different roster orders
// is stored once per order.
type MemoryCache struct {
	mu    sync.RWMutex
	moves map[string]checkers.Move
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{moves: make(map[string]checkers.Move)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) (checkers.Move, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mv, ok := m.moves[key]
	return mv, ok, nil
}

func (m *MemoryCache) Put(ctx context.Context, key string, mv checkers.Move) error {
	m.mu.Lock()
	m.moves[key] = mv
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.moves)
}

type cachedMove struct {
	FromRow int `json:"fr"`
	FromCol int `json:"fc"`
	ToRow   int `json:"tr"`
	ToCol   int `json:"tc"`
}

// RedisCache stores decisions as JSON blobs with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultDecisionTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// NewRedisCacheFromURL dials redisURL and pings it before returning.
func NewRedisCacheFromURL(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for decision cache")
	}
	opts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCache(rdb, ttl), nil
}

func (c *RedisCache) key(k string) string { return "ck:mm:" + k }

func (c *RedisCache) Get(ctx context.Context, key string) (checkers.Move, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return checkers.Move{}, false, nil
	}
	if err != nil {
		return checkers.Move{}, false, err
	}
	var cm cachedMove
	if err := json.Unmarshal(raw, &cm); err != nil {
		return checkers.Move{}, false, fmt.Errorf("decode cached move: %w", err)
	}
	return checkers.Move{
		From: checkers.Square{Row: cm.FromRow, Col: cm.FromCol},
		To:   checkers.Square{Row: cm.ToRow, Col: cm.ToCol},
	}, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, mv checkers.Move) error {
	raw, err := json.Marshal(cachedMove{FromRow: mv.From.Row, FromCol: mv.From.Col, ToRow: mv.To.Row, ToCol: mv.To.Col})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// ParseRedisURL converts redis://[:pass@]host:port/db into client options.
func ParseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}

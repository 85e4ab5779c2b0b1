package selfplay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/Cheese-Checkers/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkers_games (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT NOT NULL,
	game_id       TEXT NOT NULL UNIQUE,
	red           TEXT NOT NULL,
	black         TEXT NOT NULL,
	player_color  TEXT NOT NULL DEFAULT '',
	result        TEXT NOT NULL,
	result_method TEXT NOT NULL,
	plies         INTEGER NOT NULL,
	moves         JSONB NOT NULL,
	layout        JSONB NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL,
	ended_at      TIMESTAMPTZ NOT NULL,
	duration_ms   BIGINT NOT NULL
);
ALTER TABLE checkers_games ADD COLUMN IF NOT EXISTS player_color TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS checkers_games_run_idx ON checkers_games (run_id, id);`

type pgStore struct {
	db *sql.DB
}

// NewPostgresStore opens databaseURL, pings it and creates the table.
func NewPostgresStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &pgStore{db: db}, nil
}

func (r *pgStore) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *pgStore) InsertGame(ctx context.Context, rec *domain.GameRecord) (int64, error) {
	if rec == nil {
		return 0, errors.New("nil game record")
	}
	moves, err := json.Marshal(nonNil(rec.Moves))
	if err != nil {
		return 0, fmt.Errorf("marshal moves: %w", err)
	}
	layout, err := json.Marshal(nonNil(rec.Layout))
	if err != nil {
		return 0, fmt.Errorf("marshal layout: %w", err)
	}

	const query = `
		INSERT INTO checkers_games (
			run_id, game_id, red, black, player_color, result, result_method, plies,
			moves, layout, started_at, ended_at, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11, $12, $13)
		ON CONFLICT (game_id) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(ctx, query,
		rec.RunID, rec.GameID, rec.Red, rec.Black, rec.PlayerColor, rec.Result, rec.ResultMethod, rec.Plies,
		string(moves), string(layout), rec.StartedAt, rec.EndedAt, rec.Duration.Milliseconds(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert checkers game: %w", err)
	}
	return id.Int64, nil
}

func (r *pgStore) ListRun(ctx context.Context, runID string) ([]*domain.GameRecord, error) {
	const query = `
		SELECT id, run_id, game_id, red, black, player_color, result, result_method, plies,
			moves, layout, started_at, ended_at, duration_ms
		FROM checkers_games
		WHERE run_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []*domain.GameRecord
	for rows.Next() {
		var (
			rec           domain.GameRecord
			moves, layout []byte
			durationMS    int64
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.GameID, &rec.Red, &rec.Black, &rec.PlayerColor, &rec.Result,
			&rec.ResultMethod, &rec.Plies, &moves, &layout, &rec.StartedAt, &rec.EndedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan checkers game: %w", err)
		}
		if err := json.Unmarshal(moves, &rec.Moves); err != nil {
			return nil, fmt.Errorf("decode moves: %w", err)
		}
		if err := json.Unmarshal(layout, &rec.Layout); err != nil {
			return nil, fmt.Errorf("decode layout: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package domain

import "time"

// GameRecord is one finished game as persisted by the self-play runner.
type GameRecord struct {
	ID           int64
	RunID        string
	GameID       string
	Red          string
	Black        string
	// PlayerColor is the side the reported player took: "red" or "black".
	PlayerColor  string
	Result       string
	ResultMethod string
	Plies        int
	Moves        []string
	Layout       []string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}

// RunRecord describes one self-play run.
type RunRecord struct {
	RunID     string
	Player    string
	Opponent  string
	Games     int
	StartedAt time.Time
}

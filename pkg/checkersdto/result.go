package checkersdto

import "time"

// GameSummary is the outcome of one finished game.
type GameSummary struct {
	GameID   string        `json:"game_id"`
	Red      string        `json:"red"`
	Black    string        `json:"black"`
	Result   string        `json:"result"`
	Plies    int           `json:"plies"`
	Moves    []string      `json:"moves"`
	Duration time.Duration `json:"duration"`
}

// MatchReport aggregates a self-play run from the first player's side.
type MatchReport struct {
	RunID     string  `json:"run_id"`
	Player    string  `json:"player"`
	Opponent  string  `json:"opponent"`
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	Draws     int     `json:"draws"`
	Losses    int     `json:"losses"`
	MeanScore float64 `json:"mean_score"`
	StdErr    float64 `json:"std_err"`
	EloLow    float64 `json:"elo_low"`
	Elo       float64 `json:"elo"`
	EloHigh   float64 `json:"elo_high"`
	MeanPlies float64 `json:"mean_plies"`
}

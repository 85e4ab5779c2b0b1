package checkersdto

// PieceInfo describes one piece for an external move oracle.
type PieceInfo struct {
	Index      int      `json:"index"`
	Color      string   `json:"color"`
	Row        int      `json:"row"`
	Col        int      `json:"col"`
	King       bool     `json:"king"`
	ValidMoves [][2]int `json:"valid_moves"`
}

// Snapshot is the board as seen by an oracle. Index values restart at zero
// for each color; Candidate.PieceIndex refers to the Turn color's list.
type Snapshot struct {
	Turn   string      `json:"turn"`
	Red    []PieceInfo `json:"red"`
	Black  []PieceInfo `json:"black"`
	Layout []string    `json:"layout"`
}

// Candidate is an oracle's answer: which of the mover's pieces to move and
// where to.
type Candidate struct {
	PieceIndex int `json:"piece"`
	DestRow    int `json:"row"`
	DestCol    int `json:"col"`
}

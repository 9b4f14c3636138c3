package game

// MoveResult reports the outcome of one move.
type MoveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Accuracy is only meaningful when Scored is true.
	Accuracy float64 `json:"accuracy,omitempty"`
	Scored   bool    `json:"scored"`

	Step         int `json:"step,omitempty"`
	PlayerIsland int `json:"player,omitempty"`
	ExpertIsland int `json:"expert,omitempty"`
}

// Snapshot is a deep copy of a session's state, safe to hand to callers.
type Snapshot struct {
	GameSize    int       `json:"gameSize"`
	N           int       `json:"n"`
	M           int       `json:"m"`
	T           []float64 `json:"t"`
	T2          []float64 `json:"t2"`
	Remaining   []int     `json:"remaining"`
	RExpert     []float64 `json:"rExpert"`
	RPlayer     []float64 `json:"rPlayer"`
	Step        int       `json:"step"`
	ExpertMoves []int     `json:"expertMoves"`
	PlayerMoves []int     `json:"playerMoves"`
}

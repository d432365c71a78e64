// Package trace provides the append-only diagnostic sinks the reward engine
// writes through. Sinks are best-effort by contract: the engine calls Write
// and discards the error, so a full disk degrades to a missing trace, never
// a broken reward signal.
package trace

// Sink accepts one JSON-serializable record per call.
type Sink interface {
	Write(v any) error
}

// Nop discards every record. Useful default when tracing is disabled.
type Nop struct{}

func (Nop) Write(any) error { return nil }

// RewardEntry is one line of the reward trace stream.
type RewardEntry struct {
	TS    float64 `json:"ts"`
	Total float64 `json:"total"`
	Hash  string  `json:"hash"`

	Exploration float64 `json:"exploration"`
	Battle      float64 `json:"battle"`
	Progression float64 `json:"progression"`
	Penalties   float64 `json:"penalties"`
	Lava        float64 `json:"lava"`

	MapGroup  *int `json:"map_group,omitempty"`
	MapNumber *int `json:"map_number,omitempty"`
	Map       int  `json:"map"`
	X         int  `json:"x"`
	Y         int  `json:"y"`
}

// WalkEntry is one line of the per-step walk audit stream.
type WalkEntry struct {
	Step         uint64  `json:"step"`
	RewardTotal  float64 `json:"reward_total"`
	NewTile      bool    `json:"new_tile_awarded"`
	NewTileValue float64 `json:"new_tile_value"`
	Reason       string  `json:"reason"`

	MapGroup  *int `json:"map_group,omitempty"`
	MapNumber *int `json:"map_number,omitempty"`
	Map       int  `json:"map"`
	X         int  `json:"x"`
	Y         int  `json:"y"`
}

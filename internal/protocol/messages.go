package protocol

import "crystalrl.ai/internal/snapshot"

// HELLO (trainer -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	TrainerName     string `json:"trainer_name"`
}

// WELCOME (server -> trainer)
type WelcomeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	SessionID       string   `json:"session_id"`
	WeightsDigest   string   `json:"weights_digest,omitempty"`
	Categories      []string `json:"categories"`
}

// STEP (trainer -> server): one snapshot pair to score.
type StepMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Step            uint64 `json:"step"`

	// EpisodeLevel is the curriculum level; omitted means unknown.
	EpisodeLevel *int `json:"episode_level,omitempty"`
	Action       int  `json:"action,omitempty"`

	Prev snapshot.Snapshot `json:"prev"`
	Curr snapshot.Snapshot `json:"curr"`
}

// REWARD (server -> trainer)
type RewardMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Step            uint64  `json:"step"`
	Total           float64 `json:"total"`

	Breakdown BreakdownMsg `json:"breakdown"`
}

// BreakdownMsg always carries all five categories, zeros included.
type BreakdownMsg struct {
	Exploration float64 `json:"exploration"`
	Battle      float64 `json:"battle"`
	Progression float64 `json:"progression"`
	Penalties   float64 `json:"penalties"`
	Lava        float64 `json:"lava"`
}

// RESET (trainer -> server): episode boundary.
type ResetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// RESET_OK (server -> trainer)
type ResetOKMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Episode         int    `json:"episode"`
}

// ERROR (server -> trainer)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

// Categories lists the breakdown keys in wire order.
func Categories() []string {
	return []string{"exploration", "battle", "progression", "penalties", "lava"}
}

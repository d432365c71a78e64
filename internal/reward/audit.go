package reward

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"crystalrl.ai/internal/persistence/trace"
	"crystalrl.ai/internal/snapshot"
)

// auditReward appends one reward-trace record. Best-effort: sink failures
// are swallowed, a lost trace line must never reach the reward path.
func (e *Engine) auditReward(curr *snapshot.Snapshot, total float64, b Breakdown) {
	entry := trace.RewardEntry{
		TS:          float64(e.now().UnixNano()) / float64(time.Second),
		Total:       total,
		Hash:        breakdownHash(b),
		Exploration: b.Exploration,
		Battle:      b.Battle,
		Progression: b.Progression,
		Penalties:   b.Penalties,
		Lava:        b.Lava,
		MapGroup:    curr.MapGroup,
		MapNumber:   curr.MapNumber,
		Map:         curr.Map,
		X:           curr.X,
		Y:           curr.Y,
	}
	_ = e.rewardLog.Write(entry)
}

// auditWalk appends one walk-audit record, including the rejection reason
// for steps that did not score.
func (e *Engine) auditWalk(curr *snapshot.Snapshot, total float64, newTile bool, newTileValue float64, reason string) {
	entry := trace.WalkEntry{
		Step:         e.stepIndex,
		RewardTotal:  total,
		NewTile:      newTile,
		NewTileValue: newTileValue,
		Reason:       reason,
	}
	if curr != nil {
		entry.MapGroup = curr.MapGroup
		entry.MapNumber = curr.MapNumber
		entry.Map = curr.Map
		entry.X = curr.X
		entry.Y = curr.Y
	}
	_ = e.walkLog.Write(entry)
}

// breakdownHash is a short content hash of the decomposition, handy for
// spotting duplicate or dropped trace lines.
func breakdownHash(b Breakdown) string {
	raw, err := json.Marshal(b)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:10]
}

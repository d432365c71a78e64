package reward

import "crystalrl.ai/internal/snapshot"

// Streak lengths at which the stuck penalty escalates. Each fires exactly
// once per streak.
const (
	stuckStreak100  = 100
	stuckStreak500  = 500
	stuckStreak1000 = 1000
)

// scoreStuck escalates a penalty the longer the position key stays
// unchanged. Any movement resets the streak and rebinds the tracked
// position.
func (e *Engine) scoreStuck(b *Breakdown, cfg PenaltyWeights, curPos snapshot.PosKey, noise float64, penaltiesOn bool) {
	if !e.stuckBound || curPos != e.stuckPos {
		e.stuckPos = curPos
		e.stuckBound = true
		e.stuckStreak = 0
		return
	}

	e.stuckStreak++
	var p float64
	switch e.stuckStreak {
	case stuckStreak100:
		p = cfg.Stuck100
	case stuckStreak500:
		p = cfg.Stuck500
	case stuckStreak1000:
		p = cfg.Stuck1000
	}
	if penaltiesOn && p > 0 {
		b.Penalties -= p * noise
	}
}

package reward

import (
	"math"
	"time"

	"crystalrl.ai/internal/snapshot"
)

// scoreLava runs the idle/"lava" controller. After TriggerSeconds without
// a positive-total step the mode activates; while active, each revisit of
// a position charges base * multiplier^(n-1) for the n-th revisit, scaled
// by the curriculum noise factor. Without this an agent that has found no
// reward gradient has no pressure to keep moving.
//
// Deactivation happens in CalculateReward when the step total goes
// positive; the visit counters are dropped there too.
func (e *Engine) scoreLava(b *Breakdown, cfg LavaModeWeights, curPos snapshot.PosKey, noise float64, penaltiesOn bool) {
	if !e.cfg.LavaEnabled {
		return
	}

	if !e.lavaActive {
		trigger := time.Duration(cfg.TriggerSeconds * float64(time.Second))
		if trigger > 0 && e.now().Sub(e.lastPositive) >= trigger {
			e.lavaActive = true
			if e.logger != nil {
				e.logger.Printf("lava: activated after %.0fs without positive reward", cfg.TriggerSeconds)
			}
		}
	}
	if !e.lavaActive {
		return
	}

	e.lavaVisits[curPos]++
	revisits := e.lavaVisits[curPos] - 1
	if revisits < 1 || !penaltiesOn {
		return
	}
	penalty := cfg.BaseRevisitPenalty * math.Pow(cfg.PenaltyMultiplier, float64(revisits-1))
	b.Lava -= penalty * noise
}

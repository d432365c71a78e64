package reward

import "crystalrl.ai/internal/snapshot"

// Heat multiplier bounds for in-battle healing: healing from near-death is
// worth up to maxHeat times healing from near-full. Triage over topping
// off.
const (
	maxHeat      = 5.0
	heatSlope    = 4.0
	healPerRatio = 100.0
)

// scoreBattle handles everything scoped to a battle session: move
// selection, damage and knockouts, hot/cold healing, and status cures.
// All tracking resets when in_battle transitions back to false.
func (e *Engine) scoreBattle(b *Breakdown, cfg BattleWeights, prev, curr *snapshot.Snapshot) {
	if curr.InBattle <= 0 {
		if e.prevInBattle > 0 {
			e.prevEnemyHP = 0
			e.prevPlayerMove = 0
			e.battleLowestHP = map[int]float64{}
			e.battleStatusTurns = map[int]int{}
		}
		e.prevInBattle = curr.InBattle
		return
	}

	// Move selection fires once per distinct nonzero move change.
	if curr.PlayerMove != e.prevPlayerMove && curr.PlayerMove > 0 {
		b.Battle += cfg.MoveSelection
	}

	// Damage proportional to enemy HP decrease, flat bonus on knockout.
	if e.prevEnemyHP > 0 && curr.EnemyHP < e.prevEnemyHP {
		damage := e.prevEnemyHP - curr.EnemyHP
		b.Battle += float64(damage) * cfg.DamageDealtPerHP
		if curr.EnemyHP == 0 {
			b.Battle += cfg.KnockoutBonus
		}
	}

	e.prevEnemyHP = curr.EnemyHP
	e.prevPlayerMove = curr.PlayerMove
	e.prevInBattle = curr.InBattle

	n := curr.PartyCount
	if n > snapshot.PartySize {
		n = snapshot.PartySize
	}
	for slot := 0; slot < n; slot++ {
		cm := curr.Slot(slot)
		pm := prev.Slot(slot)
		if cm == nil || pm == nil {
			continue
		}

		maxHP := cm.MaxHP
		if maxHP < 1 {
			maxHP = 1
		}
		currRatio := float64(cm.HP) / float64(maxHP)
		prevRatio := float64(pm.HP) / float64(maxHP)

		// Track the lowest ratio seen since the last heal.
		lowest, seen := e.battleLowestHP[slot]
		if !seen || currRatio < lowest {
			lowest = currRatio
			e.battleLowestHP[slot] = lowest
		}

		// Pay healing by how hot it got, then re-arm from the new ratio.
		if currRatio > prevRatio {
			heat := maxHeat - heatSlope*lowest
			if heat < 1.0 {
				heat = 1.0
			}
			b.Battle += (currRatio - prevRatio) * healPerRatio * heat
			e.battleLowestHP[slot] = currRatio
		}

		// Status endurance: count afflicted steps, pay on the cure.
		if pm.Status > 0 {
			e.battleStatusTurns[slot]++
			if cm.Status == 0 {
				turns := e.battleStatusTurns[slot]
				b.Battle += cfg.StatusCureBase + cfg.StatusCurePerTurn*float64(turns)
				delete(e.battleStatusTurns, slot)
			}
		} else if cm.Status > 0 {
			// Just afflicted; the counter starts on the next step.
			e.battleStatusTurns[slot] = 0
		}
	}
}

package reward

import "crystalrl.ai/internal/snapshot"

// Level tiers: early levels pay more to frontload the progress signal.
const (
	earlyLevelCap = 20
	midLevelCap   = 40
)

// HP ratio tiers for the out-of-battle heal bonus.
const (
	nearDeathRatio = 0.2
	mediumRatio    = 0.5
)

// scoreParty walks the occupied slots for level-ups, out-of-battle heals,
// and faints. In-battle healing is paid by the battle tracker instead, so
// one heal never pays twice.
func (e *Engine) scoreParty(b *Breakdown, w Weights, prev, curr *snapshot.Snapshot, noise float64, penaltiesOn bool) {
	n := curr.PartyCount
	if n > snapshot.PartySize {
		n = snapshot.PartySize
	}
	for i := 0; i < n; i++ {
		cm := curr.Slot(i)
		pm := prev.Slot(i)
		if cm == nil || pm == nil {
			continue
		}

		if cm.Level > pm.Level {
			var lv float64
			switch {
			case cm.Level <= earlyLevelCap:
				lv = w.Leveling.LevelUpEarly
			case cm.Level <= midLevelCap:
				lv = w.Leveling.LevelUpMid
			default:
				lv = w.Leveling.LevelUpLate
			}
			if cm.Species == e.cfg.FavoriteSpecies {
				lv += w.Leveling.FavoriteBonus
			}
			b.Progression += lv
			if cm.Level > e.maxPartyLevels[i] {
				e.maxPartyLevels[i] = cm.Level
			}
		}

		maxHP := pm.MaxHP
		if maxHP < 1 {
			maxHP = 1
		}
		prevRatio := float64(pm.HP) / float64(maxHP)
		if curr.InBattle <= 0 && cm.HP > pm.HP {
			switch {
			case prevRatio < nearDeathRatio:
				b.Progression += w.Healing.NearDeathSave
			case prevRatio < mediumRatio:
				b.Progression += w.Healing.MediumSave
			default:
				b.Progression += w.Healing.NormalHeal
			}
		}

		if penaltiesOn && pm.HP > 0 && cm.HP == 0 {
			b.Penalties -= w.Penalties.PokemonFainted * noise
		}
	}
}

// scoreMilestones pays pokedex and badge increases against the monotonic
// baselines. The very first pokedex increase from a zero baseline is the
// starter being loaded and is not a catch.
func (e *Engine) scoreMilestones(b *Breakdown, cfg ProgressionWeights, curr *snapshot.Snapshot) {
	if curr.PokedexOwned > e.maxPokedex {
		caught := curr.PokedexOwned - e.maxPokedex
		if e.maxPokedex > 0 {
			b.Progression += cfg.PokedexCatch * float64(caught)
		}
		e.maxPokedex = curr.PokedexOwned
	}

	if curr.Badges > e.maxBadges {
		earned := curr.Badges - e.maxBadges
		b.Progression += cfg.Badge * float64(earned)
		e.maxBadges = curr.Badges
	}
}

// scoreEconomy pays a small multiplier on money earned and penalizes going
// broke from a positive balance.
func (e *Engine) scoreEconomy(b *Breakdown, cfg EconomyWeights, prev, curr *snapshot.Snapshot, noise float64, penaltiesOn bool) {
	if curr.Money > prev.Money {
		b.Progression += float64(curr.Money-prev.Money) * cfg.MoneyEarnedMultiplier
	}
	if curr.Money > e.maxMoney {
		e.maxMoney = curr.Money
	}
	if penaltiesOn && curr.Money == 0 && prev.Money > 0 {
		b.Penalties -= cfg.BrokePenalty * noise
	}
}

// Start-menu entries that burn time without advancing the game.
const (
	menuCharacter = 3
	menuSave      = 4
	menuOption    = 5
	menuExit      = 6
)

// scoreMenu penalizes sitting on disallowed start-menu entries while a
// dialogue overlay is open. Pressing B closes the menu faster than Exit,
// so Exit is penalized like Save/Option.
func (e *Engine) scoreMenu(b *Breakdown, cfg PenaltyWeights, curr *snapshot.Snapshot, noise float64, penaltiesOn bool) {
	if !penaltiesOn || curr.TextBoxID <= 0 {
		return
	}
	var p float64
	switch curr.MenuItem {
	case menuSave:
		p = cfg.SaveMenu
	case menuOption:
		p = cfg.OptionMenu
	case menuExit:
		p = cfg.ExitMenu
	case menuCharacter:
		p = cfg.CharacterMenu
	default:
		return
	}
	if p > 0 {
		b.Penalties -= p * noise
	}
}

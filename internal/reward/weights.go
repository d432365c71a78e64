package reward

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights is the live-tunable reward table. Every producer reads its
// section from here each step, so an edit to weights.yaml lands on the
// next call after the reload poll notices the new mtime.
type Weights struct {
	Exploration ExplorationWeights `yaml:"exploration"`
	Battle      BattleWeights      `yaml:"battle"`
	Leveling    LevelingWeights    `yaml:"leveling"`
	Healing     HealingWeights     `yaml:"healing"`
	Progression ProgressionWeights `yaml:"progression"`
	Economy     EconomyWeights     `yaml:"economy"`
	Penalties   PenaltyWeights     `yaml:"penalties"`
	LavaMode    LavaModeWeights    `yaml:"lava_mode"`
	Noise       NoiseWeights       `yaml:"noise_curriculum"`
	HMDetection HMDetectionWeights `yaml:"hm_detection"`
}

type ExplorationWeights struct {
	NewTile                 float64 `yaml:"new_tile"`
	NewTileDistanceBonusMax float64 `yaml:"new_tile_distance_bonus_max"`
	NewBuilding             float64 `yaml:"new_building"`
}

type BattleWeights struct {
	MoveSelection     float64 `yaml:"move_selection"`
	DamageDealtPerHP  float64 `yaml:"damage_dealt_per_hp"`
	KnockoutBonus     float64 `yaml:"damage_dealt_knockout_bonus"`
	StatusCureBase    float64 `yaml:"status_cure_base"`
	StatusCurePerTurn float64 `yaml:"status_cure_per_turn"`
}

type LevelingWeights struct {
	LevelUpEarly  float64 `yaml:"level_up_early"`
	LevelUpMid    float64 `yaml:"level_up_mid"`
	LevelUpLate   float64 `yaml:"level_up_late"`
	FavoriteBonus float64 `yaml:"favorite_bonus"`
}

type HealingWeights struct {
	NearDeathSave float64 `yaml:"near_death_save"`
	MediumSave    float64 `yaml:"medium_save"`
	NormalHeal    float64 `yaml:"normal_heal"`
}

type ProgressionWeights struct {
	Badge        float64 `yaml:"badge"`
	PokedexCatch float64 `yaml:"pokedex_catch"`
}

type EconomyWeights struct {
	MoneyEarnedMultiplier float64 `yaml:"money_earned_multiplier"`
	BrokePenalty          float64 `yaml:"broke_penalty"`
}

type PenaltyWeights struct {
	PokemonFainted float64 `yaml:"pokemon_fainted"`
	SaveMenu       float64 `yaml:"save_menu"`
	OptionMenu     float64 `yaml:"option_menu"`
	ExitMenu       float64 `yaml:"exit_menu"`
	CharacterMenu  float64 `yaml:"character_menu"`
	Stuck100       float64 `yaml:"stuck_100_frames"`
	Stuck500       float64 `yaml:"stuck_500_frames"`
	Stuck1000      float64 `yaml:"stuck_1000_frames"`
}

type LavaModeWeights struct {
	TriggerSeconds     float64 `yaml:"trigger_seconds"`
	BaseRevisitPenalty float64 `yaml:"base_revisit_penalty"`
	PenaltyMultiplier  float64 `yaml:"penalty_multiplier"`
}

type NoiseWeights struct {
	Enabled        bool    `yaml:"enabled"`
	FullNoiseLevel int     `yaml:"full_noise_level"`
	MinScale       float64 `yaml:"min_scale"`
}

type HMDetectionWeights struct {
	NearCutTree         float64 `yaml:"near_cut_tree"`
	NearStrengthBoulder float64 `yaml:"near_strength_boulder"`
}

// DefaultWeights returns the built-in table. Loading unmarshals the file
// over this value, so any key a document omits keeps its default.
func DefaultWeights() Weights {
	return Weights{
		Exploration: ExplorationWeights{
			NewTile:                 3.5,
			NewTileDistanceBonusMax: 0.5,
			NewBuilding:             10.0,
		},
		Battle: BattleWeights{
			MoveSelection:     5.0,
			DamageDealtPerHP:  0.5,
			KnockoutBonus:     25.0,
			StatusCureBase:    10.0,
			StatusCurePerTurn: 5.0,
		},
		Leveling: LevelingWeights{
			LevelUpEarly:  1500.0,
			LevelUpMid:    1000.0,
			LevelUpLate:   750.0,
			FavoriteBonus: 50.0,
		},
		Healing: HealingWeights{
			NearDeathSave: 50.0,
			MediumSave:    30.0,
			NormalHeal:    10.0,
		},
		Progression: ProgressionWeights{
			Badge:        50000.0,
			PokedexCatch: 15000.0,
		},
		Economy: EconomyWeights{
			MoneyEarnedMultiplier: 0.1,
			BrokePenalty:          20.0,
		},
		Penalties: PenaltyWeights{
			PokemonFainted: 50.0,
			SaveMenu:       100.0,
			OptionMenu:     100.0,
			ExitMenu:       100.0,
			CharacterMenu:  5.0,
			Stuck100:       10.0,
			Stuck500:       50.0,
			Stuck1000:      200.0,
		},
		LavaMode: LavaModeWeights{
			TriggerSeconds:     30,
			BaseRevisitPenalty: 1.0,
			PenaltyMultiplier:  1.5,
		},
		Noise: NoiseWeights{
			Enabled:        true,
			FullNoiseLevel: 6,
			MinScale:       0.2,
		},
		HMDetection: HMDetectionWeights{
			NearCutTree:         10.0,
			NearStrengthBoulder: 10.0,
		},
	}
}

// LoadWeights reads a weights document, filling omitted keys from the
// defaults. The raw digest lets sessions detect weight drift.
func LoadWeights(path string) (Weights, string, error) {
	w := DefaultWeights()
	raw, err := os.ReadFile(path)
	if err != nil {
		return w, "", err
	}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return DefaultWeights(), "", err
	}
	return w, sha256Hex(raw), nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

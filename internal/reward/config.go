package reward

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the engine parameters that are not reward weights:
// curriculum gates, the favorite species, and which idle curriculum runs.
type Config struct {
	// FavoriteSpecies gets an extra level-up bonus.
	FavoriteSpecies int `yaml:"favorite_species"`

	// PenaltyEnableLevel suppresses menu/faint/broke/stuck/idle penalties
	// below this episode level. An unknown level enables penalties.
	PenaltyEnableLevel int `yaml:"penalty_enable_level"`

	// GravityEnabled switches the discovery-potential curriculum on. The
	// lava controller is the canonical idle mechanism; when gravity is on
	// its repeat penalty takes over and the lava controller stays out.
	GravityEnabled bool `yaml:"gravity_enabled"`

	// LavaEnabled switches the idle/"lava" revisit controller. Forced off
	// whenever gravity is on: exactly one idle curriculum charges revisits.
	LavaEnabled bool `yaml:"lava_enabled"`
}

func (c *Config) applyDefaults() {
	if c.FavoriteSpecies == 0 {
		c.FavoriteSpecies = 25
	}
	if c.PenaltyEnableLevel <= 0 {
		c.PenaltyEnableLevel = 10
	}
	if c.GravityEnabled {
		c.LavaEnabled = false
	}
}

// DefaultConfig returns the engine defaults: lava on, gravity off.
func DefaultConfig() Config {
	c := Config{LavaEnabled: true}
	c.applyDefaults()
	return c
}

// LoadConfig reads engine.yaml, filling omitted keys with defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return DefaultConfig(), err
	}
	c.applyDefaults()
	return c, nil
}

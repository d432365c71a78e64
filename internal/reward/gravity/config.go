package gravity

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config tunes the discovery-potential field. Same hot-reload contract as
// the reward weights: mtime-gated, all-or-nothing, prior table retained on
// a malformed document.
type Config struct {
	Enabled bool `yaml:"enabled"`

	NewTileReward float64 `yaml:"new_tile_reward"`
	RepeatPenalty float64 `yaml:"repeat_penalty"`

	DoorMinReward   float64 `yaml:"door_min_reward"`
	DoorMaxReward   float64 `yaml:"door_max_reward"`
	DoorDistanceMax float64 `yaml:"door_distance_max"`

	POIMinReward   float64 `yaml:"poi_min_reward"`
	POIMaxReward   float64 `yaml:"poi_max_reward"`
	POIDistanceMax float64 `yaml:"poi_distance_max"`

	EntryNegativeSteps int     `yaml:"entry_negative_steps"`
	EntryNegativeScale float64 `yaml:"entry_negative_scale"`

	POICooldownSeconds float64 `yaml:"poi_cooldown_seconds"`
	DeltaScale         float64 `yaml:"gravity_delta_scale"`
	LavaTriggerSeconds float64 `yaml:"lava_trigger_seconds"`
}

// DefaultConfig returns the built-in field parameters.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		NewTileReward:      1.0,
		RepeatPenalty:      0.5,
		DoorMinReward:      1.0,
		DoorMaxReward:      40.0,
		DoorDistanceMax:    30.0,
		POIMinReward:       1.0,
		POIMaxReward:       10.0,
		POIDistanceMax:     15.0,
		EntryNegativeSteps: 200,
		EntryNegativeScale: 1.0,
		POICooldownSeconds: 300.0,
		DeltaScale:         1.0,
		LavaTriggerSeconds: 10.0,
	}
}

// LoadConfig reads a field document, filling omitted keys from defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return DefaultConfig(), err
	}
	return c, nil
}

// configStore is the field's private hot-reload poller.
type configStore struct {
	path   string
	logger *log.Logger
	cfg    Config
	mtime  time.Time
}

func newConfigStore(path string, logger *log.Logger) *configStore {
	s := &configStore{path: path, logger: logger, cfg: DefaultConfig()}
	if path == "" {
		return s
	}
	c, err := LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Printf("gravity: load %s: %v (using defaults)", path, err)
		}
		return s
	}
	s.cfg = c
	if fi, err := os.Stat(path); err == nil {
		s.mtime = fi.ModTime()
	}
	return s
}

func (s *configStore) reloadIfStale() {
	if s.path == "" {
		return
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		return
	}
	if !fi.ModTime().After(s.mtime) {
		return
	}
	c, err := LoadConfig(s.path)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("gravity: reload %s: %v (keeping previous)", s.path, err)
		}
		s.mtime = fi.ModTime()
		return
	}
	s.cfg = c
	s.mtime = fi.ModTime()
}

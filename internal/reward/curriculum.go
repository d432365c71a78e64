package reward

// noiseScale maps the episode level to a penalty damping factor in
// [MinScale, 1.0]. Early-curriculum agents take random actions; crushing
// them with full-size penalties teaches nothing, so penalties ramp in as
// the level approaches FullNoiseLevel. An unknown level means no damping.
func noiseScale(cfg NoiseWeights, episodeLevel int) float64 {
	if !cfg.Enabled || episodeLevel < 0 {
		return 1.0
	}
	full := cfg.FullNoiseLevel
	if full < 1 {
		full = 1
	}
	s := float64(episodeLevel) / float64(full)
	if s > 1.0 {
		s = 1.0
	}
	if s < cfg.MinScale {
		s = cfg.MinScale
	}
	return s
}

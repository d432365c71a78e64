package reward

import "testing"

func TestNoiseScale(t *testing.T) {
	cfg := NoiseWeights{Enabled: true, FullNoiseLevel: 6, MinScale: 0.2}

	cases := []struct {
		name  string
		level int
		want  float64
	}{
		{"unknown", LevelUnknown, 1.0},
		{"zero_clamps_to_min", 0, 0.2},
		{"one_clamps_to_min", 1, 0.2},
		{"half", 3, 0.5},
		{"full", 6, 1.0},
		{"beyond_full", 9, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			approx(t, noiseScale(cfg, tc.level), tc.want)
		})
	}
}

func TestNoiseScaleDisabled(t *testing.T) {
	cfg := NoiseWeights{Enabled: false, FullNoiseLevel: 6, MinScale: 0.2}
	approx(t, noiseScale(cfg, 1), 1.0)
}

func TestNoiseScaleZeroFullLevel(t *testing.T) {
	cfg := NoiseWeights{Enabled: true, FullNoiseLevel: 0, MinScale: 0.2}
	approx(t, noiseScale(cfg, 1), 1.0)
}

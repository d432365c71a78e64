package reward

// Breakdown is the per-category reward decomposition for one step. All
// five categories are always present; untouched ones stay zero.
type Breakdown struct {
	Exploration float64 `json:"exploration"`
	Battle      float64 `json:"battle"`
	Progression float64 `json:"progression"`
	Penalties   float64 `json:"penalties"`
	Lava        float64 `json:"lava"`
}

// Total sums the categories. Penalties and lava are stored signed, so a
// plain sum is the step reward.
func (b Breakdown) Total() float64 {
	return b.Exploration + b.Battle + b.Progression + b.Penalties + b.Lava
}

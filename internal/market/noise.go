package market

import (
	"math/rand"

	"github.com/udislau/ppe-agents/internal/model"
)

// Noise perturbs forecasts before offer construction. The generator is
// injected so runs are reproducible from the seed; the matcher and ledger
// never see randomness.
type Noise struct {
	StdDev float64
	rng    *rand.Rand
}

func NewNoise(stdDev float64, seed int64) *Noise {
	return &Noise{StdDev: stdDev, rng: rand.New(rand.NewSource(seed))}
}

// Apply returns a perturbed copy of the forecasts. Negative results are
// clamped to zero so downstream validation still holds.
func (n *Noise) Apply(forecasts []model.Forecast) []model.Forecast {
	if n == nil || n.StdDev <= 0 {
		return forecasts
	}
	out := make([]model.Forecast, len(forecasts))
	for i, f := range forecasts {
		f.Production = clampNonNegative(f.Production + n.rng.NormFloat64()*n.StdDev)
		f.Consumption = clampNonNegative(f.Consumption + n.rng.NormFloat64()*n.StdDev)
		out[i] = f
	}
	return out
}

func clampNonNegative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

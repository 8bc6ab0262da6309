package qubit

import (
	"math/rand"
)

// sampler draws computational-basis outcomes from a probability vector.
type sampler struct {
	rng *rand.Rand
}

// newSampler creates a sampler. A negative seed draws a random one.
func newSampler(seed int64) *sampler {
	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed)) //nolint:gosec // Intentional deterministic seed for reproducibility
	} else {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // User requested random seed
	}
	return &sampler{rng: rng}
}

// draw returns shots outcomes distributed according to probs.
func (s *sampler) draw(probs []float64, shots int) []int {
	cdf := make([]float64, len(probs))
	var cum float64
	for i, p := range probs {
		cum += p
		cdf[i] = cum
	}

	out := make([]int, shots)
	for i := range out {
		out[i] = s.multinomial(cdf)
	}
	return out
}

// multinomial samples one index from a cumulative distribution.
func (s *sampler) multinomial(cdf []float64) int {
	r := s.rng.Float64() * cdf[len(cdf)-1]

	lo, hi := 0, len(cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r < cdf[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

package sim

import "math/rand"

// AliasSampler draws weighted samples in O(1) via Vose's alias method.
// Used for the per-core task-size distribution (§4.5): two buckets,
// 1µs and 1000µs, weighted 99.9 / 0.1, so the overwhelming majority of
// admitted tasks are short but a rare long tail stresses preemption
// accounting.
type AliasSampler struct {
	values []float64
	prob   []float64
	alias  []int
}

// NewAliasSampler builds an alias table for values weighted by weights.
// len(values) must equal len(weights) and be > 0.
func NewAliasSampler(values []float64, weights []float64) *AliasSampler {
	n := len(weights)
	s := &AliasSampler{
		values: append([]float64(nil), values...),
		prob:   make([]float64, n),
		alias:  make([]int, n),
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}

	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		scaled[i] = w * float64(n) / total
		if scaled[i] < 1.0 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]
		g := large[len(large)-1]
		large = large[:len(large)-1]

		s.prob[l] = scaled[l]
		s.alias[l] = g

		scaled[g] = scaled[g] + scaled[l] - 1.0
		if scaled[g] < 1.0 {
			small = append(small, g)
		} else {
			large = append(large, g)
		}
	}
	for _, g := range large {
		s.prob[g] = 1.0
	}
	for _, l := range small {
		s.prob[l] = 1.0
	}

	return s
}

// Sample draws one value from the weighted distribution using rng.
func (s *AliasSampler) Sample(rng *rand.Rand) float64 {
	n := len(s.values)
	i := rng.Intn(n)
	if rng.Float64() < s.prob[i] {
		return s.values[i]
	}
	return s.values[s.alias[i]]
}

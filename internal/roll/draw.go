package roll

import (
	"errors"
	"math"
)

var (
	ErrInvalidProb    = errors.New("invalid probability; must be a finite value in [0, 1]")
	ErrInvalidWeights = errors.New("invalid weights; need non-negative values with a positive sum")
)

// Draw is a Bernoulli trial with success chance p. 0 never succeeds and 1
// always does, without consuming a value from rng.
func Draw(p float64, rng RandomSource) (bool, error) {
	switch {
	case math.IsNaN(p) || p < 0 || p > 1:
		return false, ErrInvalidProb
	case p == 0:
		return false, nil
	case p == 1:
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// WeightedIndex picks an index with probability weights[i]/sum(weights).
// Zero-weight entries are never picked.
func WeightedIndex(weights []int, rng RandomSource) (int, error) {
	total := 0
	for _, w := range weights {
		if w < 0 {
			return 0, ErrInvalidWeights
		}
		total += w
	}
	if total <= 0 {
		return 0, ErrInvalidWeights
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	target := rng.Float64() * float64(total)
	acc := 0.0
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		acc += float64(w)
		if target < acc {
			return i, nil
		}
		last = i
	}
	// float rounding at the top end
	return last, nil
}

package roll_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/jetsoftime/internal/roll"
)

func TestDrawBounds(t *testing.T) {
	got, err := roll.Draw(0, roll.NewSeededRNG(1))
	if err != nil || got {
		t.Fatalf("p=0 should never hit; got=%v err=%v", got, err)
	}
	got, err = roll.Draw(1, roll.NewSeededRNG(1))
	if err != nil || !got {
		t.Fatalf("p=1 should always hit; got=%v err=%v", got, err)
	}
	for _, p := range []float64{-0.1, 1.1, math.NaN(), math.Inf(1)} {
		if _, err := roll.Draw(p, nil); !errors.Is(err, roll.ErrInvalidProb) {
			t.Fatalf("p=%v: want ErrInvalidProb, got %v", p, err)
		}
	}
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := roll.NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := roll.Draw(p, rng)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	if diff := freq - p; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to p=%f", freq, p)
	}
}

func TestWeightedIndex(t *testing.T) {
	weights := []int{1, 0, 3}
	rng := roll.NewSeededRNG(9)
	counts := make([]int, len(weights))
	const n = 40000
	for i := 0; i < n; i++ {
		idx, err := roll.WeightedIndex(weights, rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[idx]++
	}
	if counts[1] != 0 {
		t.Fatalf("zero weight picked %d times", counts[1])
	}
	if freq := float64(counts[2]) / n; freq < 0.73 || freq > 0.77 {
		t.Fatalf("freq of weight 3/4 = %f", freq)
	}
}

func TestWeightedIndexInvalid(t *testing.T) {
	for _, w := range [][]int{nil, {0, 0}, {2, -1}} {
		if _, err := roll.WeightedIndex(w, nil); !errors.Is(err, roll.ErrInvalidWeights) {
			t.Fatalf("%v: want ErrInvalidWeights, got %v", w, err)
		}
	}
}

func TestSeededRNGReplays(t *testing.T) {
	a := roll.NewSeededRNG(roll.SeedFromString("CronoLucca"))
	b := roll.NewSeededRNG(roll.SeedFromString("CronoLucca"))
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v %v", i, x, y)
		}
	}
	if roll.SeedFromString("CronoLucca") == roll.SeedFromString("LuccaCrono") {
		t.Fatalf("distinct names hashed to the same seed")
	}
}

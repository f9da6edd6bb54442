package mystery

import (
	"math"
	"sort"

	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/settings"
)

// Stats summarizes integer samples.
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Report is the observed outcome of many rolls. Frequencies are fractions of
// trials, keyed by display string or flag name.
type Report struct {
	Trials           int                `json:"trials"`
	GameModes        map[string]float64 `json:"game_modes"`
	ItemDifficulty   map[string]float64 `json:"item_difficulty"`
	EnemyDifficulty  map[string]float64 `json:"enemy_difficulty"`
	TechOrders       map[string]float64 `json:"tech_orders"`
	ShopPrices       map[string]float64 `json:"shop_prices"`
	FlagRates        map[string]float64 `json:"flag_rates"`
	EnabledFlagCount Stats              `json:"enabled_flag_count"`
}

// Preview runs Roll trials times and reports what came out. Forced flags are
// included, so a flag's rate can differ from its configured probability.
func Preview(s settings.Settings, trials int, rng roll.RandomSource) (Report, error) {
	if trials <= 0 {
		return Report{}, nil
	}
	if err := s.Mystery.Validate(); err != nil {
		return Report{}, err
	}
	if rng == nil {
		rng = roll.DefaultRNG()
	}

	counts := struct {
		modes, items, enemies, techs, shops, flags map[string]int
	}{
		make(map[string]int), make(map[string]int), make(map[string]int),
		make(map[string]int), make(map[string]int), make(map[string]int),
	}
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		r, err := Roll(s, rng)
		if err != nil {
			return Report{}, err
		}
		counts.modes[r.GameMode.String()]++
		counts.items[r.ItemDifficulty.String()]++
		counts.enemies[r.EnemyDifficulty.String()]++
		counts.techs[r.TechOrder.String()]++
		counts.shops[r.ShopPrices.String()]++
		names := r.GameFlags.Names()
		for _, n := range names {
			counts.flags[n]++
		}
		samples[i] = len(names)
	}

	return Report{
		Trials:           trials,
		GameModes:        rates(counts.modes, trials),
		ItemDifficulty:   rates(counts.items, trials),
		EnemyDifficulty:  rates(counts.enemies, trials),
		TechOrders:       rates(counts.techs, trials),
		ShopPrices:       rates(counts.shops, trials),
		FlagRates:        rates(counts.flags, trials),
		EnabledFlagCount: calcStats(samples),
	}, nil
}

func rates(counts map[string]int, n int) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for k, c := range counts {
		out[k] = float64(c) / float64(n)
	}
	return out
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// population variance
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		if i+1 >= n {
			return float64(cp[n-1])
		}
		f := pos - float64(i)
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}

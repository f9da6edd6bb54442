// Package mystery turns a mystery configuration into a concrete one by rolling
// every weighted category and flag probability.
package mystery

import (
	"fmt"

	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/settings"
)

// Roll picks mode, difficulties, tech order and shop prices by weight and
// draws each flag in FlagProbs independently. Flags not listed in FlagProbs
// keep their current state. The result has MYSTERY cleared and forced flags
// applied for the rolled mode. A seeded rng makes the roll reproducible.
func Roll(s settings.Settings, rng roll.RandomSource) (settings.Settings, error) {
	m := s.Mystery
	if err := m.Validate(); err != nil {
		return settings.Settings{}, err
	}
	if rng == nil {
		rng = roll.DefaultRNG()
	}

	out := s.Clone()
	var err error
	if out.GameMode, err = pick(settings.AllGameModes(), m.GameModeFreqs, rng); err != nil {
		return settings.Settings{}, fmt.Errorf("roll game mode: %w", err)
	}
	if out.ItemDifficulty, err = pick(settings.AllDifficulties(), m.ItemDifficultyFreqs, rng); err != nil {
		return settings.Settings{}, fmt.Errorf("roll item difficulty: %w", err)
	}
	if out.EnemyDifficulty, err = pick(settings.AllDifficulties(), m.EnemyDifficultyFreqs, rng); err != nil {
		return settings.Settings{}, fmt.Errorf("roll enemy difficulty: %w", err)
	}
	if out.TechOrder, err = pick(settings.AllTechOrders(), m.TechOrderFreqs, rng); err != nil {
		return settings.Settings{}, fmt.Errorf("roll tech order: %w", err)
	}
	if out.ShopPrices, err = pick(settings.AllShopPrices(), m.ShopPriceFreqs, rng); err != nil {
		return settings.Settings{}, fmt.Errorf("roll shop prices: %w", err)
	}

	flags := out.GameFlags.Without(settings.Mystery)
	// enumeration order keeps seeded rolls stable
	for _, f := range settings.AllGameFlags() {
		p, ok := m.FlagProbs[f]
		if !ok || f == settings.Mystery {
			continue
		}
		hit, err := roll.Draw(p, rng)
		if err != nil {
			return settings.Settings{}, fmt.Errorf("roll flag %s: %w", f, err)
		}
		if hit {
			flags = flags.Union(f)
		} else {
			flags = flags.Without(f)
		}
	}
	out.GameFlags = settings.Resolve(out.GameMode, flags)
	return out, nil
}

func pick[K comparable](order []K, freqs map[K]int, rng roll.RandomSource) (K, error) {
	weights := make([]int, len(order))
	for i, k := range order {
		weights[i] = freqs[k]
	}
	i, err := roll.WeightedIndex(weights, rng)
	if err != nil {
		var zero K
		return zero, err
	}
	return order[i], nil
}

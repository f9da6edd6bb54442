// Package settings models a randomizer configuration: option enums, flag sets,
// the rules that force flags on and off, the per-feature sub-settings and the
// checks that must pass before a seed is generated.
package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xtding233/jetsoftime/internal/bossdata"
)

// DefaultCharNames are used for any character name left empty.
var DefaultCharNames = [8]string{
	"Crono", "Marle", "Lucca", "Robo", "Frog", "Ayla", "Magus", "Epoch",
}

// Settings is the full configuration handed to the generator. Treat values
// as immutable once built; use Clone before changing a shared copy.
type Settings struct {
	Seed            string          `yaml:"seed" json:"seed"`
	GameMode        GameMode        `yaml:"mode" json:"mode"`
	ItemDifficulty  Difficulty      `yaml:"item_difficulty" json:"item_difficulty"`
	EnemyDifficulty Difficulty      `yaml:"enemy_difficulty" json:"enemy_difficulty"`
	TechOrder       TechOrder       `yaml:"tech_order" json:"tech_order"`
	ShopPrices      ShopPrices      `yaml:"shops" json:"shops"`
	GameFlags       GameFlags       `yaml:"flags" json:"flags"`
	CosmeticFlags   CosmeticFlags   `yaml:"cosmetic_flags" json:"cosmetic_flags"`
	Tab             TabSettings     `yaml:"tab_settings" json:"tab_settings"`
	RO              ROSettings      `yaml:"ro_settings" json:"ro_settings"`
	Bucket          BucketSettings  `yaml:"bucket_settings" json:"bucket_settings"`
	DC              DCSettings      `yaml:"dc_settings" json:"dc_settings"`
	Mystery         MysterySettings `yaml:"mystery_settings" json:"mystery_settings"`
	CharNames       [8]string       `yaml:"char_names" json:"char_names"`
}

// Default returns the hard-coded starting configuration.
func Default() Settings {
	return Settings{
		GameMode:        ModeStandard,
		ItemDifficulty:  DifficultyNormal,
		EnemyDifficulty: DifficultyNormal,
		TechOrder:       TechFullRandom,
		ShopPrices:      ShopNormal,
		Tab:             DefaultTabSettings(),
		RO:              DefaultROSettings(),
		Bucket:          DefaultBucketSettings(),
		DC:              DefaultDCSettings(),
		Mystery:         DefaultMysterySettings(),
		CharNames:       DefaultCharNames,
	}
}

// Clone deep-copies s so the copy shares no slices or maps with s.
func (s Settings) Clone() Settings {
	out := s
	out.RO.Locations = append([]bossdata.LocID(nil), s.RO.Locations...)
	out.RO.Bosses = append([]bossdata.BossID(nil), s.RO.Bosses...)
	for i := range s.DC.CharChoices {
		out.DC.CharChoices[i] = append([]int(nil), s.DC.CharChoices[i]...)
	}
	out.Mystery = s.Mystery.clone()
	return out
}

// CharName returns the name for character slot i, falling back to the default.
func (s Settings) CharName(i int) string {
	if i < 0 || i >= len(s.CharNames) {
		return ""
	}
	if n := strings.TrimSpace(s.CharNames[i]); n != "" {
		return n
	}
	return DefaultCharNames[i]
}

// Presets

func RacePreset() Settings {
	s := Default()
	s.ItemDifficulty = DifficultyNormal
	s.EnemyDifficulty = DifficultyNormal
	s.ShopPrices = ShopNormal
	s.TechOrder = TechFullRandom
	s.GameFlags = FixGlitch | FastPendant | ZealEnd
	return s
}

func NewPlayerPreset() Settings {
	s := Default()
	s.ItemDifficulty = DifficultyEasy
	s.EnemyDifficulty = DifficultyNormal
	s.ShopPrices = ShopNormal
	s.TechOrder = TechFullRandom
	s.GameFlags = FixGlitch | FastPendant | ZealEnd | UnlockedMagic |
		VisibleHealth | FastTabs
	return s
}

func LostWorldsPreset() Settings {
	s := Default()
	s.GameMode = ModeLostWorlds
	s.ItemDifficulty = DifficultyNormal
	s.EnemyDifficulty = DifficultyNormal
	s.ShopPrices = ShopNormal
	s.TechOrder = TechFullRandom
	s.GameFlags = FixGlitch | ZealEnd
	return s
}

func HardPreset() Settings {
	s := Default()
	s.ItemDifficulty = DifficultyHard
	s.EnemyDifficulty = DifficultyHard
	s.ShopPrices = ShopNormal
	s.TechOrder = TechBalancedRandom
	s.GameFlags = FixGlitch | BossScale | LockedChars
	return s
}

var presets = map[string]func() Settings{
	"race":        RacePreset,
	"new-player":  NewPlayerPreset,
	"lost-worlds": LostWorldsPreset,
	"hard":        HardPreset,
}

// PresetNames lists the preset names accepted by Preset, sorted.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Preset builds a preset by name.
func Preset(name string) (Settings, error) {
	build, ok := presets[name]
	if !ok {
		return Settings{}, fmt.Errorf("%w: preset %q (have %s)", ErrUnknownOption, name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}

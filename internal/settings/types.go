package settings

import (
	"github.com/xtding233/jetsoftime/internal/bossdata"
	"gopkg.in/yaml.v3"
)

// Tab magnitudes are picked from 1..9.
const (
	MinTabMagnitude = 1
	MaxTabMagnitude = 9
)

// TabCategory names one of the three tab kinds.
type TabCategory int

const (
	PowerTab TabCategory = iota
	MagicTab
	SpeedTab
)

func (c TabCategory) String() string {
	switch c {
	case PowerTab:
		return "power"
	case MagicTab:
		return "magic"
	default:
		return "speed"
	}
}

// TabSettings controls how much each tab raises a stat.
type TabSettings struct {
	Scheme       TabRandoScheme `yaml:"scheme" json:"scheme"`
	BinomSuccess float64        `yaml:"binom_success" json:"binom_success"` // only used by Binomial
	PowerMin     int            `yaml:"power_min" json:"power_min"`
	PowerMax     int            `yaml:"power_max" json:"power_max"`
	MagicMin     int            `yaml:"magic_min" json:"magic_min"`
	MagicMax     int            `yaml:"magic_max" json:"magic_max"`
	SpeedMin     int            `yaml:"speed_min" json:"speed_min"`
	SpeedMax     int            `yaml:"speed_max" json:"speed_max"`
}

func DefaultTabSettings() TabSettings {
	return TabSettings{
		Scheme:       TabUniform,
		BinomSuccess: 0.5,
		PowerMin:     2,
		PowerMax:     4,
		MagicMin:     1,
		MagicMax:     3,
		SpeedMin:     1,
		SpeedMax:     1,
	}
}

func (t *TabSettings) bounds(c TabCategory) (*int, *int) {
	switch c {
	case PowerTab:
		return &t.PowerMin, &t.PowerMax
	case MagicTab:
		return &t.MagicMin, &t.MagicMax
	default:
		return &t.SpeedMin, &t.SpeedMax
	}
}

// Range returns the min/max magnitude of a category.
func (t TabSettings) Range(c TabCategory) (int, int) {
	lo, hi := t.bounds(c)
	return *lo, *hi
}

// SetMin sets the minimum and raises the maximum if it would fall below it.
func (t *TabSettings) SetMin(c TabCategory, v int) {
	lo, hi := t.bounds(c)
	*lo = v
	if *hi < v {
		*hi = v
	}
}

// SetMax sets the maximum and lowers the minimum if it would rise above it.
func (t *TabSettings) SetMax(c TabCategory, v int) {
	lo, hi := t.bounds(c)
	*hi = v
	if *lo > v {
		*lo = v
	}
}

// ROSettings selects the boss and location pools for boss randomization.
type ROSettings struct {
	Locations        []bossdata.LocID  `yaml:"locations" json:"locations"`
	Bosses           []bossdata.BossID `yaml:"bosses" json:"bosses"`
	PreserveParts    bool              `yaml:"preserve_parts" json:"preserve_parts"` // legacy placement
	EnableSightscope bool              `yaml:"enable_sightscope" json:"enable_sightscope"`
}

func DefaultROSettings() ROSettings {
	return ROSettings{
		Locations: bossdata.BossLocations(),
		Bosses:    bossdata.DefaultPool(),
	}
}

// Bucket fragment slider ranges.
const (
	MaxNeededFragments = 50
	MaxExtraFragments  = 50
)

// BucketSettings configures the bucket fragment goal.
type BucketSettings struct {
	NumFragments    int `yaml:"num_fragments" json:"num_fragments"`
	NeededFragments int `yaml:"needed_fragments" json:"needed_fragments"`
}

func DefaultBucketSettings() BucketSettings {
	return BucketSettings{NumFragments: 15, NeededFragments: 10}
}

// Extra returns how many fragments exceed the requirement.
func (b BucketSettings) Extra() int { return b.NumFragments - b.NeededFragments }

// NumCharacters is the number of playable characters, and so the number of
// duplicate-character slots and identity choices.
const NumCharacters = 7

// DCSettings restricts which identities each character slot may take when
// duplicate characters is on.
type DCSettings struct {
	CharChoices    [NumCharacters][]int `yaml:"char_choices" json:"char_choices"`
	DuplicateDuals bool                 `yaml:"duplicate_duals" json:"duplicate_duals"`
	FilterToggle   bool                 `yaml:"filter_toggle" json:"filter_toggle"`
	FilterMin      int                  `yaml:"filter_min" json:"filter_min"`
	FilterMax      int                  `yaml:"filter_max" json:"filter_max"`
}

func DefaultDCSettings() DCSettings {
	var dc DCSettings
	for i := range dc.CharChoices {
		dc.CharChoices[i] = []int{0, 1, 2, 3, 4, 5, 6}
	}
	dc.FilterMin = 1
	dc.FilterMax = NumCharacters
	return dc
}

// FlagProbs maps a flag to the chance mystery enables it.
type FlagProbs map[GameFlags]float64

func (p FlagProbs) MarshalYAML() (interface{}, error) {
	out := make(map[string]float64, len(p))
	for f, v := range p {
		name, err := f.MarshalText()
		if err != nil {
			return nil, err
		}
		out[string(name)] = v
	}
	return out, nil
}

func (p *FlagProbs) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]float64
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out := make(FlagProbs, len(raw))
	for name, v := range raw {
		f, err := ParseGameFlag(name)
		if err != nil {
			return err
		}
		out[f] = v
	}
	*p = out
	return nil
}

// MysterySettings holds the relative frequencies used to roll a concrete
// configuration when the mystery flag is set.
type MysterySettings struct {
	GameModeFreqs        map[GameMode]int   `yaml:"game_mode_freqs" json:"game_mode_freqs"`
	ItemDifficultyFreqs  map[Difficulty]int `yaml:"item_difficulty_freqs" json:"item_difficulty_freqs"`
	EnemyDifficultyFreqs map[Difficulty]int `yaml:"enemy_difficulty_freqs" json:"enemy_difficulty_freqs"`
	TechOrderFreqs       map[TechOrder]int  `yaml:"tech_order_freqs" json:"tech_order_freqs"`
	ShopPriceFreqs       map[ShopPrices]int `yaml:"shop_price_freqs" json:"shop_price_freqs"`
	FlagProbs            FlagProbs          `yaml:"flag_probs" json:"flag_probs"`
}

func DefaultMysterySettings() MysterySettings {
	return MysterySettings{
		GameModeFreqs: map[GameMode]int{
			ModeStandard:      75,
			ModeLostWorlds:    25,
			ModeLegacyOfCyrus: 0,
			ModeIceAge:        0,
			ModeVanillaRando:  0,
		},
		ItemDifficultyFreqs: map[Difficulty]int{
			DifficultyEasy:   15,
			DifficultyNormal: 70,
			DifficultyHard:   15,
		},
		EnemyDifficultyFreqs: map[Difficulty]int{
			DifficultyNormal: 75,
			DifficultyHard:   25,
		},
		TechOrderFreqs: map[TechOrder]int{
			TechNormal:         10,
			TechBalancedRandom: 10,
			TechFullRandom:     80,
		},
		ShopPriceFreqs: map[ShopPrices]int{
			ShopNormal:       70,
			ShopMostlyRandom: 10,
			ShopFullyRandom:  10,
			ShopFree:         10,
		},
		FlagProbs: FlagProbs{
			TabTreasures:     0.10,
			UnlockedMagic:    0.5,
			BucketFragments:  0.15,
			Chronosanity:     0.50,
			BossRando:        0.50,
			BossScale:        0.10,
			LockedChars:      0.25,
			DuplicateChars:   0.25,
			EpochFail:        0.5,
			GearRando:        0.25,
			HealingItemRando: 0.25,
		},
	}
}

func (m MysterySettings) clone() MysterySettings {
	out := MysterySettings{
		GameModeFreqs:        make(map[GameMode]int, len(m.GameModeFreqs)),
		ItemDifficultyFreqs:  make(map[Difficulty]int, len(m.ItemDifficultyFreqs)),
		EnemyDifficultyFreqs: make(map[Difficulty]int, len(m.EnemyDifficultyFreqs)),
		TechOrderFreqs:       make(map[TechOrder]int, len(m.TechOrderFreqs)),
		ShopPriceFreqs:       make(map[ShopPrices]int, len(m.ShopPriceFreqs)),
		FlagProbs:            make(FlagProbs, len(m.FlagProbs)),
	}
	for k, v := range m.GameModeFreqs {
		out.GameModeFreqs[k] = v
	}
	for k, v := range m.ItemDifficultyFreqs {
		out.ItemDifficultyFreqs[k] = v
	}
	for k, v := range m.EnemyDifficultyFreqs {
		out.EnemyDifficultyFreqs[k] = v
	}
	for k, v := range m.TechOrderFreqs {
		out.TechOrderFreqs[k] = v
	}
	for k, v := range m.ShopPriceFreqs {
		out.ShopPriceFreqs[k] = v
	}
	for k, v := range m.FlagProbs {
		out.FlagProbs[k] = v
	}
	return out
}

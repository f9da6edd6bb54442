package settings

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"

	"gopkg.in/yaml.v3"
)

// GameFlags is a set of gameplay flags. The zero value is the empty set.
type GameFlags uint64

const (
	FixGlitch GameFlags = 1 << iota
	BossScale
	ZealEnd
	FastPendant
	LockedChars
	UnlockedMagic
	Chronosanity
	TabTreasures
	BossRando
	DuplicateChars
	DuplicateTechs
	VisibleHealth
	FastTabs
	BucketFragments
	BuffXStrike
	Mystery
	AylaRebalance
	BossSightscope
	BlackholeRework
	RoboRework
	HealingItemRando
	FreeMenuGlitch
	GearRando
	FirstTwo
	EpochFail
	MarleRework
	BossSpotHP

	numGameFlags = iota
)

var gameFlagNames = [numGameFlags]string{
	"FIX_GLITCH", "BOSS_SCALE", "ZEAL_END", "FAST_PENDANT", "LOCKED_CHARS",
	"UNLOCKED_MAGIC", "CHRONOSANITY", "TAB_TREASURES", "BOSS_RANDO",
	"DUPLICATE_CHARS", "DUPLICATE_TECHS", "VISIBLE_HEALTH", "FAST_TABS",
	"BUCKET_FRAGMENTS", "BUFF_XSTRIKE", "MYSTERY", "AYLA_REBALANCE",
	"BOSS_SIGHTSCOPE", "BLACKHOLE_REWORK", "ROBO_REWORK", "HEALING_ITEM_RANDO",
	"FREE_MENU_GLITCH", "GEAR_RANDO", "FIRST_TWO", "EPOCH_FAIL",
	"MARLE_REWORK", "BOSS_SPOT_HP",
}

// AllGameFlags returns every single flag in enumeration order.
func AllGameFlags() []GameFlags {
	out := make([]GameFlags, numGameFlags)
	for i := range out {
		out[i] = GameFlags(1) << i
	}
	return out
}

func (f GameFlags) Has(other GameFlags) bool       { return f&other == other }
func (f GameFlags) Union(other GameFlags) GameFlags { return f | other }
func (f GameFlags) Intersect(other GameFlags) GameFlags {
	return f & other
}
func (f GameFlags) Without(other GameFlags) GameFlags { return f &^ other }
func (f GameFlags) Empty() bool                       { return f == 0 }

// List splits the set into single flags in enumeration order.
func (f GameFlags) List() []GameFlags {
	out := make([]GameFlags, 0, bits.OnesCount64(uint64(f)))
	for _, g := range AllGameFlags() {
		if f.Has(g) {
			out = append(out, g)
		}
	}
	return out
}

// Names returns the names of the set flags in enumeration order.
func (f GameFlags) Names() []string {
	list := f.List()
	out := make([]string, len(list))
	for i, g := range list {
		out[i] = gameFlagNames[bits.TrailingZeros64(uint64(g))]
	}
	return out
}

func (f GameFlags) String() string {
	if f == 0 {
		return "GameFlags(0)"
	}
	return strings.Join(f.Names(), "|")
}

// ParseGameFlag looks up a single flag by name, e.g. "BOSS_RANDO".
func ParseGameFlag(name string) (GameFlags, error) {
	for i, n := range gameFlagNames {
		if n == name {
			return GameFlags(1) << i, nil
		}
	}
	return 0, fmt.Errorf("%w: game flag %q", ErrUnknownOption, name)
}

// GameFlagsFromNames folds a list of names into a set.
func GameFlagsFromNames(names []string) (GameFlags, error) {
	var f GameFlags
	for _, n := range names {
		g, err := ParseGameFlag(n)
		if err != nil {
			return 0, err
		}
		f |= g
	}
	return f, nil
}

// A single flag also works as a map key (mystery probabilities), so the text
// form must name exactly one flag.
func (f GameFlags) MarshalText() ([]byte, error) {
	if bits.OnesCount64(uint64(f)) != 1 || bits.TrailingZeros64(uint64(f)) >= numGameFlags {
		return nil, fmt.Errorf("%w: game flag set %d is not a single flag", ErrUnknownOption, uint64(f))
	}
	return []byte(gameFlagNames[bits.TrailingZeros64(uint64(f))]), nil
}

func (f *GameFlags) UnmarshalText(text []byte) error {
	g, err := ParseGameFlag(string(text))
	if err != nil {
		return err
	}
	*f = g
	return nil
}

// Sets serialize as name lists.

func (f GameFlags) MarshalJSON() ([]byte, error) { return json.Marshal(f.Names()) }

// UnmarshalJSON also accepts a bare name, which is how map keys arrive.
func (f *GameFlags) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		return f.UnmarshalText([]byte(name))
	}
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	v, err := GameFlagsFromNames(names)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f GameFlags) MarshalYAML() (interface{}, error) { return f.Names(), nil }

func (f *GameFlags) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return f.UnmarshalText([]byte(value.Value))
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	v, err := GameFlagsFromNames(names)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// CosmeticFlags change looks and sounds only.
type CosmeticFlags uint64

const (
	ZenanAltMusic CosmeticFlags = 1 << iota
	DeathPeakAltMusic
	QuietMode

	numCosmeticFlags = iota
)

var cosmeticFlagNames = [numCosmeticFlags]string{
	"ZENAN_ALT_MUSIC", "DEATH_PEAK_ALT_MUSIC", "QUIET_MODE",
}

func AllCosmeticFlags() []CosmeticFlags {
	out := make([]CosmeticFlags, numCosmeticFlags)
	for i := range out {
		out[i] = CosmeticFlags(1) << i
	}
	return out
}

func (f CosmeticFlags) Has(other CosmeticFlags) bool           { return f&other == other }
func (f CosmeticFlags) Union(other CosmeticFlags) CosmeticFlags { return f | other }
func (f CosmeticFlags) Without(other CosmeticFlags) CosmeticFlags {
	return f &^ other
}

func (f CosmeticFlags) Names() []string {
	var out []string
	for i, c := range AllCosmeticFlags() {
		if f.Has(c) {
			out = append(out, cosmeticFlagNames[i])
		}
	}
	return out
}

func (f CosmeticFlags) String() string {
	if f == 0 {
		return "CosmeticFlags(0)"
	}
	return strings.Join(f.Names(), "|")
}

func ParseCosmeticFlag(name string) (CosmeticFlags, error) {
	for i, n := range cosmeticFlagNames {
		if n == name {
			return CosmeticFlags(1) << i, nil
		}
	}
	return 0, fmt.Errorf("%w: cosmetic flag %q", ErrUnknownOption, name)
}

func CosmeticFlagsFromNames(names []string) (CosmeticFlags, error) {
	var f CosmeticFlags
	for _, n := range names {
		c, err := ParseCosmeticFlag(n)
		if err != nil {
			return 0, err
		}
		f |= c
	}
	return f, nil
}

func (f CosmeticFlags) MarshalJSON() ([]byte, error) {
	names := f.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

func (f *CosmeticFlags) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	v, err := CosmeticFlagsFromNames(names)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f CosmeticFlags) MarshalYAML() (interface{}, error) {
	names := f.Names()
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (f *CosmeticFlags) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	v, err := CosmeticFlagsFromNames(names)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

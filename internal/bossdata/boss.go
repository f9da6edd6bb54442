// Package bossdata holds the boss and boss-location identifiers used by boss
// randomization, their part-count classes and the vanilla placement.
package bossdata

import (
	"errors"
	"fmt"
)

var ErrUnknownBoss = errors.New("unknown boss")

// BossID identifies a boss that can be placed by boss randomization.
type BossID int

const (
	AtroposXR BossID = iota
	DaltonPlus
	DragonTank
	ElderSpawn
	Flea
	FleaPlus
	GigaGaia
	GigaMutant
	Golem
	GolemBoss
	Guardian
	Heckran
	LavosSpawn
	MagusNorthCape
	MasaMune
	MegaMutant
	MotherBrain
	MudImp
	Nizbel
	Nizbel2
	Retinite
	RSeries
	RustTyrano
	SlashSword
	SuperSlash
	SonOfSun
	TerraMutant
	TwinBoss
	Yakra
	YakraXIII
	Zombor
	Magus
	BlackTyrano

	numBosses
)

var bossNames = [numBosses]string{
	AtroposXR:      "Atropos xr",
	DaltonPlus:     "Dalton plus",
	DragonTank:     "Dragon tank",
	ElderSpawn:     "Elder spawn",
	Flea:           "Flea",
	FleaPlus:       "Flea plus",
	GigaGaia:       "Giga gaia",
	GigaMutant:     "Giga mutant",
	Golem:          "Golem",
	GolemBoss:      "Golem boss",
	Guardian:       "Guardian",
	Heckran:        "Heckran",
	LavosSpawn:     "Lavos spawn",
	MagusNorthCape: "Magus north cape",
	MasaMune:       "Masa mune",
	MegaMutant:     "Mega mutant",
	MotherBrain:    "Mother brain",
	MudImp:         "Mud imp",
	Nizbel:         "Nizbel",
	Nizbel2:        "Nizbel 2",
	Retinite:       "Retinite",
	RSeries:        "R series",
	RustTyrano:     "Rust tyrano",
	SlashSword:     "Slash sword",
	SuperSlash:     "Super slash",
	SonOfSun:       "Son of sun",
	TerraMutant:    "Terra mutant",
	TwinBoss:       "Twin boss",
	Yakra:          "Yakra",
	YakraXIII:      "Yakra xiii",
	Zombor:         "Zombor",
	Magus:          "Magus",
	BlackTyrano:    "Black tyrano",
}

var bossByName = func() map[string]BossID {
	m := make(map[string]BossID, numBosses)
	for i, name := range bossNames {
		m[name] = BossID(i)
	}
	return m
}()

// AllBosses returns every boss in declaration order.
func AllBosses() []BossID {
	out := make([]BossID, numBosses)
	for i := range out {
		out[i] = BossID(i)
	}
	return out
}

func (b BossID) Valid() bool { return b >= 0 && b < numBosses }

func (b BossID) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BossID(%d)", int(b))
	}
	return bossNames[b]
}

// ParseBoss is the inverse of String.
func ParseBoss(s string) (BossID, error) {
	b, ok := bossByName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBoss, s)
	}
	return b, nil
}

func (b BossID) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBoss, int(b))
	}
	return []byte(b.String()), nil
}

func (b *BossID) UnmarshalText(text []byte) error {
	v, err := ParseBoss(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Arity is the part-count class used by legacy boss placement.
type Arity int

const (
	OnePart Arity = iota
	TwoPart
	MultiPart
)

func (a Arity) String() string {
	switch a {
	case OnePart:
		return "one part"
	case TwoPart:
		return "two part"
	default:
		return "multi part"
	}
}

var onePartBosses = []BossID{
	AtroposXR, DaltonPlus, Flea, FleaPlus, Golem, GolemBoss, Heckran,
	MagusNorthCape, MasaMune, Nizbel, Nizbel2, RustTyrano, SlashSword,
	SuperSlash, Yakra, YakraXIII,
}

var twoPartBosses = []BossID{
	ElderSpawn, GigaMutant, LavosSpawn, MegaMutant, TerraMutant, Zombor,
}

var arity = func() map[BossID]Arity {
	m := make(map[BossID]Arity, numBosses)
	for _, b := range AllBosses() {
		m[b] = MultiPart
	}
	for _, b := range onePartBosses {
		m[b] = OnePart
	}
	for _, b := range twoPartBosses {
		m[b] = TwoPart
	}
	return m
}()

func OnePartBosses() []BossID { return append([]BossID(nil), onePartBosses...) }
func TwoPartBosses() []BossID { return append([]BossID(nil), twoPartBosses...) }

// ArityOf classifies a boss; anything not one or two part is multi part.
func ArityOf(b BossID) Arity {
	if a, ok := arity[b]; ok {
		return a
	}
	return MultiPart
}

// noShuffle lists bosses that never enter the selectable pool.
var noShuffle = map[BossID]bool{
	DragonTank:  true,
	RSeries:     true,
	MudImp:      true,
	Magus:       true,
	BlackTyrano: true,
}

// ShufflePool returns the bosses that may be selected for randomization.
func ShufflePool() []BossID {
	out := make([]BossID, 0, numBosses)
	for _, b := range AllBosses() {
		if !noShuffle[b] {
			out = append(out, b)
		}
	}
	return out
}

// DefaultPool is the boss list a fresh configuration starts with.
func DefaultPool() []BossID {
	out := OnePartBosses()
	out = append(out, TwoPartBosses()...)
	return append(out, SonOfSun, Retinite, MotherBrain, GigaGaia, Guardian)
}

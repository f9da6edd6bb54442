package bossdata

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownLocation = errors.New("unknown location")

// LocID is a map index into the game's location table.
type LocID int

const (
	LoadScreen                 LocID = 0x000
	ManoriaCommand             LocID = 0x0C6
	CaveOfMasamune             LocID = 0x0AF
	ReptiteLairAzalaRoom       LocID = 0x121
	MagusCastleFlea            LocID = 0x0AD
	MagusCastleSlash           LocID = 0x0A9
	GiantsClawTyrano           LocID = 0x153
	TyranoLairNizbel           LocID = 0x130
	ZealPalaceThroneNight      LocID = 0x1A4
	ZenanBridge                LocID = 0x087
	DeathPeakGuardianSpawn     LocID = 0x1BD
	BlackOmenGigaMutant        LocID = 0x15D
	BlackOmenTerraMutant       LocID = 0x15E
	BlackOmenElderSpawn        LocID = 0x16A
	BlackOmenMegaMutant        LocID = 0x14F
	HeckranCaveNew             LocID = 0x0C0
	KingsTrialNew              LocID = 0x01B
	OzziesFortFleaPlus         LocID = 0x0B7
	OzziesFortSuperSlash       LocID = 0x0B8
	SunPalace                  LocID = 0x0FB
	SunkenDesertDevourer       LocID = 0x04D
	OceanPalaceTwinGolem       LocID = 0x19B
	GenoDomeMainframe          LocID = 0x088
	GenoDomeAtropos            LocID = 0x084
	MtWoeSummit                LocID = 0x189
	ArrisDomeGuardianChamber   LocID = 0x0D8
	NorthCape                  LocID = 0x0E5
	DeathPeakSouthFace         LocID = 0x1B8
	DeathPeakSoutheastFace     LocID = 0x1B9
	DeathPeakNortheastFace     LocID = 0x1BA
	DeathPeakLowerNorthFace    LocID = 0x1BB
	DeathPeakUpperNorthFace    LocID = 0x1BC
	DeathPeakNorthwestFace     LocID = 0x1BE
	DeathPeakCave              LocID = 0x1BF
	DeathPeakSummit            LocID = 0x1C0
	maxLocID                   LocID = 0x1FF
)

var locNames = map[LocID]string{
	LoadScreen:               "Load screen",
	ManoriaCommand:           "Manoria command",
	CaveOfMasamune:           "Cave of masamune",
	ReptiteLairAzalaRoom:     "Reptite lair azala room",
	MagusCastleFlea:          "Magus castle flea",
	MagusCastleSlash:         "Magus castle slash",
	GiantsClawTyrano:         "Giants claw tyrano",
	TyranoLairNizbel:         "Tyrano lair nizbel",
	ZealPalaceThroneNight:    "Zeal palace throne night",
	ZenanBridge:              "Zenan bridge",
	DeathPeakGuardianSpawn:   "Death peak guardian spawn",
	BlackOmenGigaMutant:      "Black omen giga mutant",
	BlackOmenTerraMutant:     "Black omen terra mutant",
	BlackOmenElderSpawn:      "Black omen elder spawn",
	BlackOmenMegaMutant:      "Black omen mega mutant",
	HeckranCaveNew:           "Heckran cave new",
	KingsTrialNew:            "Kings trial new",
	OzziesFortFleaPlus:       "Ozzies fort flea plus",
	OzziesFortSuperSlash:     "Ozzies fort super slash",
	SunPalace:                "Sun palace",
	SunkenDesertDevourer:     "Sunken desert devourer",
	OceanPalaceTwinGolem:     "Ocean palace twin golem",
	GenoDomeMainframe:        "Geno dome mainframe",
	GenoDomeAtropos:          "Geno dome atropos",
	MtWoeSummit:              "Mt woe summit",
	ArrisDomeGuardianChamber: "Arris dome guardian chamber",
	NorthCape:                "North cape",
	DeathPeakSouthFace:       "Death peak south face",
	DeathPeakSoutheastFace:   "Death peak southeast face",
	DeathPeakNortheastFace:   "Death peak northeast face",
	DeathPeakLowerNorthFace:  "Death peak lower north face",
	DeathPeakUpperNorthFace:  "Death peak upper north face",
	DeathPeakNorthwestFace:   "Death peak northwest face",
	DeathPeakCave:            "Death peak cave",
	DeathPeakSummit:          "Death peak summit",
}

var locByName = func() map[string]LocID {
	m := make(map[string]LocID, len(locNames))
	for id, name := range locNames {
		m[name] = id
	}
	return m
}()

func (l LocID) String() string {
	if name, ok := locNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LocID(0x%03X)", int(l))
}

// Valid reports whether l fits in the location table.
func (l LocID) Valid() bool { return l >= 0 && l <= maxLocID }

// ParseLocation is the inverse of String for named locations.
func ParseLocation(s string) (LocID, error) {
	l, ok := locByName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, s)
	}
	return l, nil
}

func (l LocID) MarshalText() ([]byte, error) {
	if _, ok := locNames[l]; !ok {
		return nil, fmt.Errorf("%w: 0x%03X", ErrUnknownLocation, int(l))
	}
	return []byte(l.String()), nil
}

func (l *LocID) UnmarshalText(text []byte) error {
	v, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// bossLocations is ordered the way the location pool is presented.
var bossLocations = []LocID{
	ManoriaCommand, CaveOfMasamune, ReptiteLairAzalaRoom, MagusCastleFlea,
	MagusCastleSlash, GiantsClawTyrano, TyranoLairNizbel,
	ZealPalaceThroneNight, ZenanBridge, DeathPeakGuardianSpawn,
	BlackOmenGigaMutant, BlackOmenTerraMutant, BlackOmenElderSpawn,
	HeckranCaveNew, KingsTrialNew, OzziesFortFleaPlus, OzziesFortSuperSlash,
	SunPalace, SunkenDesertDevourer, OceanPalaceTwinGolem, GenoDomeMainframe,
	MtWoeSummit, ArrisDomeGuardianChamber, GenoDomeAtropos,
	BlackOmenMegaMutant, NorthCape,
}

var defaultAssignment = map[LocID]BossID{
	ManoriaCommand:           Yakra,
	CaveOfMasamune:           MasaMune,
	ReptiteLairAzalaRoom:     Nizbel,
	MagusCastleFlea:          Flea,
	MagusCastleSlash:         SlashSword,
	GiantsClawTyrano:         RustTyrano,
	TyranoLairNizbel:         Nizbel2,
	ZealPalaceThroneNight:    Golem,
	ZenanBridge:              Zombor,
	DeathPeakGuardianSpawn:   LavosSpawn,
	BlackOmenGigaMutant:      GigaMutant,
	BlackOmenTerraMutant:     TerraMutant,
	BlackOmenElderSpawn:      ElderSpawn,
	HeckranCaveNew:           Heckran,
	KingsTrialNew:            YakraXIII,
	OzziesFortFleaPlus:       FleaPlus,
	OzziesFortSuperSlash:     SuperSlash,
	SunPalace:                SonOfSun,
	SunkenDesertDevourer:     Retinite,
	OceanPalaceTwinGolem:     TwinBoss,
	GenoDomeMainframe:        MotherBrain,
	MtWoeSummit:              GigaGaia,
	ArrisDomeGuardianChamber: Guardian,
	GenoDomeAtropos:          AtroposXR,
	BlackOmenMegaMutant:      MegaMutant,
	NorthCape:                MagusNorthCape,
}

// BossLocations returns every location that holds a boss.
func BossLocations() []LocID { return append([]LocID(nil), bossLocations...) }

// DefaultAssignment returns a copy of the vanilla location → boss table.
func DefaultAssignment() map[LocID]BossID {
	out := make(map[LocID]BossID, len(defaultAssignment))
	for k, v := range defaultAssignment {
		out[k] = v
	}
	return out
}

// VanillaBoss returns the boss normally found at loc.
func VanillaBoss(loc LocID) (BossID, bool) {
	b, ok := defaultAssignment[loc]
	return b, ok
}

// LocationArity classifies a location by the part count of its vanilla boss.
func LocationArity(loc LocID) Arity {
	b, ok := defaultAssignment[loc]
	if !ok {
		return MultiPart
	}
	return ArityOf(b)
}

// LocationsToBosses adds the vanilla boss of every selected location to the
// boss selection. Already selected bosses stay selected.
func LocationsToBosses(locs []LocID, bosses []BossID) []BossID {
	set := bossSet(bosses)
	for _, l := range locs {
		if b, ok := defaultAssignment[l]; ok {
			set[b] = true
		}
	}
	return sortedBosses(set)
}

// RestrictToLocations drops every selected boss that is not the vanilla boss
// of a selected location.
func RestrictToLocations(locs []LocID, bosses []BossID) []BossID {
	keep := make(map[BossID]bool, len(locs))
	for _, l := range locs {
		if b, ok := defaultAssignment[l]; ok {
			keep[b] = true
		}
	}
	set := make(map[BossID]bool, len(bosses))
	for _, b := range bosses {
		if keep[b] {
			set[b] = true
		}
	}
	return sortedBosses(set)
}

// AllButUnselected selects every pool boss except the vanilla bosses of the
// locations that are not selected.
func AllButUnselected(locs []LocID) []BossID {
	selected := make(map[LocID]bool, len(locs))
	for _, l := range locs {
		selected[l] = true
	}
	excluded := make(map[BossID]bool)
	for _, l := range bossLocations {
		if !selected[l] {
			excluded[defaultAssignment[l]] = true
		}
	}
	set := make(map[BossID]bool)
	for _, b := range ShufflePool() {
		if !excluded[b] {
			set[b] = true
		}
	}
	return sortedBosses(set)
}

func bossSet(bosses []BossID) map[BossID]bool {
	set := make(map[BossID]bool, len(bosses))
	for _, b := range bosses {
		set[b] = true
	}
	return set
}

func sortedBosses(set map[BossID]bool) []BossID {
	out := make([]BossID, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package settings

// Forcing is not symmetric. Lost Worlds forces Boss Scaling off but not the
// other way around, so picking a major option never requires clearing minor
// flags by hand first.

var flagForcedOff = map[GameFlags]GameFlags{
	Chronosanity: BossScale,
}

var flagForcedOn = map[GameFlags]GameFlags{}

var modeForcedOff = map[GameMode]GameFlags{
	ModeStandard:   0,
	ModeLostWorlds: BossScale | BucketFragments,
	ModeIceAge:     ZealEnd | BossScale | BucketFragments,
	ModeLegacyOfCyrus: ZealEnd | BucketFragments |
		BossRando | BossScale | BossRando,
	ModeVanillaRando: BossScale | BuffXStrike | BucketFragments |
		AylaRebalance | BlackholeRework | MarleRework | RoboRework,
}

var modeForcedOn = map[GameMode]GameFlags{
	ModeLostWorlds:    UnlockedMagic,
	ModeIceAge:        UnlockedMagic,
	ModeLegacyOfCyrus: UnlockedMagic,
}

// FlagForcedOff returns the flags that selecting flag turns off.
func FlagForcedOff(flag GameFlags) GameFlags { return flagForcedOff[flag] }

// FlagForcedOn returns the flags that selecting flag turns on.
func FlagForcedOn(flag GameFlags) GameFlags { return flagForcedOn[flag] }

// ModeForcedOff returns the flags that mode turns off.
func ModeForcedOff(mode GameMode) GameFlags { return modeForcedOff[mode] }

// ModeForcedOn returns the flags that mode turns on.
func ModeForcedOn(mode GameMode) GameFlags { return modeForcedOn[mode] }

// Resolve applies the forcing tables for mode and every flag set in flags.
// All forced-off sets are removed first, then all forced-on sets are added,
// so a flag forced on by any trigger always survives.
func Resolve(mode GameMode, flags GameFlags) GameFlags {
	off := ModeForcedOff(mode)
	on := ModeForcedOn(mode)
	for _, f := range flags.List() {
		off |= FlagForcedOff(f)
		on |= FlagForcedOn(f)
	}
	return flags.Without(off).Union(on)
}

// Resolve returns a copy of s with forced flags applied for its mode.
func (s Settings) Resolve() Settings {
	out := s.Clone()
	out.GameFlags = Resolve(s.GameMode, s.GameFlags)
	return out
}

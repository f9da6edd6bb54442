package settings

import "strings"

// MysteryFlagString replaces the whole flag string when mystery is on.
const MysteryFlagString = "mystery"

var modeTokens = map[GameMode]string{
	ModeStandard:      "st",
	ModeLostWorlds:    "lw",
	ModeIceAge:        "ia",
	ModeLegacyOfCyrus: "loc",
	ModeVanillaRando:  "van",
}

var difficultyTokens = map[Difficulty]string{
	DifficultyEasy:   "e",
	DifficultyNormal: "n",
	DifficultyHard:   "h",
}

// flagTokens is ordered; flags without an entry add nothing.
var flagTokens = []struct {
	flag  GameFlags
	token string
}{
	{FixGlitch, "g"},
	{BossScale, "b"},
	{BossRando, "ro"},
	{ZealEnd, "z"},
	{FastPendant, "p"},
	{LockedChars, "c"},
	{UnlockedMagic, "m"},
	{Chronosanity, "cr"},
	{TabTreasures, "tb"},
	{DuplicateChars, "dc"},
}

var techTokens = map[TechOrder]string{
	TechFullRandom:     "te",
	TechBalancedRandom: "tex",
	TechNormal:         "",
}

var shopTokens = map[ShopPrices]string{
	ShopFree:         "spf",
	ShopMostlyRandom: "spm",
	ShopFullyRandom:  "spr",
	ShopNormal:       "",
}

// FlagString encodes the gameplay-relevant choices as a short token used in
// output file names, e.g. "st.negzpmte".
//
// Only enemy difficulty follows the mode so older flag strings still match;
// item difficulty is appended when it differs.
func (s Settings) FlagString() string {
	if s.GameFlags.Has(Mystery) {
		return MysteryFlagString
	}

	var b strings.Builder
	b.WriteString(modeTokens[s.GameMode])
	b.WriteByte('.')
	b.WriteString(difficultyTokens[s.EnemyDifficulty])
	if s.ItemDifficulty != s.EnemyDifficulty {
		b.WriteString(difficultyTokens[s.ItemDifficulty])
	}
	for _, ft := range flagTokens {
		if s.GameFlags.Has(ft.flag) {
			b.WriteString(ft.token)
		}
	}
	b.WriteString(techTokens[s.TechOrder])
	b.WriteString(shopTokens[s.ShopPrices])
	return b.String()
}

package settings

import (
	"errors"
	"fmt"
)

// ErrUnknownOption is returned when a display string names no enum value.
var ErrUnknownOption = errors.New("unknown option")

// GameMode is the top-level ruleset.
type GameMode int

const (
	ModeStandard GameMode = iota
	ModeLostWorlds
	ModeIceAge
	ModeLegacyOfCyrus
	ModeVanillaRando
)

// Difficulty applies separately to items and enemies.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

// TechOrder controls how the tech learning order is shuffled.
type TechOrder int

const (
	TechNormal TechOrder = iota
	TechFullRandom
	TechBalancedRandom
)

// ShopPrices controls shop price randomization.
type ShopPrices int

const (
	ShopNormal ShopPrices = iota
	ShopMostlyRandom
	ShopFullyRandom
	ShopFree
)

// TabRandoScheme picks the distribution for tab magnitudes.
type TabRandoScheme int

const (
	TabUniform TabRandoScheme = iota
	TabBinomial
)

// enumTable keeps the ordered display strings of one enum and the reverse
// lookup. Index i is the display string of value i.
type enumTable struct {
	kind  string
	names []string
	index map[string]int
}

func newEnumTable(kind string, names ...string) enumTable {
	t := enumTable{kind: kind, names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		t.index[n] = i
	}
	return t
}

func (t enumTable) name(v int) string {
	if v < 0 || v >= len(t.names) {
		return fmt.Sprintf("%s(%d)", t.kind, v)
	}
	return t.names[v]
}

func (t enumTable) parse(s string) (int, error) {
	v, ok := t.index[s]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownOption, t.kind, s)
	}
	return v, nil
}

func (t enumTable) valid(v int) bool { return v >= 0 && v < len(t.names) }

func (t enumTable) marshal(v int) ([]byte, error) {
	if !t.valid(v) {
		return nil, fmt.Errorf("%w: %s(%d)", ErrUnknownOption, t.kind, v)
	}
	return []byte(t.names[v]), nil
}

var (
	gameModeTable   = newEnumTable("GameMode", "Standard", "Lost worlds", "Ice age", "Legacy of cyrus", "Vanilla rando")
	difficultyTable = newEnumTable("Difficulty", "Easy", "Normal", "Hard")
	techOrderTable  = newEnumTable("TechOrder", "Normal", "Full random", "Balanced random")
	shopPricesTable = newEnumTable("ShopPrices", "Normal", "Mostly random", "Fully random", "Free")
	tabSchemeTable  = newEnumTable("TabRandoScheme", "Uniform", "Binomial")
)

// GameMode

func AllGameModes() []GameMode {
	return []GameMode{ModeStandard, ModeLostWorlds, ModeIceAge, ModeLegacyOfCyrus, ModeVanillaRando}
}

func (m GameMode) String() string { return gameModeTable.name(int(m)) }
func (m GameMode) Valid() bool    { return gameModeTable.valid(int(m)) }

func ParseGameMode(s string) (GameMode, error) {
	v, err := gameModeTable.parse(s)
	return GameMode(v), err
}

// GameModeStrings maps every mode to its display string.
func GameModeStrings() map[GameMode]string {
	out := make(map[GameMode]string)
	for _, m := range AllGameModes() {
		out[m] = m.String()
	}
	return out
}

// GameModesByString is the inverse of GameModeStrings.
func GameModesByString() map[string]GameMode {
	out := make(map[string]GameMode)
	for _, m := range AllGameModes() {
		out[m.String()] = m
	}
	return out
}

func (m GameMode) MarshalText() ([]byte, error) { return gameModeTable.marshal(int(m)) }

func (m *GameMode) UnmarshalText(text []byte) error {
	v, err := ParseGameMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Difficulty

func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

func (d Difficulty) String() string { return difficultyTable.name(int(d)) }
func (d Difficulty) Valid() bool    { return difficultyTable.valid(int(d)) }

func ParseDifficulty(s string) (Difficulty, error) {
	v, err := difficultyTable.parse(s)
	return Difficulty(v), err
}

func DifficultyStrings() map[Difficulty]string {
	out := make(map[Difficulty]string)
	for _, d := range AllDifficulties() {
		out[d] = d.String()
	}
	return out
}

func DifficultiesByString() map[string]Difficulty {
	out := make(map[string]Difficulty)
	for _, d := range AllDifficulties() {
		out[d.String()] = d
	}
	return out
}

func (d Difficulty) MarshalText() ([]byte, error) { return difficultyTable.marshal(int(d)) }

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// TechOrder

func AllTechOrders() []TechOrder {
	return []TechOrder{TechNormal, TechFullRandom, TechBalancedRandom}
}

func (t TechOrder) String() string { return techOrderTable.name(int(t)) }
func (t TechOrder) Valid() bool    { return techOrderTable.valid(int(t)) }

func ParseTechOrder(s string) (TechOrder, error) {
	v, err := techOrderTable.parse(s)
	return TechOrder(v), err
}

func TechOrderStrings() map[TechOrder]string {
	out := make(map[TechOrder]string)
	for _, t := range AllTechOrders() {
		out[t] = t.String()
	}
	return out
}

func TechOrdersByString() map[string]TechOrder {
	out := make(map[string]TechOrder)
	for _, t := range AllTechOrders() {
		out[t.String()] = t
	}
	return out
}

func (t TechOrder) MarshalText() ([]byte, error) { return techOrderTable.marshal(int(t)) }

func (t *TechOrder) UnmarshalText(text []byte) error {
	v, err := ParseTechOrder(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ShopPrices

func AllShopPrices() []ShopPrices {
	return []ShopPrices{ShopNormal, ShopMostlyRandom, ShopFullyRandom, ShopFree}
}

func (p ShopPrices) String() string { return shopPricesTable.name(int(p)) }
func (p ShopPrices) Valid() bool    { return shopPricesTable.valid(int(p)) }

func ParseShopPrices(s string) (ShopPrices, error) {
	v, err := shopPricesTable.parse(s)
	return ShopPrices(v), err
}

func ShopPricesStrings() map[ShopPrices]string {
	out := make(map[ShopPrices]string)
	for _, p := range AllShopPrices() {
		out[p] = p.String()
	}
	return out
}

func ShopPricesByString() map[string]ShopPrices {
	out := make(map[string]ShopPrices)
	for _, p := range AllShopPrices() {
		out[p.String()] = p
	}
	return out
}

func (p ShopPrices) MarshalText() ([]byte, error) { return shopPricesTable.marshal(int(p)) }

func (p *ShopPrices) UnmarshalText(text []byte) error {
	v, err := ParseShopPrices(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// TabRandoScheme

func AllTabRandoSchemes() []TabRandoScheme {
	return []TabRandoScheme{TabUniform, TabBinomial}
}

func (s TabRandoScheme) String() string { return tabSchemeTable.name(int(s)) }
func (s TabRandoScheme) Valid() bool    { return tabSchemeTable.valid(int(s)) }

func ParseTabRandoScheme(s string) (TabRandoScheme, error) {
	v, err := tabSchemeTable.parse(s)
	return TabRandoScheme(v), err
}

func TabRandoSchemeStrings() map[TabRandoScheme]string {
	out := make(map[TabRandoScheme]string)
	for _, s := range AllTabRandoSchemes() {
		out[s] = s.String()
	}
	return out
}

func TabRandoSchemesByString() map[string]TabRandoScheme {
	out := make(map[string]TabRandoScheme)
	for _, s := range AllTabRandoSchemes() {
		out[s.String()] = s
	}
	return out
}

func (s TabRandoScheme) MarshalText() ([]byte, error) { return tabSchemeTable.marshal(int(s)) }

func (s *TabRandoScheme) UnmarshalText(text []byte) error {
	v, err := ParseTabRandoScheme(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

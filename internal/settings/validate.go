package settings

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xtding233/jetsoftime/internal/bossdata"
)

// Category says which group of rules rejected a configuration.
type Category string

const (
	CategoryOptions        Category = "options"
	CategoryMystery        Category = "mystery"
	CategoryDuplicateChars Category = "duplicate_chars"
	CategoryBossRando      Category = "boss_rando"
	CategoryTabs           Category = "tabs"
	CategoryBuckets        Category = "buckets"
	CategoryPath           Category = "path"
)

// ValidationError reports a rejected configuration. Items names the offending
// entries (categories, characters, bosses, locations) when there are any.
type ValidationError struct {
	Category Category
	Message  string
	Items    []string
}

func (e *ValidationError) Error() string {
	if len(e.Items) == 0 {
		return fmt.Sprintf("%s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Category, e.Message, strings.Join(e.Items, ", "))
}

func invalid(c Category, msg string, items ...string) error {
	return &ValidationError{Category: c, Message: msg, Items: items}
}

// CategoryOf returns the category of a validation error, or "" for any other
// error.
func CategoryOf(err error) Category {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Category
	}
	return ""
}

// Validate checks everything that must hold before generation. The mystery
// distributions are always checked; duplicate-character and boss pools are
// checked when their flag or mystery could turn them on. The first failing
// group is returned.
func Validate(s Settings) error {
	if err := ValidateOptions(s); err != nil {
		return err
	}
	if err := s.Mystery.Validate(); err != nil {
		return err
	}
	mystery := s.GameFlags.Has(Mystery)
	if s.GameFlags.Has(DuplicateChars) || mystery {
		if err := ValidateDC(s.DC); err != nil {
			if !s.GameFlags.Has(DuplicateChars) {
				ve := err.(*ValidationError)
				ve.Message += " Enable the duplicate characters flag and adjust the settings."
			}
			return err
		}
	}
	if s.GameFlags.Has(BossRando) || mystery {
		if err := ValidateRO(s.RO); err != nil {
			return err
		}
	}
	if err := ValidateTabs(s.Tab); err != nil {
		return err
	}
	return ValidateBuckets(s.Bucket)
}

// ValidateOptions rejects enum values outside their closed sets.
func ValidateOptions(s Settings) error {
	var bad []string
	if !s.GameMode.Valid() {
		bad = append(bad, "mode")
	}
	if !s.ItemDifficulty.Valid() {
		bad = append(bad, "item difficulty")
	}
	if !s.EnemyDifficulty.Valid() {
		bad = append(bad, "enemy difficulty")
	}
	if !s.TechOrder.Valid() {
		bad = append(bad, "tech order")
	}
	if !s.ShopPrices.Valid() {
		bad = append(bad, "shop prices")
	}
	if !s.Tab.Scheme.Valid() {
		bad = append(bad, "tab scheme")
	}
	if len(bad) > 0 {
		return invalid(CategoryOptions, "unknown option selected", bad...)
	}
	return nil
}

// Mystery

const (
	msgWeightFormat = "Relative frequencies must be nonnegative integers."
	msgWeightSum    = "Each category must have at least one positive frequency."
	msgProbFormat   = "Each probability must be a decimal number from 0 up to but not including 1."
)

// MysteryInput is the unparsed text of the mystery page, keyed like
// MysterySettings.
type MysteryInput struct {
	GameModeFreqs        map[GameMode]string
	ItemDifficultyFreqs  map[Difficulty]string
	EnemyDifficultyFreqs map[Difficulty]string
	TechOrderFreqs       map[TechOrder]string
	ShopPriceFreqs       map[ShopPrices]string
	FlagProbs            map[GameFlags]string
}

// MysteryInputFrom renders m as text, the inverse of ParseMystery.
func MysteryInputFrom(m MysterySettings) MysteryInput {
	return MysteryInput{
		GameModeFreqs:        formatWeights(m.GameModeFreqs),
		ItemDifficultyFreqs:  formatWeights(m.ItemDifficultyFreqs),
		EnemyDifficultyFreqs: formatWeights(m.EnemyDifficultyFreqs),
		TechOrderFreqs:       formatWeights(m.TechOrderFreqs),
		ShopPriceFreqs:       formatWeights(m.ShopPriceFreqs),
		FlagProbs:            formatProbs(m.FlagProbs),
	}
}

func formatWeights[K comparable](in map[K]int) map[K]string {
	out := make(map[K]string, len(in))
	for k, v := range in {
		out[k] = strconv.Itoa(v)
	}
	return out
}

func formatProbs(in FlagProbs) map[GameFlags]string {
	out := make(map[GameFlags]string, len(in))
	for k, v := range in {
		out[k] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// ParseMystery parses and validates the mystery page text.
func ParseMystery(in MysteryInput) (MysterySettings, error) {
	var (
		out MysterySettings
		err error
	)
	if out.GameModeFreqs, err = parseWeights("game mode", AllGameModes(), in.GameModeFreqs); err != nil {
		return MysterySettings{}, err
	}
	if out.ItemDifficultyFreqs, err = parseWeights("item difficulty", AllDifficulties(), in.ItemDifficultyFreqs); err != nil {
		return MysterySettings{}, err
	}
	if out.EnemyDifficultyFreqs, err = parseWeights("enemy difficulty", AllDifficulties(), in.EnemyDifficultyFreqs); err != nil {
		return MysterySettings{}, err
	}
	if out.TechOrderFreqs, err = parseWeights("tech order", AllTechOrders(), in.TechOrderFreqs); err != nil {
		return MysterySettings{}, err
	}
	if out.ShopPriceFreqs, err = parseWeights("shop prices", AllShopPrices(), in.ShopPriceFreqs); err != nil {
		return MysterySettings{}, err
	}

	out.FlagProbs = make(FlagProbs, len(in.FlagProbs))
	for _, f := range AllGameFlags() {
		text, ok := in.FlagProbs[f]
		if !ok {
			continue
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || !validFlagProb(p) {
			return MysterySettings{}, invalid(CategoryMystery, msgProbFormat, f.String())
		}
		out.FlagProbs[f] = p
	}
	return out, nil
}

func parseWeights[K option](category string, order []K, in map[K]string) (map[K]int, error) {
	out := make(map[K]int, len(in))
	sum := 0
	for _, k := range order {
		text, ok := in[k]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || v < 0 {
			return nil, invalid(CategoryMystery, msgWeightFormat, category+" "+k.String())
		}
		out[k] = v
		sum += v
	}
	if sum <= 0 {
		return nil, invalid(CategoryMystery, msgWeightSum, category)
	}
	return out, nil
}

// option is any enum used as a mystery frequency key.
type option interface {
	comparable
	fmt.Stringer
}

// Validate applies the mystery rules to already-parsed values.
func (m MysterySettings) Validate() error {
	if err := checkWeights("game mode", AllGameModes(), m.GameModeFreqs); err != nil {
		return err
	}
	if err := checkWeights("item difficulty", AllDifficulties(), m.ItemDifficultyFreqs); err != nil {
		return err
	}
	if err := checkWeights("enemy difficulty", AllDifficulties(), m.EnemyDifficultyFreqs); err != nil {
		return err
	}
	if err := checkWeights("tech order", AllTechOrders(), m.TechOrderFreqs); err != nil {
		return err
	}
	if err := checkWeights("shop prices", AllShopPrices(), m.ShopPriceFreqs); err != nil {
		return err
	}
	for _, f := range AllGameFlags() {
		p, ok := m.FlagProbs[f]
		if ok && !validFlagProb(p) {
			return invalid(CategoryMystery, msgProbFormat, f.String())
		}
	}
	return nil
}

func checkWeights[K option](category string, order []K, in map[K]int) error {
	sum := 0
	for _, k := range order {
		v, ok := in[k]
		if !ok {
			continue
		}
		if v < 0 {
			return invalid(CategoryMystery, msgWeightFormat, category+" "+k.String())
		}
		sum += v
	}
	if sum <= 0 {
		return invalid(CategoryMystery, msgWeightSum, category)
	}
	return nil
}

func validFlagProb(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p < 1
}

// Duplicate characters

// ValidateDC requires every character slot to allow at least one identity.
func ValidateDC(dc DCSettings) error {
	var empty []string
	for i, choices := range dc.CharChoices {
		ok := false
		for _, c := range choices {
			if c >= 0 && c < NumCharacters {
				ok = true
				break
			}
		}
		if !ok {
			empty = append(empty, DefaultCharNames[i])
		}
	}
	if len(empty) > 0 {
		return invalid(CategoryDuplicateChars, "Each character must have at least one choice selected.", empty...)
	}
	if dc.FilterToggle {
		if dc.FilterMin < 1 || dc.FilterMax > NumCharacters || dc.FilterMin > dc.FilterMax {
			return invalid(CategoryDuplicateChars,
				fmt.Sprintf("Character filter range must satisfy 1 <= min <= max <= %d.", NumCharacters))
		}
	}
	return nil
}

// Boss randomization

// ValidateRO checks that the boss pool can fill the selected locations. With
// legacy placement each location needs a boss of the same part count and
// multi-part bosses or locations are not allowed at all.
func ValidateRO(ro ROSettings) error {
	bosses := uniqueBosses(ro.Bosses)
	locs := uniqueLocations(ro.Locations)

	if !ro.PreserveParts {
		if len(bosses) < len(locs) {
			return invalid(CategoryBossRando, fmt.Sprintf(
				"Not enough bosses (%d) to fill the locations (%d). Use \"Loc to Boss\" to fix this.",
				len(bosses), len(locs)))
		}
		return nil
	}

	var bossCount, locCount [3]int
	var badBosses, badLocs []string
	for _, b := range bosses {
		a := bossdata.ArityOf(b)
		bossCount[a]++
		if a == bossdata.MultiPart {
			badBosses = append(badBosses, b.String())
		}
	}
	for _, l := range locs {
		a := bossdata.LocationArity(l)
		locCount[a]++
		if a == bossdata.MultiPart {
			badLocs = append(badLocs, l.String())
		}
	}

	for _, a := range []bossdata.Arity{bossdata.OnePart, bossdata.TwoPart} {
		if bossCount[a] < locCount[a] {
			return invalid(CategoryBossRando, fmt.Sprintf(
				"Legacy boss randomization set with %d %s locations but only %d %s bosses. Try \"Loc to Boss\".",
				locCount[a], a, bossCount[a], a))
		}
	}

	if len(badBosses)+len(badLocs) > 0 {
		items := make([]string, 0, len(badBosses)+len(badLocs))
		for _, b := range badBosses {
			items = append(items, "boss "+b)
		}
		for _, l := range badLocs {
			items = append(items, "location "+l)
		}
		return invalid(CategoryBossRando, "Not allowed with legacy boss randomization", items...)
	}
	return nil
}

func uniqueBosses(in []bossdata.BossID) []bossdata.BossID {
	seen := make(map[bossdata.BossID]bool, len(in))
	out := make([]bossdata.BossID, 0, len(in))
	for _, b := range in {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

func uniqueLocations(in []bossdata.LocID) []bossdata.LocID {
	seen := make(map[bossdata.LocID]bool, len(in))
	out := make([]bossdata.LocID, 0, len(in))
	for _, l := range in {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// Tabs and buckets

// ValidateTabs checks magnitude ranges and the binomial success chance.
func ValidateTabs(t TabSettings) error {
	var errs []string
	for _, c := range []TabCategory{PowerTab, MagicTab, SpeedTab} {
		lo, hi := t.Range(c)
		if lo < MinTabMagnitude || hi > MaxTabMagnitude {
			errs = append(errs, fmt.Sprintf("%s tab magnitudes must be in %d..%d", c, MinTabMagnitude, MaxTabMagnitude))
		}
		if lo > hi {
			errs = append(errs, fmt.Sprintf("%s tab min must be <= max", c))
		}
	}
	if math.IsNaN(t.BinomSuccess) || t.BinomSuccess < 0 || t.BinomSuccess >= 1 {
		errs = append(errs, "binomial success chance must be in [0,1)")
	}
	if len(errs) > 0 {
		return invalid(CategoryTabs, "invalid tab settings", errs...)
	}
	return nil
}

// ValidateBuckets requires total >= needed >= 0.
func ValidateBuckets(b BucketSettings) error {
	if b.NeededFragments < 0 {
		return invalid(CategoryBuckets, "needed fragments must be >= 0")
	}
	if b.NumFragments < b.NeededFragments {
		return invalid(CategoryBuckets, fmt.Sprintf(
			"total fragments (%d) must be >= needed fragments (%d)", b.NumFragments, b.NeededFragments))
	}
	return nil
}

// Paths

// ValidatePaths checks the input image and output directory before a run.
// An empty output directory means "next to the input".
func ValidatePaths(input, outputDir string) error {
	fi, err := os.Stat(input)
	if err != nil || !fi.Mode().IsRegular() {
		return invalid(CategoryPath, "Provided path to the input ROM is invalid", input)
	}
	if outputDir == "" {
		return nil
	}
	di, err := os.Stat(outputDir)
	if err != nil || !di.IsDir() {
		return invalid(CategoryPath, "Provided path to output directory is invalid", outputDir)
	}
	return nil
}

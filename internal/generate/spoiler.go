package generate

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xtding233/jetsoftime/internal/bossdata"
	"github.com/xtding233/jetsoftime/internal/patch"
	"github.com/xtding233/jetsoftime/internal/settings"
	"gopkg.in/yaml.v3"
)

type spoiler struct {
	requested settings.Settings
	final     settings.Settings
	outcomes  []patch.Outcome
	scripts   []string
}

func (sp *spoiler) WriteSpoiler(w io.Writer) error {
	bw := bufio.NewWriter(w)
	s := sp.final

	fmt.Fprintf(bw, "Seed: %s\n", s.Seed)
	fmt.Fprintf(bw, "Flags: %s\n", sp.requested.FlagString())
	if sp.requested.GameFlags.Has(settings.Mystery) {
		fmt.Fprintf(bw, "Mystery rolled: %s\n", s.FlagString())
	}
	fmt.Fprintf(bw, "Mode: %s\n", s.GameMode)
	fmt.Fprintf(bw, "Item difficulty: %s\n", s.ItemDifficulty)
	fmt.Fprintf(bw, "Enemy difficulty: %s\n", s.EnemyDifficulty)
	fmt.Fprintf(bw, "Tech order: %s\n", s.TechOrder)
	fmt.Fprintf(bw, "Shop prices: %s\n", s.ShopPrices)
	fmt.Fprintf(bw, "Game flags: %s\n", joinOrNone(s.GameFlags.Names()))
	fmt.Fprintf(bw, "Cosmetic flags: %s\n", joinOrNone(s.CosmeticFlags.Names()))

	names := make([]string, len(s.CharNames))
	for i := range s.CharNames {
		names[i] = s.CharName(i)
	}
	fmt.Fprintf(bw, "Names: %s\n", strings.Join(names, ", "))

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Patches:")
	for _, o := range sp.outcomes {
		if o.Err != nil {
			fmt.Fprintf(bw, "  %-20s %s (%v)\n", o.Op, o.Status, o.Err)
		} else {
			fmt.Fprintf(bw, "  %-20s %s\n", o.Op, o.Status)
		}
	}

	fmt.Fprintf(bw, "Patched scripts: %s\n", joinOrNone(sp.scripts))

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Settings:")
	enc := yaml.NewEncoder(bw)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

func scriptLocations(scripts map[bossdata.LocID]*patch.Script) []string {
	locs := make([]bossdata.LocID, 0, len(scripts))
	for loc := range scripts {
		locs = append(locs, loc)
	}
	slices.Sort(locs)
	names := make([]string, len(locs))
	for i, loc := range locs {
		names[i] = loc.String()
	}
	return names
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}

package settings_test

import (
	"errors"
	"testing"

	"github.com/xtding233/jetsoftime/internal/settings"
)

func TestFlagStringPresets(t *testing.T) {
	cases := map[string]string{
		"new-player":  "st.negzpmte",
		"race":        "st.ngzpte",
		"lost-worlds": "lw.ngzte",
		"hard":        "st.hgbctex",
	}
	for name, want := range cases {
		s, err := settings.Preset(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.FlagString(); got != want {
			t.Fatalf("%s: flag string %q, want %q", name, got, want)
		}
	}
}

func TestFlagStringMystery(t *testing.T) {
	s := settings.RacePreset()
	s.GameFlags |= settings.Mystery
	if got := s.FlagString(); got != settings.MysteryFlagString {
		t.Fatalf("mystery flag string = %q", got)
	}
}

func TestFlagStringShopsAndTech(t *testing.T) {
	s := settings.Default()
	s.TechOrder = settings.TechNormal
	s.ShopPrices = settings.ShopFree
	if got := s.FlagString(); got != "st.nspf" {
		t.Fatalf("got %q", got)
	}
}

func TestFlagStringToggleOrder(t *testing.T) {
	orders := [][]settings.GameFlags{
		{settings.FixGlitch, settings.ZealEnd, settings.BossScale},
		{settings.BossScale, settings.FixGlitch, settings.ZealEnd},
		{settings.ZealEnd, settings.BossScale, settings.FixGlitch},
		// toggled on and off again along the way
		{settings.ZealEnd, settings.Chronosanity, settings.BossScale, settings.FixGlitch},
	}
	want := ""
	for i, order := range orders {
		s := settings.Default()
		s.GameFlags = 0
		for _, f := range order {
			s.GameFlags = s.GameFlags.Union(f)
		}
		s.GameFlags = s.GameFlags.Without(settings.Chronosanity)
		got := s.FlagString()
		if i == 0 {
			want = got
			continue
		}
		if got != want {
			t.Fatalf("order %d: flag string %q, want %q", i, got, want)
		}
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := settings.Preset("speedrun"); !errors.Is(err, settings.ErrUnknownOption) {
		t.Fatalf("want ErrUnknownOption, got %v", err)
	}
	if names := settings.PresetNames(); len(names) != 4 || names[0] != "hard" {
		t.Fatalf("preset names = %v", names)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range settings.PresetNames() {
		s, _ := settings.Preset(name)
		if err := settings.Validate(s); err != nil {
			t.Fatalf("%s preset does not validate: %v", name, err)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := settings.Default()
	c := s.Clone()
	c.DC.CharChoices[0][0] = 6
	c.Mystery.GameModeFreqs[settings.ModeIceAge] = 99
	c.RO.Locations = c.RO.Locations[:1]
	if s.DC.CharChoices[0][0] != 0 {
		t.Fatalf("char choices shared")
	}
	if s.Mystery.GameModeFreqs[settings.ModeIceAge] != 0 {
		t.Fatalf("mystery maps shared")
	}
	if len(s.RO.Locations) == 1 {
		t.Fatalf("locations shared")
	}
}

func TestCharNameFallback(t *testing.T) {
	s := settings.Default()
	s.CharNames[1] = "  "
	s.CharNames[2] = "Lu"
	if s.CharName(1) != "Marle" || s.CharName(2) != "Lu" || s.CharName(8) != "" {
		t.Fatalf("names = %q %q %q", s.CharName(1), s.CharName(2), s.CharName(8))
	}
}

func TestTabSetMinMax(t *testing.T) {
	tab := settings.DefaultTabSettings()
	tab.SetMin(settings.SpeedTab, 4)
	if lo, hi := tab.Range(settings.SpeedTab); lo != 4 || hi != 4 {
		t.Fatalf("SetMin should raise max: %d..%d", lo, hi)
	}
	tab.SetMax(settings.PowerTab, 1)
	if lo, hi := tab.Range(settings.PowerTab); lo != 1 || hi != 1 {
		t.Fatalf("SetMax should lower min: %d..%d", lo, hi)
	}
}

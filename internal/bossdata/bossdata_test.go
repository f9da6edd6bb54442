package bossdata_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/xtding233/jetsoftime/internal/bossdata"
)

func TestBossNamesRoundTrip(t *testing.T) {
	for _, b := range bossdata.AllBosses() {
		got, err := bossdata.ParseBoss(b.String())
		if err != nil || got != b {
			t.Fatalf("%v: parsed %v, %v", b, got, err)
		}
	}
	if _, err := bossdata.ParseBoss("Lavos"); !errors.Is(err, bossdata.ErrUnknownBoss) {
		t.Fatalf("want ErrUnknownBoss, got %v", err)
	}
	if _, err := bossdata.BossID(-1).MarshalText(); err == nil {
		t.Fatalf("invalid boss must not marshal")
	}
}

func TestArity(t *testing.T) {
	cases := map[bossdata.BossID]bossdata.Arity{
		bossdata.Yakra:      bossdata.OnePart,
		bossdata.Zombor:     bossdata.TwoPart,
		bossdata.TwinBoss:   bossdata.MultiPart,
		bossdata.SonOfSun:   bossdata.MultiPart,
		bossdata.BossID(99): bossdata.MultiPart,
	}
	for b, want := range cases {
		if got := bossdata.ArityOf(b); got != want {
			t.Fatalf("%v: arity %v, want %v", b, got, want)
		}
	}
	if bossdata.LocationArity(bossdata.ZenanBridge) != bossdata.TwoPart {
		t.Fatalf("zenan bridge should hold a two part boss")
	}
}

func TestPools(t *testing.T) {
	pool := bossdata.ShufflePool()
	for _, b := range []bossdata.BossID{bossdata.Magus, bossdata.BlackTyrano, bossdata.DragonTank} {
		if slices.Contains(pool, b) {
			t.Fatalf("%v must not be shuffled", b)
		}
	}
	for _, b := range bossdata.DefaultPool() {
		if !slices.Contains(pool, b) {
			t.Fatalf("default pool boss %v is not in the shuffle pool", b)
		}
	}
	for _, loc := range bossdata.BossLocations() {
		if _, ok := bossdata.VanillaBoss(loc); !ok {
			t.Fatalf("%v has no vanilla boss", loc)
		}
	}
}

func TestLocationSelectionHelpers(t *testing.T) {
	locs := []bossdata.LocID{bossdata.ManoriaCommand, bossdata.ZenanBridge}

	got := bossdata.LocationsToBosses(locs, []bossdata.BossID{bossdata.Flea})
	want := []bossdata.BossID{bossdata.Flea, bossdata.Yakra, bossdata.Zombor}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("LocationsToBosses = %v, want %v", got, want)
	}

	got = bossdata.RestrictToLocations(locs, []bossdata.BossID{bossdata.Flea, bossdata.Zombor})
	if !slices.Equal(got, []bossdata.BossID{bossdata.Zombor}) {
		t.Fatalf("RestrictToLocations = %v", got)
	}

	got = bossdata.AllButUnselected(locs)
	if !slices.Contains(got, bossdata.Yakra) || slices.Contains(got, bossdata.Flea) {
		t.Fatalf("AllButUnselected = %v", got)
	}
}

func TestLocationText(t *testing.T) {
	l, err := bossdata.ParseLocation("Zenan bridge")
	if err != nil || l != bossdata.ZenanBridge {
		t.Fatalf("parsed %v, %v", l, err)
	}
	if bossdata.LocID(0x1FF).Valid() != true || bossdata.LocID(0x200).Valid() {
		t.Fatalf("location bounds wrong")
	}
	if _, err := bossdata.LocID(0x1F0).MarshalText(); !errors.Is(err, bossdata.ErrUnknownLocation) {
		t.Fatalf("unnamed location must not marshal: %v", err)
	}
}

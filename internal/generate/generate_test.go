package generate_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xtding233/jetsoftime/internal/bossdata"
	"github.com/xtding233/jetsoftime/internal/generate"
	"github.com/xtding233/jetsoftime/internal/patch"
	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/romfile"
	"github.com/xtding233/jetsoftime/internal/settings"
)

func vanillaROM() []byte {
	rom := bytes.Repeat([]byte{0xFF}, romfile.VanillaSize)
	copy(rom[0xFFC0:], romfile.VanillaTitle)
	return rom
}

func writeROM(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ct.sfc")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputNames(t *testing.T) {
	rom, spoiler := generate.OutputNames(filepath.Join("roms", "ct.v1.sfc"), "", "st.n", "CronoLucca")
	if rom != filepath.Join("roms", "ct.st.n.CronoLucca.sfc") {
		t.Fatalf("rom path = %s", rom)
	}
	if spoiler != filepath.Join("roms", "ct.st.n.CronoLucca.spoilers.txt") {
		t.Fatalf("spoiler path = %s", spoiler)
	}
	rom, _ = generate.OutputNames("ct.sfc", "out", "mystery", "X")
	if rom != filepath.Join("out", "ct.mystery.X.sfc") {
		t.Fatalf("rom path = %s", rom)
	}
}

func TestNewSeed(t *testing.T) {
	a := generate.NewSeed(roll.NewSeededRNG(7))
	b := generate.NewSeed(roll.NewSeededRNG(7))
	if a == "" || a != b {
		t.Fatalf("seeds %q %q", a, b)
	}
	if generate.NewSeed(nil) == "" {
		t.Fatalf("default rng produced an empty seed")
	}
}

func TestCosmeticGenerator(t *testing.T) {
	rom := vanillaROM()
	s := settings.RacePreset()
	s.Seed = "AylaFrog"
	s.CosmeticFlags = settings.QuietMode

	res, err := generate.CosmeticGenerator{Policy: patch.ContinueOnError}.Generate(rom, s)
	if err != nil {
		t.Fatal(err)
	}
	if rom[0x07241D] != 0xFF || &rom[0] == &res.ROM[0] {
		t.Fatalf("input image must be copied, not patched")
	}
	if res.ROM[0x07241D] != 0 {
		t.Fatalf("quiet mode not applied to the output")
	}
	var buf bytes.Buffer
	if err := res.Spoiler.WriteSpoiler(&buf); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, want := range []string{"Seed: AylaFrog", "Flags: st.ngzpte", "quiet mode", "applied", "not run"} {
		if !strings.Contains(text, want) {
			t.Fatalf("spoiler missing %q:\n%s", want, text)
		}
	}
}

func TestCosmeticGeneratorMystery(t *testing.T) {
	s := settings.Default()
	s.Seed = "MarleLucca"
	s.GameFlags = settings.Mystery
	gen := generate.CosmeticGenerator{}
	res, err := gen.Generate(vanillaROM(), s)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := res.Spoiler.WriteSpoiler(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Flags: mystery") || !strings.Contains(buf.String(), "Mystery rolled: ") {
		t.Fatalf("spoiler does not show the rolled settings:\n%s", buf.String())
	}
}

func scriptTable() *patch.ScriptTable {
	table := patch.NewScriptTable()
	table.Put(bossdata.DeathPeakGuardianSpawn, &patch.Script{
		Data: []byte{0x00, 0xEA, 0x3C, 0x00},
		Functions: map[patch.FuncRef]patch.Span{
			{Object: 0x08, Function: 1}: {Start: 0, End: 4},
		},
	})
	table.Put(bossdata.LoadScreen, &patch.Script{
		Data: append([]byte{0x4E, 0x23, 0x2C, 0x7E, 0x32, 0x00}, make([]byte, 48)...),
	})
	return table
}

func TestCosmeticGeneratorSharedScripts(t *testing.T) {
	table := scriptTable()
	gen := generate.CosmeticGenerator{Scripts: table, Policy: patch.StopOnError}
	s := settings.RacePreset()
	s.Seed = "RoboMagus"
	s.CosmeticFlags = settings.DeathPeakAltMusic

	for run := 1; run <= 2; run++ {
		res, err := gen.Generate(vanillaROM(), s)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		got := res.Scripts[bossdata.DeathPeakGuardianSpawn]
		if got == nil || !bytes.Equal(got.Data, []byte{0x00, 0xEA, 0x52, 0x00}) {
			t.Fatalf("run %d: patched guardian script = %+v", run, got)
		}
		if res.Scripts[bossdata.LoadScreen] == nil {
			t.Fatalf("run %d: names script missing from result", run)
		}
		var buf bytes.Buffer
		if err := res.Spoiler.WriteSpoiler(&buf); err != nil {
			t.Fatal(err)
		}
		if want := "Patched scripts: " + bossdata.LoadScreen.String(); !strings.Contains(buf.String(), want) {
			t.Fatalf("run %d: spoiler missing %q:\n%s", run, want, buf.String())
		}
	}

	shared, err := table.Script(bossdata.DeathPeakGuardianSpawn)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(shared.Data, []byte{0x00, 0xEA, 0x3C, 0x00}) {
		t.Fatalf("shared table modified: % X", shared.Data)
	}
}

func TestJobRunWritesScripts(t *testing.T) {
	input := writeROM(t, vanillaROM())
	s := settings.RacePreset()
	s.Seed = "LuccaRobo"
	s.CosmeticFlags = settings.DeathPeakAltMusic
	job := generate.Job{
		Settings:  s,
		InputPath: input,
		OutputDir: t.TempDir(),
		Generator: generate.CosmeticGenerator{Scripts: scriptTable(), Policy: patch.StopOnError},
	}
	rep, err := job.Run()
	if err != nil {
		t.Fatal(err)
	}
	if rep.ScriptsDir != strings.TrimSuffix(rep.ROMPath, ".sfc")+".scripts" {
		t.Fatalf("scripts dir = %q for rom %q", rep.ScriptsDir, rep.ROMPath)
	}
	out, err := patch.LoadScriptDir(rep.ScriptsDir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := out.Script(bossdata.DeathPeakGuardianSpawn)
	if err != nil {
		t.Fatal(err)
	}
	if got.Data[2] != 0x52 {
		t.Fatalf("written guardian script = % X", got.Data)
	}
}

func TestJobRun(t *testing.T) {
	withHeader := append(make([]byte, romfile.CopierHeaderSize), vanillaROM()...)
	input := writeROM(t, withHeader)
	outDir := t.TempDir()
	store := settings.NewStore(filepath.Join(t.TempDir(), "flags.yaml"))

	s := settings.RacePreset()
	job := generate.Job{
		Settings:  s,
		InputPath: input,
		OutputDir: outDir,
		Store:     store,
		SeedRNG:   roll.NewSeededRNG(3),
	}
	rep, err := job.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Vanilla || !rep.HadHeader || rep.Seed == "" {
		t.Fatalf("report = %+v", rep)
	}
	out, err := os.ReadFile(rep.ROMPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != romfile.VanillaSize {
		t.Fatalf("output should be headerless, got %d bytes", len(out))
	}
	if _, err := os.Stat(rep.SpoilerPath); err != nil {
		t.Fatalf("spoiler not written: %v", err)
	}
	if filepath.Dir(rep.ROMPath) != outDir {
		t.Fatalf("rom written to %s", rep.ROMPath)
	}

	rec, status, err := store.Load()
	if err != nil || status != settings.Loaded {
		t.Fatalf("record not saved: %v %v", status, err)
	}
	if rec.Settings.Seed != rep.Seed || rec.InputPath != input {
		t.Fatalf("saved record = %+v", rec)
	}
	if s.Seed != "" {
		t.Fatalf("Run changed the caller's settings")
	}
}

func TestJobDeclinesNonVanilla(t *testing.T) {
	input := writeROM(t, make([]byte, 0x8000))
	asked := false
	job := generate.Job{
		Settings:          settings.RacePreset(),
		InputPath:         input,
		ConfirmNonVanilla: func() bool { asked = true; return false },
	}
	if _, err := job.Run(); !errors.Is(err, generate.ErrDeclined) || !asked {
		t.Fatalf("asked=%v err=%v", asked, err)
	}
}

type blockingGenerator struct {
	release chan struct{}
}

func (g blockingGenerator) Generate(rom []byte, s settings.Settings) (generate.Result, error) {
	<-g.release
	return generate.Result{ROM: rom}, nil
}

func TestRunnerSingleWorker(t *testing.T) {
	input := writeROM(t, vanillaROM())
	gen := blockingGenerator{release: make(chan struct{})}

	started, finished := 0, make(chan error, 1)
	r := &generate.Runner{
		OnStart:  func(generate.Job) { started++ },
		OnFinish: func(_ generate.Report, err error) { finished <- err },
	}
	job := generate.Job{Settings: settings.RacePreset(), InputPath: input, Generator: gen}

	if err := r.Start(job); err != nil {
		t.Fatal(err)
	}
	if !r.Busy() {
		t.Fatalf("runner should be busy")
	}
	if err := r.Start(job); !errors.Is(err, generate.ErrBusy) {
		t.Fatalf("second start: want ErrBusy, got %v", err)
	}

	close(gen.release)
	select {
	case err := <-finished:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("job never finished")
	}
	rep, err := r.Wait()
	if err != nil || rep.ROMPath == "" {
		t.Fatalf("rep=%+v err=%v", rep, err)
	}
	if started != 1 || r.Busy() {
		t.Fatalf("started=%d busy=%v", started, r.Busy())
	}
	if err := r.Start(job); err != nil {
		t.Fatalf("runner should accept a new job: %v", err)
	}
	r.Wait()
}

func TestRunnerRejectsInvalidJob(t *testing.T) {
	r := &generate.Runner{}
	s := settings.RacePreset()
	s.Bucket.NeededFragments = 99
	err := r.Start(generate.Job{Settings: s, InputPath: writeROM(t, vanillaROM())})
	if settings.CategoryOf(err) != settings.CategoryBuckets {
		t.Fatalf("want buckets error, got %v", err)
	}
	if r.Busy() {
		t.Fatalf("invalid job must not start")
	}
	select {
	case <-r.Done():
	default:
		t.Fatalf("Done should be closed before any job")
	}
}

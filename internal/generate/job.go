package generate

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xtding233/jetsoftime/internal/patch"
	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/romfile"
	"github.com/xtding233/jetsoftime/internal/settings"
)

// ErrDeclined is returned when the user declines to continue with an image
// that is not a vanilla ROM.
var ErrDeclined = errors.New("generation declined for non-vanilla ROM")

// Job is one generation request.
type Job struct {
	Settings  settings.Settings
	InputPath string
	OutputDir string // empty: next to the input

	Generator Generator       // nil: CosmeticGenerator{}
	Store     *settings.Store // nil: nothing is saved
	SeedRNG   roll.RandomSource

	// ConfirmNonVanilla is asked before using a non-vanilla image. nil
	// continues with a warning.
	ConfirmNonVanilla func() bool
}

// Report describes a finished job.
type Report struct {
	Seed        string `json:"seed"`
	FlagString  string `json:"flag_string"`
	ROMPath     string `json:"rom_path"`
	SpoilerPath string `json:"spoiler_path"`
	ScriptsDir  string `json:"scripts_dir,omitempty"`
	Vanilla     bool   `json:"vanilla"`
	HadHeader   bool   `json:"had_header"`
}

// Validate runs the checks that must pass before a job starts.
func (j Job) Validate() error {
	if err := settings.Validate(j.Settings); err != nil {
		return err
	}
	return settings.ValidatePaths(j.InputPath, j.OutputDir)
}

// Run loads the input, generates, writes the outputs and saves the record.
func (j Job) Run() (Report, error) {
	rom, err := romfile.Load(j.InputPath)
	if err != nil {
		return Report{}, fmt.Errorf("load %s: %w", j.InputPath, err)
	}
	if rom.HadHeader {
		log.Printf("header detected in %s; it will be removed from the output", rom.Name)
	}

	rep := Report{HadHeader: rom.HadHeader, Vanilla: romfile.IsVanilla(rom.Data)}
	if !rep.Vanilla {
		if j.ConfirmNonVanilla != nil && !j.ConfirmNonVanilla() {
			return rep, ErrDeclined
		}
		log.Printf("%s is not a vanilla Chrono Trigger ROM; randomization is likely to fail", rom.Name)
	}

	s := j.Settings.Clone()
	if s.Seed == "" {
		s.Seed = NewSeed(j.SeedRNG)
	}
	rep.Seed = s.Seed
	rep.FlagString = s.FlagString()

	gen := j.Generator
	if gen == nil {
		gen = CosmeticGenerator{Policy: patch.ContinueOnError}
	}
	res, err := gen.Generate(rom.Data, s)
	if err != nil {
		return rep, fmt.Errorf("generate: %w", err)
	}

	outDir := j.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(j.InputPath)
	}
	rep.ROMPath, rep.SpoilerPath = OutputNames(j.InputPath, outDir, rep.FlagString, rep.Seed)
	if err := os.WriteFile(rep.ROMPath, res.ROM, 0o644); err != nil {
		return rep, fmt.Errorf("write rom: %w", err)
	}
	if err := writeSpoiler(rep.SpoilerPath, res.Spoiler); err != nil {
		return rep, err
	}
	if len(res.Scripts) > 0 {
		rep.ScriptsDir = strings.TrimSuffix(rep.ROMPath, filepath.Ext(rep.ROMPath)) + ".scripts"
		if err := patch.SaveScriptDir(rep.ScriptsDir, res.Scripts); err != nil {
			return rep, fmt.Errorf("write scripts: %w", err)
		}
	}

	if j.Store != nil {
		rec := settings.Record{Settings: s, InputPath: j.InputPath, OutputDir: outDir}
		if err := j.Store.Save(rec); err != nil {
			// outputs are already written
			log.Printf("save settings: %v", err)
		}
	}
	return rep, nil
}

func writeSpoiler(path string, sw SpoilerWriter) error {
	if sw == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write spoiler: %w", err)
	}
	if err := sw.WriteSpoiler(f); err != nil {
		f.Close()
		return fmt.Errorf("write spoiler: %w", err)
	}
	return f.Close()
}

// Package generate turns a vanilla image and a configuration into an output
// image and spoiler log, and runs that work one job at a time.
package generate

import (
	"fmt"
	"io"
	"log"

	"github.com/xtding233/jetsoftime/internal/bossdata"
	"github.com/xtding233/jetsoftime/internal/mystery"
	"github.com/xtding233/jetsoftime/internal/patch"
	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/settings"
)

// SpoilerWriter renders the spoiler log of one generated seed.
type SpoilerWriter interface {
	WriteSpoiler(w io.Writer) error
}

// Result is a generated image and its spoiler log. Scripts holds the
// location scripts the patches changed, keyed by location.
type Result struct {
	ROM     []byte
	Spoiler SpoilerWriter
	Scripts map[bossdata.LocID]*patch.Script
}

// Generator produces a randomized image. rom is headerless and must not be
// modified; s has a non-empty seed.
type Generator interface {
	Generate(rom []byte, s settings.Settings) (Result, error)
}

// CosmeticGenerator applies the cosmetic patches only. Without Scripts the
// script-based patches are left out and listed in the spoiler log.
type CosmeticGenerator struct {
	Scripts patch.ScriptSource
	Policy  patch.Policy
}

func (g CosmeticGenerator) Generate(rom []byte, s settings.Settings) (Result, error) {
	requested := s
	if s.GameFlags.Has(settings.Mystery) {
		rolled, err := mystery.Roll(s, roll.NewSeededRNG(roll.SeedFromString(s.Seed)))
		if err != nil {
			return Result{}, fmt.Errorf("roll mystery settings: %w", err)
		}
		s = rolled
	} else {
		s = s.Resolve()
	}

	var ops, unavailable []patch.Operation
	for _, op := range patch.Operations() {
		if op.NeedsScripts && g.Scripts == nil {
			unavailable = append(unavailable, op)
			continue
		}
		ops = append(ops, op)
	}

	// Patches edit private copies so a shared table stays pristine.
	var copies *patch.ScriptCopies
	img := patch.NewImage(append([]byte(nil), rom...), nil)
	if g.Scripts != nil {
		copies = patch.NewScriptCopies(g.Scripts)
		img.Scripts = copies
	}
	outcomes, err := patch.Apply(img, s, g.Policy, ops...)
	for _, o := range outcomes {
		if o.Status == patch.Failed {
			log.Printf("patch %s failed: %v", o.Op, o.Err)
		}
	}
	if err != nil && g.Policy == patch.StopOnError {
		return Result{}, err
	}
	for _, op := range unavailable {
		outcomes = append(outcomes, patch.Outcome{
			Op: op.Name, Status: patch.NotRun, Err: patch.ErrNoScripts,
		})
	}

	res := Result{ROM: img.Data}
	if copies != nil {
		res.Scripts = copies.Changed()
	}
	res.Spoiler = &spoiler{
		requested: requested,
		final:     s,
		outcomes:  outcomes,
		scripts:   scriptLocations(res.Scripts),
	}
	return res, nil
}

package patch

import (
	"errors"
	"fmt"

	"github.com/xtding233/jetsoftime/internal/settings"
)

// Status of one operation after Apply.
type Status int

const (
	Applied Status = iota
	Skipped        // its flag was not set
	Failed
	NotRun // an earlier failure stopped the run
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "not run"
	}
}

// Policy decides what happens after an operation fails.
type Policy int

const (
	StopOnError Policy = iota
	ContinueOnError
)

// Operation is one named patch. Run reports whether it changed anything.
type Operation struct {
	Name         string
	NeedsScripts bool
	Run          func(*Image, settings.Settings) (bool, error)
}

// Outcome is the result of one operation.
type Outcome struct {
	Op     string
	Status Status
	Err    error
}

// Operations lists the cosmetic patches in the order Apply runs them.
func Operations() []Operation {
	return []Operation{
		{Name: "character names", NeedsScripts: true, Run: SetCharacterNames},
		{Name: "quiet mode", Run: QuietMode},
		{Name: "zenan bridge music", NeedsScripts: true, Run: ZenanBridgeMusic},
		{Name: "death peak music", NeedsScripts: true, Run: DeathPeakMusic},
	}
}

// Apply runs ops against img. Every operation gets an outcome. The returned
// error joins all failures and is nil when nothing failed.
func Apply(img *Image, s settings.Settings, policy Policy, ops ...Operation) ([]Outcome, error) {
	if len(ops) == 0 {
		ops = Operations()
	}
	outcomes := make([]Outcome, 0, len(ops))
	var errs []error
	stopped := false
	for _, op := range ops {
		if stopped {
			outcomes = append(outcomes, Outcome{Op: op.Name, Status: NotRun})
			continue
		}
		applied, err := op.Run(img, s)
		switch {
		case err != nil:
			outcomes = append(outcomes, Outcome{Op: op.Name, Status: Failed, Err: err})
			errs = append(errs, fmt.Errorf("%s: %w", op.Name, err))
			stopped = policy == StopOnError
		case applied:
			outcomes = append(outcomes, Outcome{Op: op.Name, Status: Applied})
		default:
			outcomes = append(outcomes, Outcome{Op: op.Name, Status: Skipped})
		}
	}
	return outcomes, errors.Join(errs...)
}

package patch

import (
	"fmt"

	"github.com/xtding233/jetsoftime/internal/bossdata"
)

// PatternError means an expected command was not found where an operation
// needed to change it. The image is left as it was for that operation.
type PatternError struct {
	Op       string
	Location bossdata.LocID
	Pattern  []byte
	Start    int
	End      int
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern % X not found in %s script [0x%X,0x%X)",
		e.Pattern, e.Location, e.Start, e.End)
}

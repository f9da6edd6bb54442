package generate

import (
	"path/filepath"
	"strings"

	"github.com/xtding233/jetsoftime/internal/roll"
)

// seedNames are joined in pairs to make a seed when none is given.
var seedNames = []string{
	"Crono", "Marle", "Lucca", "Robo", "Frog", "Ayla", "Magus", "Epoch",
	"Lavos", "Schala", "Janus", "Zeal", "Dalton", "Ozzie", "Flea", "Slash",
	"Azala", "Kino", "Melchior", "Gaspar", "Spekkio", "Toma", "Cyrus",
	"Glenn", "Belthasar", "Doan", "Taban", "Lara", "Leene", "Guardia",
	"Nadia", "Truce", "Medina", "Porre", "Dorino", "Choras", "Ioka",
	"Laruba", "Enhasa", "Kajar", "Algetty", "Zenan", "Arris", "Proto",
	"Mune", "Masa", "Gato", "Norstein", "Johnny", "Fritz",
}

// NewSeed builds a seed from two random names.
func NewSeed(rng roll.RandomSource) string {
	if rng == nil {
		rng = roll.DefaultRNG()
	}
	var b strings.Builder
	for i := 0; i < 2; i++ {
		j := int(rng.Float64() * float64(len(seedNames)))
		if j >= len(seedNames) {
			j = len(seedNames) - 1
		}
		b.WriteString(seedNames[j])
	}
	return b.String()
}

// OutputNames returns the ROM and spoiler paths for a run:
// <dir>/<base>.<flags>.<seed>.sfc and <dir>/<base>.<flags>.<seed>.spoilers.txt,
// where base is the input file name up to its first dot. An empty outputDir
// means the input's directory.
func OutputNames(inputPath, outputDir, flagString, seed string) (romPath, spoilerPath string) {
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	base := filepath.Base(inputPath)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	stem := base + "." + flagString + "." + seed
	return filepath.Join(outputDir, stem+".sfc"), filepath.Join(outputDir, stem+".spoilers.txt")
}

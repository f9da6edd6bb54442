package patch

import (
	"errors"
	"fmt"

	"github.com/xtding233/jetsoftime/internal/bossdata"
	"github.com/xtding233/jetsoftime/internal/settings"
)

// NameLength is the number of encoded characters in a character name.
const NameLength = 5

var ErrBadNameChar = errors.New("character not available in names")

// load-screen memcpy of the name block to 0x7E2C32, 0x32 bytes long
var nameCopyCmd = []byte{0x4E, 0x23, 0x2C, 0x7E, 0x32, 0x00}

// EncodeName converts name to the game's text encoding, truncated to
// NameLength and padded with zeros.
func EncodeName(name string) ([]byte, error) {
	out := make([]byte, NameLength)
	i := 0
	for _, r := range name {
		if i == NameLength {
			break
		}
		var b byte
		switch {
		case r >= 'A' && r <= 'Z':
			b = 0xA0 + byte(r-'A')
		case r >= 'a' && r <= 'z':
			b = 0xBA + byte(r-'a')
		case r >= '0' && r <= '9':
			b = 0xD4 + byte(r-'0')
		case r == ' ':
			b = 0xEF
		default:
			return nil, fmt.Errorf("%w: %q in %q", ErrBadNameChar, r, name)
		}
		out[i] = b
		i++
	}
	return out, nil
}

// SetCharacterNames writes the eight names (seven characters and the Epoch)
// into the load-screen script. Empty names use the defaults.
func SetCharacterNames(img *Image, s settings.Settings) (bool, error) {
	block := make([]byte, 0, len(s.CharNames)*(NameLength+1))
	for i := range s.CharNames {
		enc, err := EncodeName(s.CharName(i))
		if err != nil {
			return false, err
		}
		block = append(block, enc...)
		block = append(block, 0)
	}

	script, err := img.Script(bossdata.LoadScreen)
	if err != nil {
		return false, err
	}
	pos, ok := script.FindExact(nameCopyCmd, 0, len(script.Data))
	if !ok || pos+len(nameCopyCmd)+len(block) > len(script.Data) {
		return false, &PatternError{
			Op: "character names", Location: bossdata.LoadScreen,
			Pattern: nameCopyCmd, Start: 0, End: len(script.Data),
		}
	}
	copy(script.Data[pos+len(nameCopyCmd):], block)
	return true, nil
}

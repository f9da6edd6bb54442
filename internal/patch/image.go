// Package patch edits a ROM image in memory: cosmetic changes that touch
// music, volumes and character names without altering gameplay.
package patch

import (
	"errors"
	"fmt"

	"github.com/xtding233/jetsoftime/internal/bossdata"
)

var (
	ErrOutOfRange = errors.New("address out of range")
	ErrNoScripts  = errors.New("no event scripts available")
)

// Image is a headerless ROM plus access to its decoded event scripts.
// Scripts may be nil; operations that need a script then fail.
type Image struct {
	Data    []byte
	Scripts ScriptSource
}

// NewImage wraps rom. The slice is modified in place by patch operations.
func NewImage(rom []byte, scripts ScriptSource) *Image {
	return &Image{Data: rom, Scripts: scripts}
}

func (img *Image) check(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > len(img.Data) {
		return fmt.Errorf("%w: [0x%06X,0x%06X) in %d byte image", ErrOutOfRange, addr, addr+n, len(img.Data))
	}
	return nil
}

// ReadAt returns a copy of n bytes at addr.
func (img *Image) ReadAt(addr, n int) ([]byte, error) {
	if err := img.check(addr, n); err != nil {
		return nil, err
	}
	return append([]byte(nil), img.Data[addr:addr+n]...), nil
}

// WriteAt copies b to addr.
func (img *Image) WriteAt(addr int, b []byte) error {
	if err := img.check(addr, len(b)); err != nil {
		return err
	}
	copy(img.Data[addr:], b)
	return nil
}

// Script returns the decoded event script of loc.
func (img *Image) Script(loc bossdata.LocID) (*Script, error) {
	if img.Scripts == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoScripts, loc)
	}
	return img.Scripts.Script(loc)
}

package patch

import (
	"fmt"

	"github.com/xtding233/jetsoftime/internal/bossdata"
)

// Location records are fixed size and indexed by LocID.
const (
	LocationTableAddr  = 0x360000
	LocationRecordSize = 14
)

// Location is one location record. Only the music byte is interpreted;
// the rest is carried through unchanged.
type Location struct {
	raw [LocationRecordSize]byte
}

func (l Location) Music() byte { return l.raw[0] }

func (l *Location) SetMusic(id byte) { l.raw[0] = id }

// Bytes returns the encoded record.
func (l Location) Bytes() []byte { return append([]byte(nil), l.raw[:]...) }

func locationAddr(loc bossdata.LocID) (int, error) {
	if !loc.Valid() {
		return 0, fmt.Errorf("%w: location 0x%03X", bossdata.ErrUnknownLocation, int(loc))
	}
	return LocationTableAddr + LocationRecordSize*int(loc), nil
}

// ReadLocation decodes the record of loc.
func ReadLocation(img *Image, loc bossdata.LocID) (Location, error) {
	addr, err := locationAddr(loc)
	if err != nil {
		return Location{}, err
	}
	b, err := img.ReadAt(addr, LocationRecordSize)
	if err != nil {
		return Location{}, err
	}
	var l Location
	copy(l.raw[:], b)
	return l, nil
}

// WriteLocation stores the record of loc.
func WriteLocation(img *Image, loc bossdata.LocID, l Location) error {
	addr, err := locationAddr(loc)
	if err != nil {
		return err
	}
	return img.WriteAt(addr, l.raw[:])
}

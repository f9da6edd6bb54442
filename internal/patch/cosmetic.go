package patch

import (
	"github.com/xtding233/jetsoftime/internal/bossdata"
	"github.com/xtding233/jetsoftime/internal/settings"
)

// Music volume table: one 16-bit volume per song.
const (
	musicVolumeAddr = 0x07241D
	numSongs        = 0x53
)

const (
	opPlaySong = 0xEA

	songAltBattle    = 0x51
	songSingingMtn   = 0x52
	songSilentLight  = 0x3C
	zenanSongObject  = 0x15
	zenanSongFunc    = 3
	guardianObject   = 0x08
	guardianSongFunc = 1
)

var deathPeakMaps = []bossdata.LocID{
	bossdata.DeathPeakCave,
	bossdata.DeathPeakGuardianSpawn,
	bossdata.DeathPeakLowerNorthFace,
	bossdata.DeathPeakNortheastFace,
	bossdata.DeathPeakNorthwestFace,
	bossdata.DeathPeakSouthFace,
	bossdata.DeathPeakSoutheastFace,
	bossdata.DeathPeakSummit,
	bossdata.DeathPeakUpperNorthFace,
}

// QuietMode sets the volume of every song to zero.
func QuietMode(img *Image, s settings.Settings) (bool, error) {
	if !s.CosmeticFlags.Has(settings.QuietMode) {
		return false, nil
	}
	if err := img.WriteAt(musicVolumeAddr, make([]byte, 2*numSongs)); err != nil {
		return false, err
	}
	return true, nil
}

// ZenanBridgeMusic plays the unused alternate battle theme on Zenan Bridge.
func ZenanBridgeMusic(img *Image, s settings.Settings) (bool, error) {
	if !s.CosmeticFlags.Has(settings.ZenanAltMusic) {
		return false, nil
	}
	script, err := img.Script(bossdata.ZenanBridge)
	if err != nil {
		return false, err
	}
	sp, err := script.FunctionSpan(zenanSongObject, zenanSongFunc)
	if err != nil {
		return false, err
	}
	// only one play-song command in that function
	pos, ok := script.FindCommand([]byte{opPlaySong}, sp.Start, sp.End)
	if !ok || pos+1 >= len(script.Data) {
		return false, &PatternError{
			Op: "zenan bridge music", Location: bossdata.ZenanBridge,
			Pattern: []byte{opPlaySong}, Start: sp.Start, End: sp.End,
		}
	}
	script.Data[pos+1] = songAltBattle
	return true, nil
}

// DeathPeakMusic switches the Death Peak maps to the Singing Mountain theme
// and replaces the "Silent Light" cue at the Guardian spawn.
func DeathPeakMusic(img *Image, s settings.Settings) (bool, error) {
	if !s.CosmeticFlags.Has(settings.DeathPeakAltMusic) {
		return false, nil
	}

	// find everything before writing anything
	script, err := img.Script(bossdata.DeathPeakGuardianSpawn)
	if err != nil {
		return false, err
	}
	sp, err := script.FunctionSpan(guardianObject, guardianSongFunc)
	if err != nil {
		return false, err
	}
	cmd := []byte{opPlaySong, songSilentLight}
	pos, ok := script.FindExact(cmd, sp.Start, sp.End)
	if !ok {
		return false, &PatternError{
			Op: "death peak music", Location: bossdata.DeathPeakGuardianSpawn,
			Pattern: cmd, Start: sp.Start, End: sp.End,
		}
	}
	locs := make([]Location, len(deathPeakMaps))
	for i, loc := range deathPeakMaps {
		if locs[i], err = ReadLocation(img, loc); err != nil {
			return false, err
		}
	}

	for i, loc := range deathPeakMaps {
		locs[i].SetMusic(songSingingMtn)
		if err := WriteLocation(img, loc, locs[i]); err != nil {
			return false, err
		}
	}
	script.Data[pos+1] = songSingingMtn
	return true, nil
}

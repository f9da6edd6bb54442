// Package romfile reads the input ROM image, either a plain .sfc/.smc file or
// the first such file inside a zip, 7z, gzip, tar.gz or rar archive.
package romfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extensions accepted for the ROM itself, inside or outside an archive.
var Extensions = []string{".sfc", ".smc"}

// MaxSize caps how much is read from any single entry.
const MaxSize = 8 * 1024 * 1024

var (
	ErrNoROM       = errors.New("no ROM file found in archive")
	ErrUnsupported = errors.New("unsupported file format")
	ErrTooLarge    = errors.New("file exceeds maximum size limit")
)

type format int

const (
	formatUnknown format = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

var magics = []struct {
	prefix []byte
	format format
}{
	{[]byte{0x50, 0x4B, 0x03, 0x04}, formatZIP},
	{[]byte{0x50, 0x4B, 0x05, 0x06}, formatZIP}, // empty zip
	{[]byte{0x52, 0x61, 0x72, 0x21}, formatRAR}, // "Rar!"
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, format7z},
	{[]byte{0x1F, 0x8B}, formatGzip},
}

var byExtension = map[string]format{
	".zip": formatZIP,
	".7z":  format7z,
	".gz":  formatGzip,
	".tgz": formatGzip,
	".rar": formatRAR,
}

// extractor returns the ROM bytes and the entry's base name.
type extractor func(path string) ([]byte, string, error)

var extractors = map[format]extractor{
	formatRaw:  readRaw,
	formatZIP:  fromZIP,
	format7z:   from7z,
	formatGzip: fromGzip,
	formatRAR:  fromRAR,
}

// ROM is a loaded, headerless image.
type ROM struct {
	Name      string // base name of the file or archive entry
	Data      []byte
	HadHeader bool
}

// Load reads path, extracting from an archive when needed, and strips any
// copier header.
func Load(path string) (ROM, error) {
	data, name, err := Read(path)
	if err != nil {
		return ROM{}, err
	}
	stripped, had := StripHeader(data)
	return ROM{Name: name, Data: stripped, HadHeader: had}, nil
}

// Read returns the raw bytes of the ROM at path and its base name.
func Read(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	f.Close()
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}

	ext, ok := extractors[detect(header[:n], path)]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return ext(path)
}

// detect prefers magic bytes and falls back to the file name.
func detect(header []byte, path string) format {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.prefix) {
			return m.format
		}
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") {
		return formatGzip
	}
	ext := filepath.Ext(lower)
	if f, ok := byExtension[ext]; ok {
		return f
	}
	if isROMName(lower) {
		return formatRaw
	}
	return formatUnknown
}

func isROMName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

func readRaw(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	data, err := limitedRead(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read ROM: %w", err)
	}
	return data, filepath.Base(path), nil
}

// SNES layout constants.
const (
	CopierHeaderSize = 0x200
	bankSize         = 0x400
	VanillaSize      = 0x400000
	titleAddr        = 0xFFC0
	VanillaTitle     = "CHRONO TRIGGER"
)

// StripHeader drops a 512 byte copier header, detected by the image size
// being 0x200 past a bank boundary. The returned slice shares rom's storage.
func StripHeader(rom []byte) ([]byte, bool) {
	if len(rom)%bankSize == CopierHeaderSize {
		return rom[CopierHeaderSize:], true
	}
	return rom, false
}

// IsVanilla reports whether a headerless image looks like an unmodified
// North American release: the right size and the internal title.
func IsVanilla(rom []byte) bool {
	if len(rom) != VanillaSize {
		return false
	}
	title := rom[titleAddr : titleAddr+len(VanillaTitle)]
	return string(title) == VanillaTitle
}

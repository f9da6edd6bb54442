package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appDirName   = "JetsOfTime"
	dotDirName   = ".JetsOfTime"
	settingsFile = "flags.yaml"
)

// Record is what gets persisted between runs.
type Record struct {
	Settings  Settings `yaml:"settings"`
	InputPath string   `yaml:"input_path"`
	OutputDir string   `yaml:"output_dir"`
}

// LoadStatus says where a loaded record came from.
type LoadStatus int

const (
	Loaded         LoadStatus = iota // read from disk
	LoadedDefaults                   // no file yet, new-player preset
	FellBack                         // file unreadable, race preset
)

func (s LoadStatus) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case LoadedDefaults:
		return "defaults"
	default:
		return "fell back"
	}
}

// SettingsDir returns the per-user settings directory:
// %APPDATA%/JetsOfTime on Windows, ~/.JetsOfTime elsewhere.
func SettingsDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dotDirName), nil
}

// DefaultStorePath is SettingsDir()/flags.yaml.
func DefaultStorePath() (string, error) {
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

// Store reads and writes a Record as YAML.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load reads the record. It always returns a usable record: a missing file
// yields the new-player preset and an undecodable one the race preset. In the
// fallback case the returned error explains what was wrong with the file and
// is meant as a notice to the user, not a failure.
func (s *Store) Load() (Record, LoadStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{Settings: NewPlayerPreset()}, LoadedDefaults, nil
	}
	if err != nil {
		return Record{Settings: RacePreset()}, FellBack, fmt.Errorf("read %s: %w", s.path, err)
	}

	// absent fields keep their defaults
	rec := Record{Settings: Default()}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{Settings: RacePreset()}, FellBack, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return rec, Loaded, nil
}

// Save writes rec to a temporary file and renames it over the target.
func (s *Store) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, settingsFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

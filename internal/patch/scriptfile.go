package patch

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xtding233/jetsoftime/internal/bossdata"
	"gopkg.in/yaml.v3"
)

// scriptFile is the on-disk form of one decoded script.
type scriptFile struct {
	Location  bossdata.LocID `yaml:"location"`
	Data      string         `yaml:"data"` // hex, whitespace ignored
	Functions []scriptFunc   `yaml:"functions"`
	Commands  []int          `yaml:"commands,omitempty"`
}

type scriptFunc struct {
	Object   int `yaml:"object"`
	Function int `yaml:"function"`
	Start    int `yaml:"start"`
	End      int `yaml:"end"`
}

// LoadScriptDir reads every *.yaml file in dir as one decoded script.
func LoadScriptDir(dir string) (*ScriptTable, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	table := NewScriptTable()
	for _, p := range paths {
		loc, s, err := readScriptFile(p)
		if err != nil {
			return nil, err
		}
		table.Put(loc, s)
	}
	return table, nil
}

func readScriptFile(path string) (bossdata.LocID, *Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	var f scriptFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return 0, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	data, err := hex.DecodeString(strings.Join(strings.Fields(f.Data), ""))
	if err != nil {
		return 0, nil, fmt.Errorf("decode %s: data: %w", path, err)
	}
	s := &Script{Data: data, Functions: make(map[FuncRef]Span, len(f.Functions))}
	for _, fn := range f.Functions {
		s.Functions[FuncRef{Object: fn.Object, Function: fn.Function}] = Span{Start: fn.Start, End: fn.End}
	}
	if len(f.Commands) > 0 {
		s.Commands = append([]int(nil), f.Commands...)
		sort.Ints(s.Commands)
		if first, last := s.Commands[0], s.Commands[len(s.Commands)-1]; first < 0 || last >= len(data) {
			return 0, nil, fmt.Errorf("decode %s: command offset outside %d byte script", path, len(data))
		}
	}
	return f.Location, s, nil
}

// SaveScriptDir writes each script to dir as <location id>.yaml, in the form
// LoadScriptDir reads.
func SaveScriptDir(dir string, scripts map[bossdata.LocID]*Script) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for loc, s := range scripts {
		f := scriptFile{
			Location: loc,
			Data:     strings.ToUpper(hex.EncodeToString(s.Data)),
			Commands: s.Commands,
		}
		for ref, sp := range s.Functions {
			f.Functions = append(f.Functions, scriptFunc{
				Object: ref.Object, Function: ref.Function, Start: sp.Start, End: sp.End,
			})
		}
		sort.Slice(f.Functions, func(i, j int) bool {
			a, b := f.Functions[i], f.Functions[j]
			if a.Object != b.Object {
				return a.Object < b.Object
			}
			return a.Function < b.Function
		})
		out, err := yaml.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode %s script: %w", loc, err)
		}
		name := filepath.Join(dir, fmt.Sprintf("%03X.yaml", int(loc)))
		if err := os.WriteFile(name, out, 0o644); err != nil {
			return err
		}
	}
	return nil
}

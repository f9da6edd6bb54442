package patch_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xtding233/jetsoftime/internal/bossdata"
	"github.com/xtding233/jetsoftime/internal/patch"
)

const zenanScript = `location: Zenan bridge
data: |
  EA 11 00 01
  EA 10 02
functions:
  - {object: 0x15, function: 3, start: 2, end: 7}
`

func TestLoadScriptDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "zenan.yaml"), []byte(zenanScript), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := patch.LoadScriptDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	s, err := table.Script(bossdata.ZenanBridge)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Data) != 7 || s.Data[4] != 0xEA {
		t.Fatalf("data = % X", s.Data)
	}
	span, err := s.FunctionSpan(0x15, 3)
	if err != nil || span != (patch.Span{Start: 2, End: 7}) {
		t.Fatalf("span = %+v, %v", span, err)
	}
}

func TestLoadScriptDirBadHex(t *testing.T) {
	dir := t.TempDir()
	bad := "location: Zenan bridge\ndata: EG\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := patch.LoadScriptDir(dir); err == nil {
		t.Fatalf("bad hex must fail")
	}
}

func TestSaveScriptDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	want := &patch.Script{
		Data: []byte{0x00, 0xEA, 0x52, 0x00},
		Functions: map[patch.FuncRef]patch.Span{
			{Object: 0x08, Function: 1}: {Start: 0, End: 4},
			{Object: 0x01, Function: 0}: {Start: 0, End: 1},
		},
		Commands: []int{0, 1, 3},
	}
	err := patch.SaveScriptDir(dir, map[bossdata.LocID]*patch.Script{bossdata.DeathPeakGuardianSpawn: want})
	if err != nil {
		t.Fatal(err)
	}
	table, err := patch.LoadScriptDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := table.Script(bossdata.DeathPeakGuardianSpawn)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Data, want.Data) || len(got.Functions) != 2 || len(got.Commands) != 3 {
		t.Fatalf("reloaded script = %+v", got)
	}
	if pos, ok := got.FindCommand([]byte{0x52}, 0, 4); ok {
		t.Fatalf("operand matched as command at %d", pos)
	}
}

func TestLoadScriptDirBadCommands(t *testing.T) {
	dir := t.TempDir()
	bad := "location: Zenan bridge\ndata: EA 11\ncommands: [0, 2]\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := patch.LoadScriptDir(dir); err == nil {
		t.Fatalf("command offset past the data must fail")
	}
}

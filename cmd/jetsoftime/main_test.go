package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xtding233/jetsoftime/internal/romfile"
)

func setup(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flags.yaml")
	t.Setenv("JETSOFTIME_SETTINGS_FILE", path)
	t.Setenv("JETSOFTIME_OUTPUT_DIR", "")
	t.Setenv("JETSOFTIME_SCRIPTS_DIR", "")
	return path
}

func TestRunUsage(t *testing.T) {
	if err := run(nil, nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("want usage error, got %v", err)
	}
	if err := run([]string{"fly"}, nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("want usage error, got %v", err)
	}
}

func TestPresetThenFlagString(t *testing.T) {
	path := setup(t)
	var out bytes.Buffer
	if err := run([]string{"preset"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "race") {
		t.Fatalf("preset list = %q", out.String())
	}

	out.Reset()
	if err := run([]string{"preset", "-preset", "lost-worlds"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("preset not saved: %v", err)
	}

	out.Reset()
	if err := run([]string{"flagstring"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "lw.ngzte" {
		t.Fatalf("flag string = %q", got)
	}
}

func TestValidateCommand(t *testing.T) {
	setup(t)
	var out bytes.Buffer
	if err := run([]string{"validate", "-preset", "race"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "ok: ") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestMysteryCommand(t *testing.T) {
	setup(t)
	var out bytes.Buffer
	if err := run([]string{"mystery", "-trials", "25"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	var rep struct {
		Trials int `json:"trials"`
	}
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil || rep.Trials != 25 {
		t.Fatalf("report = %s", out.String())
	}
	if err := run([]string{"mystery", "-trials", "0"}, nil, &out); err == nil {
		t.Fatalf("zero trials must fail")
	}
}

func TestGenerateCommand(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "ct.sfc")
	if err := os.WriteFile(input, make([]byte, 0x8000), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := run([]string{"generate", "-preset", "race", "-in", input}, strings.NewReader("n\n"), &out)
	if err == nil || !strings.Contains(out.String(), "Continue?") {
		t.Fatalf("non-vanilla input should be declined: %v %q", err, out.String())
	}

	rom := bytes.Repeat([]byte{0xFF}, romfile.VanillaSize)
	copy(rom[0xFFC0:], romfile.VanillaTitle)
	if err := os.WriteFile(input, rom, 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run([]string{"generate", "-preset", "race", "-in", input, "-seed", "CronoFrog"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "ct.st.ngzpte.CronoFrog.sfc")
	if !strings.Contains(out.String(), want) {
		t.Fatalf("output = %q", out.String())
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("rom not written: %v", err)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xtding233/jetsoftime/internal/generate"
	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/romfile"
	"github.com/xtding233/jetsoftime/internal/settings"
)

func newTestApp(t *testing.T) (*app, *settings.Store) {
	t.Helper()
	store := settings.NewStore(filepath.Join(t.TempDir(), "flags.yaml"))
	a := newApp(store, settings.Record{Settings: settings.RacePreset()}, nil, 20, 500)
	a.newRNG = func() roll.RandomSource { return roll.NewSeededRNG(5) }
	return a, store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFlagStringAndPresets(t *testing.T) {
	a, store := newTestApp(t)
	h := a.routes()

	rec := do(t, h, http.MethodGet, "/flagstring", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "st.ngzpte") {
		t.Fatalf("flagstring: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/preset?name=hard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("preset: %d %s", rec.Code, rec.Body.String())
	}
	if got := a.current().Settings.FlagString(); got != "st.hgbctex" {
		t.Fatalf("current flag string = %q", got)
	}
	saved, status, err := store.Load()
	if err != nil || status != settings.Loaded || saved.Settings.FlagString() != "st.hgbctex" {
		t.Fatalf("preset not saved: %v %v", status, err)
	}

	rec = do(t, h, http.MethodPost, "/preset?name=nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown preset: %d", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	a, _ := newTestApp(t)
	h := a.routes()

	rec := do(t, h, http.MethodPost, "/validate", "")
	var resp validateResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Valid {
		t.Fatalf("current settings should validate: %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/validate", `{"bucket_settings": {"num_fragments": 5, "needed_fragments": 9}}`)
	resp = validateResp{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Valid || resp.Category != string(settings.CategoryBuckets) {
		t.Fatalf("unexpected response %+v", resp)
	}

	rec = do(t, h, http.MethodPost, "/validate", `{"mode": "Moon"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown mode: %d", rec.Code)
	}
}

func TestPutSettings(t *testing.T) {
	a, _ := newTestApp(t)
	h := a.routes()

	rec := do(t, h, http.MethodPut, "/settings", `{"settings": {"mode": "Lost worlds"}, "input_path": "ct.sfc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: %d %s", rec.Code, rec.Body.String())
	}
	cur := a.current()
	if cur.Settings.GameMode != settings.ModeLostWorlds || cur.InputPath != "ct.sfc" {
		t.Fatalf("record = %+v", cur)
	}
	if cur.Settings.CharNames != settings.DefaultCharNames {
		t.Fatalf("omitted fields should keep defaults")
	}
}

func TestPreviewEndpoint(t *testing.T) {
	a, _ := newTestApp(t)
	h := a.routes()

	rec := do(t, h, http.MethodPost, "/mystery/preview?trials=30", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: %d %s", rec.Code, rec.Body.String())
	}
	var rep struct {
		Trials int `json:"trials"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil || rep.Trials != 30 {
		t.Fatalf("report = %s", rec.Body.String())
	}
	for _, q := range []string{"x", "0", "501"} {
		if rec := do(t, h, http.MethodPost, "/mystery/preview?trials="+q, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("trials=%s: %d", q, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodPost, "/mystery/preview?trials=500", ""); rec.Code != http.StatusOK {
		t.Fatalf("trials at the cap: %d %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateEndpoint(t *testing.T) {
	a, _ := newTestApp(t)
	h := a.routes()

	rec := do(t, h, http.MethodPost, "/generate", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing input should fail validation: %d", rec.Code)
	}

	rom := bytes.Repeat([]byte{0xFF}, romfile.VanillaSize)
	copy(rom[0xFFC0:], romfile.VanillaTitle)
	input := filepath.Join(t.TempDir(), "ct.sfc")
	if err := os.WriteFile(input, rom, 0o644); err != nil {
		t.Fatal(err)
	}
	a.mu.Lock()
	a.rec.InputPath = input
	a.mu.Unlock()

	rec = do(t, h, http.MethodPost, "/generate", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("generate: %d %s", rec.Code, rec.Body.String())
	}
	select {
	case <-a.runner.Done():
	case <-time.After(10 * time.Second):
		t.Fatalf("generation did not finish")
	}

	rec = do(t, h, http.MethodGet, "/status", "")
	var st struct {
		Busy   bool             `json:"busy"`
		Report *generate.Report `json:"report"`
		Err    string           `json:"err"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Busy || st.Err != "" || st.Report == nil || st.Report.Seed == "" {
		t.Fatalf("status = %s", rec.Body.String())
	}
	if _, err := os.Stat(st.Report.ROMPath); err != nil {
		t.Fatalf("rom not written: %v", err)
	}
}

func TestStatelessEndpoints(t *testing.T) {
	a, _ := newTestApp(t)
	h := a.routes()

	rec := do(t, h, http.MethodGet, "/presets?name=lost-worlds", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"flag_string":"lw.ngzte"`) {
		t.Fatalf("preset: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/flagstring", `{"mode": "Lost worlds", "flags": ["ZEAL_END"]}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"lw.`) {
		t.Fatalf("flagstring: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/resolve", `{"mode": "Lost worlds"}`)
	var resolved recordResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resolved); err != nil {
		t.Fatal(err)
	}
	want := settings.Resolve(settings.ModeLostWorlds, 0)
	if resolved.Settings.GameFlags != want {
		t.Fatalf("resolved flags = %v, want %v", resolved.Settings.GameFlags, want)
	}

	body := `{"flags": ["MYSTERY"]}`
	first := do(t, h, http.MethodPost, "/mystery/roll?seed=MarleAyla", body)
	second := do(t, h, http.MethodPost, "/mystery/roll?seed=MarleAyla", body)
	if first.Code != http.StatusOK || first.Body.String() != second.Body.String() {
		t.Fatalf("seeded rolls differ:\n%s\n%s", first.Body.String(), second.Body.String())
	}
	if strings.Contains(first.Body.String(), `"MYSTERY"`) {
		t.Fatalf("rolled settings still carry the mystery flag: %s", first.Body.String())
	}
}

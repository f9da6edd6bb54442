package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/xtding233/jetsoftime/internal/generate"
	"github.com/xtding233/jetsoftime/internal/mystery"
	"github.com/xtding233/jetsoftime/internal/patch"
	"github.com/xtding233/jetsoftime/internal/roll"
	"github.com/xtding233/jetsoftime/internal/settings"
)

type recordBody struct {
	Settings  *json.RawMessage `json:"settings"`
	InputPath string           `json:"input_path"`
	OutputDir string           `json:"output_dir"`
}

type recordResp struct {
	Settings   settings.Settings `json:"settings"`
	InputPath  string            `json:"input_path"`
	OutputDir  string            `json:"output_dir"`
	FlagString string            `json:"flag_string"`
}

type validateResp struct {
	Valid    bool     `json:"valid"`
	Category string   `json:"category,omitempty"`
	Message  string   `json:"message,omitempty"`
	Items    []string `json:"items,omitempty"`
}

type statusResp struct {
	Busy   bool             `json:"busy"`
	Report *generate.Report `json:"report,omitempty"`
	Err    string           `json:"err,omitempty"`
}

// app holds the current record shared by every handler.
type app struct {
	mu     sync.Mutex
	rec    settings.Record
	store  *settings.Store
	runner *generate.Runner

	scripts   patch.ScriptSource
	trials    int
	maxTrials int
	newRNG    func() roll.RandomSource

	last    *generate.Report
	lastErr error
}

func newApp(store *settings.Store, rec settings.Record, scripts patch.ScriptSource, trials, maxTrials int) *app {
	a := &app{rec: rec, store: store, scripts: scripts, trials: trials, maxTrials: maxTrials}
	a.runner = &generate.Runner{
		OnStart: func(job generate.Job) {
			log.Printf("generating %s from %s", job.Settings.FlagString(), job.InputPath)
		},
		OnFinish: a.finished,
	}
	return a
}

func (a *app) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /settings", a.handleGetSettings)
	mux.HandleFunc("PUT /settings", a.handlePutSettings)
	mux.HandleFunc("POST /validate", a.handleValidate)
	mux.HandleFunc("GET /flagstring", a.handleFlagString)
	mux.HandleFunc("POST /flagstring", a.handleFlagString)
	mux.HandleFunc("POST /resolve", a.handleResolve)
	mux.HandleFunc("GET /presets", a.handlePresets)
	mux.HandleFunc("POST /preset", a.handleApplyPreset)
	mux.HandleFunc("POST /mystery/roll", a.handleMysteryRoll)
	mux.HandleFunc("POST /mystery/preview", a.handlePreview)
	mux.HandleFunc("POST /generate", a.handleGenerate)
	mux.HandleFunc("GET /status", a.handleStatus)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func toValidateResp(err error) validateResp {
	if err == nil {
		return validateResp{Valid: true}
	}
	var ve *settings.ValidationError
	if errors.As(err, &ve) {
		return validateResp{Category: string(ve.Category), Message: ve.Message, Items: ve.Items}
	}
	return validateResp{Message: err.Error()}
}

// reload replaces the current record unless a generation is running.
func (a *app) reload(rec settings.Record, status settings.LoadStatus, err error) {
	if err != nil {
		log.Printf("settings file: %v", err)
	}
	if a.runner.Busy() {
		log.Printf("settings file changed during generation; ignoring")
		return
	}
	a.mu.Lock()
	a.rec = rec
	a.mu.Unlock()
	log.Printf("settings reloaded (%s): %s", status, rec.Settings.FlagString())
}

func (a *app) finished(rep generate.Report, err error) {
	if err != nil {
		log.Printf("generation failed: %v", err)
	} else {
		log.Printf("wrote %s and %s", rep.ROMPath, rep.SpoilerPath)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last, a.lastErr = &rep, err
	if err == nil {
		a.rec.Settings.Seed = rep.Seed
	}
}

func (a *app) current() settings.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec := a.rec
	rec.Settings = rec.Settings.Clone()
	return rec
}

func respForRecord(rec settings.Record) recordResp {
	return recordResp{
		Settings:   rec.Settings,
		InputPath:  rec.InputPath,
		OutputDir:  rec.OutputDir,
		FlagString: rec.Settings.FlagString(),
	}
}

func (a *app) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, respForRecord(a.current()))
}

// decodeSettings reads a settings document onto the defaults.
func decodeSettings(raw json.RawMessage) (settings.Settings, error) {
	s := settings.Default()
	if err := json.Unmarshal(raw, &s); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

func (a *app) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	if a.runner.Busy() {
		http.Error(w, generate.ErrBusy.Error(), http.StatusConflict)
		return
	}
	var body recordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	rec := a.current()
	if body.Settings != nil {
		s, err := decodeSettings(*body.Settings)
		if err != nil {
			http.Error(w, "invalid settings: "+err.Error(), http.StatusBadRequest)
			return
		}
		rec.Settings = s
	}
	rec.InputPath = body.InputPath
	rec.OutputDir = body.OutputDir
	if err := settings.ValidateOptions(rec.Settings); err != nil {
		writeJSON(w, http.StatusBadRequest, toValidateResp(err))
		return
	}
	a.save(rec)
	writeJSON(w, http.StatusOK, respForRecord(rec))
}

// save makes rec current and writes it out. A write failure is only logged.
func (a *app) save(rec settings.Record) {
	a.mu.Lock()
	a.rec = rec
	a.mu.Unlock()
	if a.store == nil {
		return
	}
	if err := a.store.Save(rec); err != nil {
		log.Printf("save settings: %v", err)
	}
}

// bodySettings decodes the posted settings, or returns the current ones when
// the body is empty.
func (a *app) bodySettings(r *http.Request) (settings.Settings, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return settings.Settings{}, err
	}
	if len(raw) == 0 {
		return a.current().Settings, nil
	}
	s, err := decodeSettings(raw)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// rngFor seeds from the seed query parameter when one is given.
func (a *app) rngFor(r *http.Request) roll.RandomSource {
	if seed := r.URL.Query().Get("seed"); seed != "" {
		return roll.NewSeededRNG(roll.SeedFromString(seed))
	}
	if a.newRNG != nil {
		return a.newRNG()
	}
	return nil
}

func (a *app) handleValidate(w http.ResponseWriter, r *http.Request) {
	s, err := a.bodySettings(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, toValidateResp(settings.Validate(s)))
}

func (a *app) handleFlagString(w http.ResponseWriter, r *http.Request) {
	s, err := a.bodySettings(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"flag_string": s.FlagString()})
}

func (a *app) handleResolve(w http.ResponseWriter, r *http.Request) {
	s, err := a.bodySettings(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, respForRecord(settings.Record{Settings: s.Resolve()}))
}

func (a *app) handleMysteryRoll(w http.ResponseWriter, r *http.Request) {
	s, err := a.bodySettings(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rolled, err := mystery.Roll(s, a.rngFor(r))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, toValidateResp(err))
		return
	}
	writeJSON(w, http.StatusOK, respForRecord(settings.Record{Settings: rolled}))
}

// handlePresets lists the preset names, or returns one preset with ?name=.
func (a *app) handlePresets(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusOK, map[string][]string{"presets": settings.PresetNames()})
		return
	}
	p, err := settings.Preset(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, respForRecord(settings.Record{Settings: p}))
}

// handleApplyPreset replaces the current settings with a preset. The seed and
// character names are kept.
func (a *app) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	if a.runner.Busy() {
		http.Error(w, generate.ErrBusy.Error(), http.StatusConflict)
		return
	}
	p, err := settings.Preset(r.URL.Query().Get("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	rec := a.current()
	p.Seed = rec.Settings.Seed
	p.CharNames = rec.Settings.CharNames
	rec.Settings = p
	a.save(rec)
	writeJSON(w, http.StatusOK, respForRecord(rec))
}

func (a *app) handlePreview(w http.ResponseWriter, r *http.Request) {
	trials := a.trials
	if s := r.URL.Query().Get("trials"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			http.Error(w, "invalid trials", http.StatusBadRequest)
			return
		}
		trials = v
	}
	if a.maxTrials > 0 && trials > a.maxTrials {
		http.Error(w, fmt.Sprintf("trials %d exceed the maximum %d", trials, a.maxTrials), http.StatusBadRequest)
		return
	}
	s, err := a.bodySettings(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rep, err := mystery.Preview(s, trials, a.rngFor(r))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, toValidateResp(err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *app) handleGenerate(w http.ResponseWriter, r *http.Request) {
	rec := a.current()
	job := generate.Job{
		Settings:  rec.Settings,
		InputPath: rec.InputPath,
		OutputDir: rec.OutputDir,
		Generator: generate.CosmeticGenerator{Scripts: a.scripts, Policy: patch.ContinueOnError},
		Store:     a.store,
	}
	err := a.runner.Start(job)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"flag_string": rec.Settings.FlagString()})
	case errors.Is(err, generate.ErrBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		writeJSON(w, http.StatusBadRequest, toValidateResp(err))
	}
}

func (a *app) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResp{Busy: a.runner.Busy()}
	a.mu.Lock()
	resp.Report = a.last
	if a.lastErr != nil {
		resp.Err = a.lastErr.Error()
	}
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// Command jetsoftime generates randomized seeds from the saved settings and
// inspects those settings.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xtding233/jetsoftime/internal/config"
	"github.com/xtding233/jetsoftime/internal/generate"
	"github.com/xtding233/jetsoftime/internal/mystery"
	"github.com/xtding233/jetsoftime/internal/patch"
	"github.com/xtding233/jetsoftime/internal/rpc"
	"github.com/xtding233/jetsoftime/internal/settings"
)

const usage = `usage: jetsoftime <command> [flags]

commands:
  generate    patch a ROM with the saved settings
  flagstring  print the flag string of the saved settings
  validate    check the saved settings
  preset      list presets, or save one with -preset
  mystery     preview mystery roll frequencies`

var errUsage = errors.New(usage)

func main() {
	log.SetPrefix("jetsoftime: ")
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmds := map[string]func([]string, io.Reader, io.Writer) error{
		"generate":   runGenerate,
		"flagstring": runFlagString,
		"validate":   runValidate,
		"preset":     runPreset,
		"mystery":    runMystery,
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
	return cmd(args[1:], stdin, stdout)
}

// session is the state shared by every command: the parsed config and the
// saved record.
type session struct {
	cfg    *config.CLI
	store  *settings.Store
	rec    settings.Record
	preset string
}

func newFlagSet(name string) (*flag.FlagSet, *session, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg, err := config.LoadCLI(fs)
	if err != nil {
		return nil, nil, err
	}
	s := &session{cfg: cfg}
	fs.StringVar(&s.preset, "preset", "", "use a preset instead of the saved settings")
	return fs, s, nil
}

// open loads the saved record and applies -preset.
func (s *session) open() error {
	path, err := s.cfg.StorePath()
	if err != nil {
		return err
	}
	s.store = settings.NewStore(path)
	rec, status, err := s.store.Load()
	if err != nil {
		log.Printf("settings file: %v", err)
	}
	if status != settings.Loaded {
		log.Printf("settings %s", status)
	}
	if s.preset != "" {
		p, err := settings.Preset(s.preset)
		if err != nil {
			return err
		}
		p.CharNames = rec.Settings.CharNames
		rec.Settings = p
	}
	if s.cfg.OutputDir != "" {
		rec.OutputDir = s.cfg.OutputDir
	}
	s.rec = rec
	return nil
}

func runGenerate(args []string, stdin io.Reader, stdout io.Writer) error {
	fs, s, err := newFlagSet("generate")
	if err != nil {
		return err
	}
	input := fs.String("in", "", "input ROM (default: the saved input path)")
	seed := fs.String("seed", "", "seed name (default: random)")
	yes := fs.Bool("yes", false, "continue with a non-vanilla ROM without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}
	if *input != "" {
		s.rec.InputPath = *input
	}
	s.rec.Settings.Seed = *seed

	gen := generate.CosmeticGenerator{Policy: patch.ContinueOnError}
	if s.cfg.ScriptsDir != "" {
		table, err := patch.LoadScriptDir(s.cfg.ScriptsDir)
		if err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
		gen.Scripts = table
	}
	job := generate.Job{
		Settings:  s.rec.Settings,
		InputPath: s.rec.InputPath,
		OutputDir: s.rec.OutputDir,
		Generator: gen,
		Store:     s.store,
	}
	if !*yes {
		job.ConfirmNonVanilla = func() bool { return confirm(stdin, stdout) }
	}
	if err := job.Validate(); err != nil {
		return err
	}
	rep, err := job.Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "seed %s (%s)\n%s\n%s\n", rep.Seed, rep.FlagString, rep.ROMPath, rep.SpoilerPath)
	if rep.ScriptsDir != "" {
		fmt.Fprintln(stdout, rep.ScriptsDir)
	}
	return nil
}

func confirm(stdin io.Reader, stdout io.Writer) bool {
	fmt.Fprint(stdout, "The input does not look like a vanilla ROM. Continue? [y/N] ")
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func runFlagString(args []string, _ io.Reader, stdout io.Writer) error {
	fs, s, err := newFlagSet("flagstring")
	if err != nil {
		return err
	}
	remote := fs.String("remote", "", "ask the settings service at this address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}
	if *remote == "" {
		fmt.Fprintln(stdout, s.rec.Settings.FlagString())
		return nil
	}

	conn, err := rpc.Dial(*remote)
	if err != nil {
		return err
	}
	defer conn.Close()
	b, err := json.Marshal(map[string]any{"settings": s.rec.Settings})
	if err != nil {
		return err
	}
	in, err := rpc.FromJSON(b)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := rpc.NewClient(conn).FlagString(ctx, in)
	if err != nil {
		return fmt.Errorf("flag string: %w", err)
	}
	fmt.Fprintln(stdout, out.GetFields()["flag_string"].GetStringValue())
	return nil
}

func runValidate(args []string, _ io.Reader, stdout io.Writer) error {
	fs, s, err := newFlagSet("validate")
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := settings.Validate(s.rec.Settings); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ok: %s\n", s.rec.Settings.FlagString())
	return nil
}

func runPreset(args []string, _ io.Reader, stdout io.Writer) error {
	fs, s, err := newFlagSet("preset")
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if s.preset == "" {
		for _, name := range settings.PresetNames() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := s.store.Save(s.rec); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "saved %s: %s\n", s.preset, s.rec.Settings.FlagString())
	return nil
}

func runMystery(args []string, _ io.Reader, stdout io.Writer) error {
	fs, s, err := newFlagSet("mystery")
	if err != nil {
		return err
	}
	trials := fs.Int("trials", 10000, "number of rolls")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", *trials)
	}
	if err := s.open(); err != nil {
		return err
	}
	rep, err := mystery.Preview(s.rec.Settings, *trials, nil)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

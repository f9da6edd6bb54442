// Package config loads process configuration from the environment, with
// command-line flags layered on top.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/xtding233/jetsoftime/internal/settings"
)

// Server configures cmd/server.
type Server struct {
	HTTPAddr         string        `env:"JETSOFTIME_HTTP_ADDR"           envDefault:":8080"`
	GRPCAddr         string        `env:"JETSOFTIME_GRPC_ADDR"           envDefault:":8081"`
	SettingsFile     string        `env:"JETSOFTIME_SETTINGS_FILE"`
	WatchInterval    time.Duration `env:"JETSOFTIME_WATCH_INTERVAL"      envDefault:"2s"`
	PreviewTrials    int           `env:"JETSOFTIME_PREVIEW_TRIALS"      envDefault:"10000"`
	MaxPreviewTrials int           `env:"JETSOFTIME_MAX_PREVIEW_TRIALS"  envDefault:"1000000"`
	ScriptsDir       string        `env:"JETSOFTIME_SCRIPTS_DIR"`
}

// CLI configures cmd/jetsoftime.
type CLI struct {
	SettingsFile string `env:"JETSOFTIME_SETTINGS_FILE"`
	OutputDir    string `env:"JETSOFTIME_OUTPUT_DIR"`
	ScriptsDir   string `env:"JETSOFTIME_SCRIPTS_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer reads the environment and then args. Flags override env.
func LoadServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc", cfg.GRPCAddr, "gRPC listen address")
	fs.StringVar(&cfg.SettingsFile, "settings", cfg.SettingsFile, "settings file (default: per-user flags.yaml)")
	fs.DurationVar(&cfg.WatchInterval, "watch", cfg.WatchInterval, "settings file poll interval")
	fs.IntVar(&cfg.PreviewTrials, "trials", cfg.PreviewTrials, "default mystery preview trials")
	fs.IntVar(&cfg.MaxPreviewTrials, "max-trials", cfg.MaxPreviewTrials, "largest mystery preview a request may ask for")
	fs.StringVar(&cfg.ScriptsDir, "scripts", cfg.ScriptsDir, "directory of decoded event scripts")
	if err := parseArgs(fs, args); err != nil {
		return Server{}, err
	}
	if cfg.PreviewTrials <= 0 {
		return Server{}, fmt.Errorf("preview trials must be positive, got %d", cfg.PreviewTrials)
	}
	if cfg.PreviewTrials > cfg.MaxPreviewTrials {
		return Server{}, fmt.Errorf("preview trials %d exceed the maximum %d", cfg.PreviewTrials, cfg.MaxPreviewTrials)
	}
	if cfg.WatchInterval <= 0 {
		return Server{}, fmt.Errorf("watch interval must be positive, got %s", cfg.WatchInterval)
	}
	return cfg, resolveSettingsFile(&cfg.SettingsFile)
}

// LoadCLI reads the environment and binds the shared flags on fs. Flags are
// parsed by the caller along with its own.
func LoadCLI(fs *flag.FlagSet) (*CLI, error) {
	cfg := &CLI{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	fs.StringVar(&cfg.SettingsFile, "settings", cfg.SettingsFile, "settings file (default: per-user flags.yaml)")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory (default: next to the input)")
	fs.StringVar(&cfg.ScriptsDir, "scripts", cfg.ScriptsDir, "directory of decoded event scripts")
	return cfg, nil
}

// StorePath returns the settings file, defaulting to the per-user location.
func (c *CLI) StorePath() (string, error) {
	p := c.SettingsFile
	return p, resolveSettingsFile(&p)
}

func parseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

func resolveSettingsFile(p *string) error {
	if *p != "" {
		return nil
	}
	def, err := settings.DefaultStorePath()
	if err != nil {
		return fmt.Errorf("settings file: %w", err)
	}
	*p = def
	return nil
}

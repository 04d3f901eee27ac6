// Package config resolves runtime settings from the environment and the
// command line. Flags override environment variables.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const seedEnv = "SKIRMISH_SEED"

// Config holds skirmish command configuration.
type Config struct {
	LogLevel  string `env:"SKIRMISH_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SKIRMISH_LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"SKIRMISH_LOG_FILE"`
	Seed      int64  `env:"SKIRMISH_SEED"`
	Plain     bool   `env:"SKIRMISH_PLAIN"`
	Trace     bool   `env:"SKIRMISH_TRACE"`

	// HasSeed is set when Seed came from the environment or a flag and
	// should override the scenario's own seed.
	HasSeed bool

	Script      string
	Version     bool
	ScenarioDir string
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig parses environment and flags into Config. The first
// positional argument is the scenario directory.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.HasSeed = os.Getenv(seedEnv) != ""

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text or json)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Override the scenario RNG seed")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "Use the line-oriented interface instead of the TUI")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "Print debug lines alongside player output")
	fs.StringVar(&cfg.Script, "script", "", "Run commands from a file (implies -plain)")
	fs.BoolVar(&cfg.Version, "version", false, "Print version information and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.HasSeed = true
		}
	})
	if cfg.Script != "" {
		cfg.Plain = true
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("unknown log format %q (want text or json)", cfg.LogFormat)
	}

	cfg.ScenarioDir = fs.Arg(0)
	if cfg.ScenarioDir == "" && !cfg.Version {
		return Config{}, fmt.Errorf("missing scenario directory")
	}
	return cfg, nil
}

package config

import (
	"flag"
	"io"
	"strings"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("skirmish", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"scenarios/outpost"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("expected info/text defaults, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Plain || cfg.Trace || cfg.HasSeed {
		t.Fatalf("expected boolean defaults off, got %+v", cfg)
	}
	if cfg.ScenarioDir != "scenarios/outpost" {
		t.Fatalf("ScenarioDir = %q", cfg.ScenarioDir)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("SKIRMISH_LOG_LEVEL", "debug")
	t.Setenv("SKIRMISH_LOG_FORMAT", "json")
	t.Setenv("SKIRMISH_SEED", "99")
	t.Setenv("SKIRMISH_PLAIN", "true")

	cfg, err := ParseConfig(newFlagSet(), []string{"dir"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if !cfg.HasSeed || cfg.Seed != 99 {
		t.Fatalf("expected seed 99 from env, got %d (set=%v)", cfg.Seed, cfg.HasSeed)
	}
	if !cfg.Plain {
		t.Fatal("expected plain from env")
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SKIRMISH_LOG_LEVEL", "debug")

	cfg, err := ParseConfig(newFlagSet(), []string{"-log-level", "warn", "-seed", "5", "-trace", "dir"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if !cfg.HasSeed || cfg.Seed != 5 {
		t.Fatalf("expected seed 5 from flag, got %d (set=%v)", cfg.Seed, cfg.HasSeed)
	}
	if !cfg.Trace {
		t.Fatal("expected trace from flag")
	}
}

func TestParseConfigScriptImpliesPlain(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"-script", "moves.txt", "dir"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Plain || cfg.Script != "moves.txt" {
		t.Fatalf("expected plain script mode, got %+v", cfg)
	}
}

func TestParseConfigVersionNeedsNoDir(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"-version"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Version {
		t.Fatal("expected version flag")
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"missing dir", nil, nil, "missing scenario directory"},
		{"bad format", nil, []string{"-log-format", "xml", "dir"}, "unknown log format"},
		{"bad env seed", map[string]string{"SKIRMISH_SEED": "abc"}, []string{"dir"}, "parse env:"},
		{"unknown flag", nil, []string{"-bogus", "dir"}, "bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseConfig(newFlagSet(), tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestParseConfigEmptySeedEnvKeepsScenarioSeed(t *testing.T) {
	t.Setenv("SKIRMISH_SEED", "")

	cfg, err := ParseConfig(newFlagSet(), []string{"dir"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HasSeed {
		t.Fatalf("empty SKIRMISH_SEED should not override the scenario seed, got %+v", cfg)
	}
}

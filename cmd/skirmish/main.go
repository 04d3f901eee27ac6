// Skirmish is a deterministic, data-driven turn-based combat simulator.
// Usage: skirmish [-version] [-plain] [-script <file>] [-trace] [-seed n] [-log-level l] <scenario_directory>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/nathoo/skirmish/cli"
	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/logging"
	"github.com/nathoo/skirmish/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	fs := flag.NewFlagSet("skirmish", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: skirmish [flags] <scenario_directory>\n")
		fs.PrintDefaults()
	}
	cfg, err := config.ParseConfig(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(2)
	}
	if cfg.Version {
		fmt.Printf("skirmish %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// Use plain CLI if requested or stdout is not a terminal.
	plain := cfg.Plain || !isatty.IsTerminal(os.Stdout.Fd())

	// The TUI owns the screen, so its logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	case plain:
		logOut = os.Stderr
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return err
	}

	// Load and compile Lua scenario content.
	defs, err := loader.Load(cfg.ScenarioDir, loader.WithLogger(log))
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	opts := []engine.Option{engine.WithLogger(log)}
	if cfg.HasSeed {
		opts = append(opts, engine.WithSeed(cfg.Seed))
	}
	eng, err := engine.New(defs, opts...)
	if err != nil {
		return fmt.Errorf("starting encounter: %w", err)
	}

	if !plain {
		return tui.Run(ctx, eng, cfg.Trace)
	}

	printTitle(defs.Scenario.Title, defs.Scenario.Version, defs.Scenario.Author)
	c := cli.New(eng)
	c.Trace = cfg.Trace

	// Script mode: read commands from the file and echo them.
	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}

	c.Run(ctx)
	return nil
}

func printTitle(title, version, author string) {
	line := title
	if version != "" {
		line += " v" + version
	}
	if author != "" {
		line += " by " + author
	}
	fmt.Printf("%s\n\n", line)
}

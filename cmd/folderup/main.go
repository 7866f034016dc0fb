package main

import (
	"fmt"
	"os"

	"github.com/jmcdonald/folderup/internal/adapters/tuisvc"
	"github.com/jmcdonald/folderup/internal/cli"
	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/logging"
	"github.com/jmcdonald/folderup/internal/tui"
)

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

func main() {
	// Handle TUI mode (no args or ui/tui command)
	if len(os.Args) < 2 || os.Args[1] == "ui" || os.Args[1] == "tui" {
		if err := runTUI(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Use CLI for all other commands
	c := cli.New(version)
	c.Run()
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Never log to the terminal the TUI is drawing on
	logger, closer, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	svc := tuisvc.New(logger)
	svc.UserAgent = "folderup/" + version
	return tui.Run(svc)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/taskman/internal/cli"
	"github.com/idilsaglam/taskman/internal/config"
	"github.com/idilsaglam/taskman/internal/exitcode"
	"github.com/idilsaglam/taskman/internal/logging"
	"github.com/idilsaglam/taskman/internal/store/jsonstore"
	"github.com/idilsaglam/taskman/internal/task"
	"github.com/idilsaglam/taskman/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	cfg, rest, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitcode.Success
		}
		ui.Fail(os.Stderr, err.Error())
		return exitcode.Usage
	}
	ui.SetTheme(cfg.Theme)

	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stderr, opts)
	if cfg.Source != "" {
		logger.Debug("loaded config", "path", cfg.Source)
	}

	backend := jsonstore.New(cfg.File,
		jsonstore.WithLogger(logger),
		jsonstore.WithCorruptBackup(cfg.BackupCorrupt),
	)
	logger.Debug("opening tasks file", "path", backend.Path())
	store, err := task.Open(backend, task.WithLogger(logger))
	if err != nil {
		if !errors.Is(err, task.ErrCorrupt) {
			ui.Fail(os.Stderr, err.Error())
			return exitcode.Failure
		}
		// Recoverable: continue with an empty list.
		ui.Fail(os.Stderr, fmt.Sprintf("Error: %v", err))
		if _, statErr := os.Stat(backend.BackupPath()); cfg.BackupCorrupt && statErr == nil {
			ui.Hint(os.Stderr, "A copy was saved to "+backend.BackupPath())
		} else {
			ui.Hint(os.Stderr, "Starting with an empty task list; the file is replaced on the next change.")
		}
	}

	code := cli.Run(store, rest, cli.Options{Group: cfg.Group})
	if code != exitcode.Success {
		fmt.Fprintln(os.Stderr)
	}
	return code
}

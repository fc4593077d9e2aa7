package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/idelchi/topsize/internal/config"
	"github.com/idelchi/topsize/internal/dirstat"
)

func logic(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	console := NewConsole(stderr)

	enableProgress := cfg.Output != "json" &&
		!cfg.Debug &&
		isTerminal(stderr)

	hooks := dirstat.Hooks{Error: console.ReadError}

	if enableProgress {
		console.StartProgress()
		defer console.StopProgress()

		hooks.Progress = console.Progress
	}

	options := dirstat.Options{
		Path:             cfg.Folder,
		FolderMode:       cfg.FolderSize,
		Track:            int(cfg.Track),
		Threads:          int(cfg.Threads),
		Excludes:         cfg.Excludes,
		ProgressInterval: cfg.ProgressInterval,
		Debug:            cfg.Debug,
		DebugOutput:      stderr,
	}

	if cfg.Output == "text" {
		if err := PrintHeader(options, stdout); err != nil {
			return err
		}
	}

	stats, err := dirstat.Run(ctx, options, hooks)
	if err != nil {
		return err
	}

	switch cfg.Output {
	case "json":
		return PrintJSON(stats, stdout)
	case "table":
		return PrintTable(stats, stdout)
	case "text":
		return PrintText(stats, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", cfg.Output)
	}
}

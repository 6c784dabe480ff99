package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"testsearch/internal/config"
	"testsearch/internal/domain"
	"testsearch/internal/ui"
)

// SearchCommand handles the search command
type SearchCommand struct {
	config *config.Config
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(cfg *config.Config) *SearchCommand {
	return &SearchCommand{config: cfg}
}

// Execute runs the command
func (sc *SearchCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()
	out := cmd.OutOrStdout()

	cache, err := newCache(sc.config, logger)
	if err != nil {
		return err
	}
	dir, err := workingDir("")
	if err != nil {
		return err
	}

	if sc.config.Flags.Last {
		id, ok, err := cache.Lookup(dir)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w for %s", domain.ErrNoHistory, dir)
		}
		_, err = fmt.Fprintln(out, id)
		return err
	}

	files, err := discoverFiles(ctx, sc.config, args, logger)
	if err != nil {
		return err
	}

	driver, err := newDriver(sc.config, logger)
	if err != nil {
		return err
	}
	produce := func(ctx context.Context, ids chan<- string) error {
		return driver.Stream(ctx, files, ids)
	}

	pipeline := ui.NewPipeline(out, newSelector(sc.config), cache, dir, logger)
	pipeline.SetBeforeDump(func() {
		if ui.IsTerminal(os.Stderr) {
			driver.SetProgress(ui.NewProgressBar(len(files), os.Stderr))
		}
	})

	_, err = pipeline.Interactive(ctx, produce)
	return err
}

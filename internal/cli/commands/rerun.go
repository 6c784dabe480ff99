package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"testsearch/internal/config"
	"testsearch/internal/domain"
	"testsearch/internal/ui"
)

// RerunCommand picks a previously selected test again
type RerunCommand struct {
	config *config.Config
}

// NewRerunCommand creates a new RerunCommand
func NewRerunCommand(cfg *config.Config) *RerunCommand {
	return &RerunCommand{config: cfg}
}

// Execute runs the command
func (rc *RerunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()
	out := cmd.OutOrStdout()

	var root string
	if len(args) > 0 {
		root = args[0]
	}
	dir, err := workingDir(root)
	if err != nil {
		return err
	}

	cache, err := newCache(rc.config, logger)
	if err != nil {
		return err
	}
	history, err := cache.History(dir)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("%w for %s", domain.ErrNoHistory, dir)
	}

	if rc.config.Flags.Last {
		_, err := fmt.Fprintln(out, history[len(history)-1])
		return err
	}

	// most recent first
	recent := make([]string, len(history))
	for i, id := range history {
		recent[len(history)-1-i] = id
	}

	pipeline := ui.NewPipeline(out, newSelector(rc.config), cache, dir, logger)
	_, err = pipeline.Interactive(ctx, ui.SliceProducer(recent))
	return err
}

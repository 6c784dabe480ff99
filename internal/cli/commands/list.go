package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"testsearch/internal/config"
	"testsearch/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config *config.Config
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config) *ListCommand {
	return &ListCommand{config: cfg}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()

	files, err := discoverFiles(ctx, lc.config, args, logger)
	if err != nil {
		return err
	}

	driver, err := newDriver(lc.config, logger)
	if err != nil {
		return err
	}
	ids, err := driver.Collect(ctx, files)
	if err != nil {
		return err
	}

	ui.NewFormatter(cmd.OutOrStdout()).PrintTestTree(ids)
	return nil
}

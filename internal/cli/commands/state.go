package commands

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"testsearch/internal/config"
	"testsearch/internal/ui"
)

// StateCommand inspects and clears the selection cache
type StateCommand struct {
	config *config.Config
}

// NewStateCommand creates a new StateCommand
func NewStateCommand(cfg *config.Config) *StateCommand {
	return &StateCommand{config: cfg}
}

// Show prints the history of the working directory, or the whole cache with --all
func (sc *StateCommand) Show(cmd *cobra.Command, args []string) error {
	cache, err := newCache(sc.config, slog.Default())
	if err != nil {
		return err
	}
	formatter := ui.NewFormatter(cmd.OutOrStdout())
	format := sc.config.Flags.Output

	if sc.config.Flags.All {
		doc, err := cache.Snapshot()
		if err != nil {
			return err
		}
		if format == "" || format == ui.FormatText {
			formatter.PrintDocument(doc)
			return nil
		}
		return formatter.Encode(doc, format)
	}

	dir, err := workingDir("")
	if err != nil {
		return err
	}
	history, err := cache.History(dir)
	if err != nil {
		return err
	}
	if format == "" || format == ui.FormatText {
		formatter.PrintHistory(dir, history)
		return nil
	}
	return formatter.Encode(map[string][]string{dir: history}, format)
}

// Clear forgets the working directory, or everything with --all
func (sc *StateCommand) Clear(cmd *cobra.Command, args []string) error {
	cache, err := newCache(sc.config, slog.Default())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if sc.config.Flags.All {
		if err := cache.ClearAll(); err != nil {
			return err
		}
		fmt.Fprintln(out, color.GreenString("✓ Cleared all test history (%s)", cache.Path()))
		return nil
	}

	dir, err := workingDir("")
	if err != nil {
		return err
	}
	if err := cache.Clear(dir); err != nil {
		return err
	}
	fmt.Fprintln(out, color.GreenString("✓ Cleared test history for %s", dir))
	return nil
}

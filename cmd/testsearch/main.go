package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"testsearch/internal/cli"
	"testsearch/internal/cli/commands"
	"testsearch/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "testsearch [roots...]",
		Short: "Find pytest tests and pick one",
		Long: `Discover pytest test functions and methods by parsing Python sources with tree-sitter,
print their node ids (path::Class::test_name) or pick one with a fuzzy selector.
Files are parsed concurrently on a pool of goroutines or worker processes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

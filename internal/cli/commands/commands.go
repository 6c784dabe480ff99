package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"testsearch/internal/cli"
	"testsearch/internal/config"
	"testsearch/internal/logging"
)

// Commands holds all CLI commands
type Commands struct {
	Search *SearchCommand
	List   *ListCommand
	Rerun  *RerunCommand
	State  *StateCommand
	Worker *WorkerCommand
}

// NewCommands creates all commands sharing cfg. cfg is filled in from
// defaults, config file, environment and flags before any command runs.
func NewCommands(cfg *config.Config) *Commands {
	return &Commands{
		Search: NewSearchCommand(cfg),
		List:   NewListCommand(cfg),
		Rerun:  NewRerunCommand(cfg),
		State:  NewStateCommand(cfg),
		Worker: NewWorkerCommand(),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Config file (default: testsearch.yaml in the user config dir or .)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := logging.Setup(flags.Verbose)
		v, err := config.NewViper(flags.ConfigFile, logger)
		if err != nil {
			return err
		}
		loaded, err := config.Load(v, flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		logger.Debug("configuration loaded",
			slog.String("plan", cfg.ExecutionPlan().String()),
			slog.String("selector", cfg.Selector),
			slog.String("finder", cfg.Finder))
		return nil
	}

	// The root command searches too
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = c.Search.Execute
	addSearchFlags(rootCmd, flags)

	// Search command
	searchCmd := &cobra.Command{
		Use:   "search [roots...]",
		Short: "Find pytest tests and pick one",
		Long:  "Discover pytest test functions under the given roots (default: the working directory) and print their node ids or pick one interactively",
		RunE:  c.Search.Execute,
	}
	addSearchFlags(searchCmd, flags)
	rootCmd.AddCommand(searchCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [roots...]",
		Short: "List discovered tests as a tree",
		Long:  "Discover pytest tests and print them grouped by file and class",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Strategy, "method", "m", "", "Scheduling strategy: serial, map (ordered-parallel) or apply (completion-order-parallel)")
	listCmd.Flags().StringVarP(&flags.Pool, "pool", "p", "", "Worker pool: threads or processes")
	listCmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of workers (default: number of CPUs)")
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., 'test_api*' or 'tests/unit/**')")
	rootCmd.AddCommand(listCmd)

	// Rerun command
	rerunCmd := &cobra.Command{
		Use:   "rerun [root]",
		Short: "Pick a previously selected test again",
		Long:  "Show the tests selected before in this directory (most recent first) and print the chosen one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Rerun.Execute,
	}
	rerunCmd.Flags().BoolVarP(&flags.Last, "last", "l", false, "Print the most recent selection without asking")
	rerunCmd.Flags().BoolVarP(&flags.NoFuzzySelection, "no-fuzzy-selection", "n", false, "Print the whole history instead of opening the selector")
	rerunCmd.Flags().StringVar(&flags.Selector, "selector", "", "Selector: fzf, builtin or none")
	rootCmd.AddCommand(rerunCmd)

	// State commands
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or clear the selection history",
	}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the selection history",
		Args:  cobra.NoArgs,
		RunE:  c.State.Show,
	}
	showCmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Show every directory")
	showCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output format: json or yaml")
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the selection history",
		Args:  cobra.NoArgs,
		RunE:  c.State.Clear,
	}
	clearCmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Clear every directory")
	stateCmd.AddCommand(showCmd, clearCmd)
	rootCmd.AddCommand(stateCmd)

	// Worker command
	workerCmd := &cobra.Command{
		Use:    "worker",
		Short:  "Serve extraction requests on stdin/stdout",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE:   c.Worker.Execute,
		// workers take their verbosity from the environment and need no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	rootCmd.AddCommand(workerCmd)
}

func addSearchFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.Strategy, "method", "m", "", "Scheduling strategy: serial, map (ordered-parallel) or apply (completion-order-parallel)")
	cmd.Flags().StringVarP(&flags.Pool, "pool", "p", "", "Worker pool: threads or processes")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of workers (default: number of CPUs)")
	cmd.Flags().BoolVarP(&flags.NoFuzzySelection, "no-fuzzy-selection", "n", false, "Print every test id instead of opening the selector")
	cmd.Flags().BoolVarP(&flags.Last, "last", "l", false, "Print the test selected last in this directory")
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., 'test_api*' or 'tests/unit/**')")
	cmd.Flags().StringVar(&flags.Selector, "selector", "", "Selector: fzf, builtin or none")
}

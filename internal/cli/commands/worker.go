package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"testsearch/internal/discovery"
	"testsearch/internal/execution"
	"testsearch/internal/logging"
)

// WorkerCommand serves extraction requests for a process pool
type WorkerCommand struct{}

// NewWorkerCommand creates a new WorkerCommand
func NewWorkerCommand() *WorkerCommand {
	return &WorkerCommand{}
}

// Execute runs the command
func (wc *WorkerCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Setup(logging.VerbosityFromEnv())

	extractor := discovery.NewPythonExtractor(logger)
	defer extractor.Close()

	return execution.ServeWorker(ctx, os.Stdin, os.Stdout, extractor)
}

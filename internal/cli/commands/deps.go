package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"testsearch/internal/config"
	"testsearch/internal/discovery"
	"testsearch/internal/domain"
	"testsearch/internal/execution"
	"testsearch/internal/logging"
	"testsearch/internal/storage"
	"testsearch/internal/ui"
)

func newFinder(cfg *config.Config, logger *slog.Logger) discovery.Finder {
	walker := discovery.NewScanner(cfg.Pattern, cfg.PathsToIgnore)
	switch cfg.Finder {
	case config.FinderWalk:
		return walker
	case config.FinderFd:
		return discovery.NewFdFinder(cfg.FdCommand, cfg.Pattern)
	default:
		return discovery.NewFallbackFinder(discovery.NewFdFinder(cfg.FdCommand, cfg.Pattern), walker, logger)
	}
}

func newWorkerFactory(cfg *config.Config, logger *slog.Logger) (execution.WorkerFactory, error) {
	if cfg.Pool != domain.PoolProcesses {
		return execution.NewThreadWorkerFactory(logger), nil
	}
	opts, err := execution.DefaultProcessOptions(logging.VerboseEnv + "=" + strconv.Itoa(cfg.Flags.Verbose))
	if err != nil {
		return nil, err
	}
	return execution.NewProcessWorkerFactory(opts), nil
}

func newCache(cfg *config.Config, logger *slog.Logger) (*storage.JSONCache, error) {
	path, err := cfg.GetCachePath()
	if err != nil {
		return nil, err
	}
	return storage.NewJSONCache(path, cfg.HistoryLimit, logger), nil
}

// newSelector returns nil when results should go straight to stdout
func newSelector(cfg *config.Config) ui.Selector {
	if !cfg.Interactive() {
		return nil
	}
	if cfg.Selector == config.SelectorBuiltin {
		return ui.NewPicker()
	}
	return ui.NewFzfSelector(cfg.SelectorCommand)
}

// discoverFiles finds and filters candidate test files under roots
func discoverFiles(ctx context.Context, cfg *config.Config, roots []string, logger *slog.Logger) ([]string, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	files, err := newFinder(cfg, logger).Find(ctx, roots)
	if err != nil {
		return nil, err
	}
	files = discovery.NewFilter().FilterByName(files, cfg.Flags.Filter)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", domain.ErrNoTestFiles, strings.Join(roots, ", "))
	}
	logger.Info("discovered test files", "count", len(files), "roots", roots)
	return files, nil
}

func newDriver(cfg *config.Config, logger *slog.Logger) (*execution.Driver, error) {
	factory, err := newWorkerFactory(cfg, logger)
	if err != nil {
		return nil, err
	}
	return execution.NewDriver(cfg.ExecutionPlan(), factory, logger), nil
}

// workingDir returns the absolute directory used as the cache key
func workingDir(arg string) (string, error) {
	if arg == "" {
		return os.Getwd()
	}
	return filepath.Abs(arg)
}

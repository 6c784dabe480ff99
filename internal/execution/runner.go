package execution

import (
	"context"
	"log/slog"

	"testsearch/internal/discovery"
	"testsearch/internal/domain"
)

// Extractor is the in-process extraction capability a Runner wraps
type Extractor interface {
	Extract(ctx context.Context, path string) ([]domain.TestRecord, error)
	Close()
}

// Runner is a shared-memory worker running the extractor on the calling goroutine
type Runner struct {
	extractor Extractor
}

// NewRunner creates a new Runner
func NewRunner(extractor Extractor) *Runner {
	return &Runner{extractor: extractor}
}

// Extract implements Worker
func (r *Runner) Extract(ctx context.Context, path string) ([]domain.TestRecord, error) {
	return r.extractor.Extract(ctx, path)
}

// Close implements Worker
func (r *Runner) Close() error {
	r.extractor.Close()
	return nil
}

// NewThreadWorkerFactory returns a factory of goroutine-backed workers, each
// owning a private Python parser
func NewThreadWorkerFactory(logger *slog.Logger) WorkerFactory {
	return func(ctx context.Context) (Worker, error) {
		return NewRunner(discovery.NewPythonExtractor(logger)), nil
	}
}
